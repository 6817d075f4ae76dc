package repository

import (
	"context"

	"github.com/google/uuid"
	"golazo.app/penaltyduel/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository interface {
	// WithTx returns a repository bound to the given transaction.
	WithTx(tx *gorm.DB) MatchRepository

	Create(ctx context.Context, match *model.Match) error
	FindByID(ctx context.Context, id string) (*model.Match, error)
	// FindByIDForUpdate locks the match row for the duration of the enclosing
	// transaction so that resolution can only fire once.
	FindByIDForUpdate(ctx context.Context, id string) (*model.Match, error)
	FindByInviteToken(ctx context.Context, token string) (*model.Match, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]model.Match, error)
	Save(ctx context.Context, match *model.Match) error
	Delete(ctx context.Context, id string) error
	// ClaimInvitations attaches all pending invitations for an email to the
	// newly registered user and moves them to the waiting state.
	ClaimInvitations(ctx context.Context, email string, userID uuid.UUID) (int64, error)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) WithTx(tx *gorm.DB) MatchRepository {
	if tx == nil {
		return r
	}
	return &matchRepository{db: tx}
}

func (r *matchRepository) Create(ctx context.Context, match *model.Match) error {
	return r.db.WithContext(ctx).Create(match).Error
}

func (r *matchRepository) FindByID(ctx context.Context, id string) (*model.Match, error) {
	var match model.Match
	if err := r.db.WithContext(ctx).
		Preload("PlayerA").
		Preload("PlayerB").
		Where("id = ?", id).
		First(&match).Error; err != nil {
		return nil, err
	}

	return &match, nil
}

func (r *matchRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Match, error) {
	var match model.Match
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&match).Error; err != nil {
		return nil, err
	}

	return &match, nil
}

func (r *matchRepository) FindByInviteToken(ctx context.Context, token string) (*model.Match, error) {
	var match model.Match
	if err := r.db.WithContext(ctx).
		Preload("PlayerA").
		Where("invite_token = ?", token).
		First(&match).Error; err != nil {
		return nil, err
	}

	return &match, nil
}

func (r *matchRepository) ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]model.Match, error) {
	query := r.db.WithContext(ctx).
		Preload("PlayerA").
		Preload("PlayerB").
		Where("player_a_id = ? OR player_b_id = ?", userID, userID)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var matches []model.Match
	if err := query.Order("created_at desc").Find(&matches).Error; err != nil {
		return nil, err
	}

	return matches, nil
}

func (r *matchRepository) Save(ctx context.Context, match *model.Match) error {
	return r.db.WithContext(ctx).Save(match).Error
}

func (r *matchRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Match{}, "id = ?", id).Error
}

func (r *matchRepository) ClaimInvitations(ctx context.Context, email string, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Match{}).
		Where("player_b_email = ? AND status = ?", email, model.MatchStatusInvitationPending).
		Updates(map[string]interface{}{
			"player_b_id": userID,
			"status":      model.MatchStatusWaiting,
		})

	return result.RowsAffected, result.Error
}
