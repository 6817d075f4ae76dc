package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golazo.app/penaltyduel/internal/model"
	"golazo.app/penaltyduel/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository fakes. They intentionally ignore the *gorm.DB handle:
// the service layer passes nil through TxManager, and WithTx(nil) on the real
// repositories is a no-op as well.

type fakeTxManager struct{}

func (fakeTxManager) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	seq     int
	matches map[string]model.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[string]model.Match)}
}

func (r *fakeMatchRepo) WithTx(tx *gorm.DB) repository.MatchRepository { return r }

func (r *fakeMatchRepo) Create(ctx context.Context, match *model.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if match.ID == "" {
		match.ID = fmt.Sprintf("match%05d", r.seq)
	}
	if match.InviteToken == "" {
		match.InviteToken = fmt.Sprintf("token%019d", r.seq)
	}
	match.CreatedAt = time.Now()
	r.matches[match.ID] = *match
	return nil
}

func (r *fakeMatchRepo) FindByID(ctx context.Context, id string) (*model.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *fakeMatchRepo) FindByIDForUpdate(ctx context.Context, id string) (*model.Match, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeMatchRepo) FindByInviteToken(ctx context.Context, token string) (*model.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches {
		if m.InviteToken == token {
			m := m
			return &m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMatchRepo) ListByUser(ctx context.Context, userID uuid.UUID, status string) ([]model.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Match
	for _, m := range r.matches {
		if !m.IsParticipant(userID) {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMatchRepo) Save(ctx context.Context, match *model.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[match.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.matches[match.ID] = *match
	return nil
}

func (r *fakeMatchRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.matches, id)
	return nil
}

func (r *fakeMatchRepo) ClaimInvitations(ctx context.Context, email string, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.matches {
		if m.PlayerBEmail == email && m.Status == model.MatchStatusInvitationPending {
			uid := userID
			m.PlayerBID = &uid
			m.Status = model.MatchStatusWaiting
			r.matches[id] = m
			n++
		}
	}
	return n, nil
}

type fakeStatsRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.UserStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{rows: make(map[uuid.UUID]model.UserStats)}
}

func (r *fakeStatsRepo) WithTx(tx *gorm.DB) repository.StatsRepository { return r }

func (r *fakeStatsRepo) Find(ctx context.Context, userID uuid.UUID) (*model.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *fakeStatsRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userID]
	if !ok {
		row = model.UserStats{UserID: userID}
		r.rows[userID] = row
	}
	return &row, nil
}

func (r *fakeStatsRepo) Save(ctx context.Context, stats *model.UserStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[stats.UserID] = *stats
	return nil
}

func (r *fakeStatsRepo) Reset(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[userID]; ok {
		r.rows[userID] = model.UserStats{UserID: userID}
	}
	return nil
}

func (r *fakeStatsRepo) GetTopUsers(ctx context.Context, limit int) ([]model.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.UserStats
	for _, row := range r.rows {
		out = append(out, row)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]model.User)}
	for _, u := range users {
		r.users[u.ID] = *u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) SearchByUsername(ctx context.Context, query string, limit int) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, u := range r.users {
		u := u
		out = append(out, &u)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, u := range r.users {
		u := u
		out = append(out, &u)
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, uid)
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeAchievementRepo struct {
	mu      sync.Mutex
	catalog []model.Achievement
	unlocks map[uuid.UUID]map[string]time.Time
	badges  map[uuid.UUID]model.ActiveBadge
}

func newFakeAchievementRepo(catalog []model.Achievement) *fakeAchievementRepo {
	return &fakeAchievementRepo{
		catalog: catalog,
		unlocks: make(map[uuid.UUID]map[string]time.Time),
		badges:  make(map[uuid.UUID]model.ActiveBadge),
	}
}

func (r *fakeAchievementRepo) WithTx(tx *gorm.DB) repository.AchievementRepository { return r }

func (r *fakeAchievementRepo) SeedCatalog(ctx context.Context, catalog []model.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog = catalog
	return nil
}

func (r *fakeAchievementRepo) ListCatalog(ctx context.Context) ([]model.Achievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.catalog, nil
}

func (r *fakeAchievementRepo) ListUnlocked(ctx context.Context, userID uuid.UUID) ([]model.UserAchievement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.UserAchievement
	for id, at := range r.unlocks[userID] {
		out = append(out, model.UserAchievement{UserID: userID, AchievementID: id, UnlockedAt: at})
	}
	return out, nil
}

func (r *fakeAchievementRepo) UnlockedIDs(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool, len(r.unlocks[userID]))
	for id := range r.unlocks[userID] {
		out[id] = true
	}
	return out, nil
}

func (r *fakeAchievementRepo) Unlock(ctx context.Context, unlock *model.UserAchievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unlocks[unlock.UserID] == nil {
		r.unlocks[unlock.UserID] = make(map[string]time.Time)
	}
	if _, ok := r.unlocks[unlock.UserID][unlock.AchievementID]; !ok {
		r.unlocks[unlock.UserID][unlock.AchievementID] = time.Now()
	}
	return nil
}

func (r *fakeAchievementRepo) FindActiveBadge(ctx context.Context, userID uuid.UUID) (*model.ActiveBadge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	badge, ok := r.badges[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &badge, nil
}

func (r *fakeAchievementRepo) UpsertActiveBadge(ctx context.Context, badge *model.ActiveBadge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.badges[badge.UserID] = *badge
	return nil
}

type fakeNotificationRepo struct {
	mu   sync.Mutex
	rows []model.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	r.rows = append(r.rows, *notification)
	return nil
}

func (r *fakeNotificationRepo) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].UserID == userID {
			r.rows[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if row.UserID == userID && !row.IsRead {
			n++
		}
	}
	return n, nil
}
