package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golazo.app/penaltyduel/internal/model"
	"golazo.app/penaltyduel/internal/repository"
	"golazo.app/penaltyduel/pkg/apperror"
	"gorm.io/gorm"
)

type AdminService interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) (*model.User, error)
	// ResetStats is the corrective action behind the "total_points is
	// monotonically non-decreasing except for admin action" rule.
	ResetStats(ctx context.Context, userID uuid.UUID) error
}

type adminService struct {
	users  repository.UserRepository
	stats  repository.StatsRepository
	search SearchService
}

func NewAdminService(users repository.UserRepository, stats repository.StatsRepository, search SearchService) AdminService {
	return &adminService{
		users:  users,
		stats:  stats,
		search: search,
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.PasswordHash = ""
	}

	return users, nil
}

func (s *adminService) SetBlocked(ctx context.Context, userID uuid.UUID, blocked bool) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if user.IsAdmin {
		return nil, apperror.ErrForbidden
	}

	user.IsBlocked = blocked
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.search != nil {
		if blocked {
			s.search.RemoveUser(user.ID)
		} else {
			s.search.IndexUser(user)
		}
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *adminService) ResetStats(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, userID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	return s.stats.Reset(ctx, userID)
}
