package service

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"golazo.app/penaltyduel/internal/dto"
	"golazo.app/penaltyduel/internal/game"
	"golazo.app/penaltyduel/internal/model"
	"golazo.app/penaltyduel/internal/repository"
	"golazo.app/penaltyduel/pkg/apperror"
	"golazo.app/penaltyduel/pkg/storage"
	"gorm.io/gorm"
)

// AvatarFile represents an uploaded avatar image.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*model.User, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, avatar *AvatarFile) (*model.User, error)
	// GetPlayerStats is the public stats + level view for any player.
	GetPlayerStats(ctx context.Context, username string) (*dto.PlayerStatsResponse, error)
	GetMyStats(ctx context.Context, userID uuid.UUID) (*dto.PlayerStatsResponse, error)
}

type profileService struct {
	users        repository.UserRepository
	stats        repository.StatsRepository
	imageStorage storage.ImageStorage
	search       SearchService
}

func NewProfileService(users repository.UserRepository, stats repository.StatsRepository, imageStorage storage.ImageStorage, search SearchService) ProfileService {
	return &profileService{
		users:        users,
		stats:        stats,
		imageStorage: imageStorage,
		search:       search,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if req.AvatarID != nil {
		user.AvatarID = *req.AvatarID
	}
	if req.Language != nil {
		user.Language = *req.Language
	}
	if req.EmailNotifications != nil {
		user.EmailNotifications = *req.EmailNotifications
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.search != nil {
		s.search.IndexUser(user)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, avatar *AvatarFile) (*model.User, error) {
	if avatar == nil || avatar.Reader == nil {
		return nil, apperror.ErrInvalidInput
	}
	if s.imageStorage == nil {
		return nil, apperror.ErrInternal
	}

	user, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
	if err != nil {
		return nil, err
	}

	// Drop the previous custom avatar, best-effort.
	if user.AvatarURL != nil {
		_ = s.imageStorage.DeleteImage(ctx, *user.AvatarURL)
	}

	user.AvatarURL = &url
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.search != nil {
		s.search.IndexUser(user)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) GetPlayerStats(ctx context.Context, username string) (*dto.PlayerStatsResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return s.statsResponse(ctx, user)
}

func (s *profileService) GetMyStats(ctx context.Context, userID uuid.UUID) (*dto.PlayerStatsResponse, error) {
	user, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return s.statsResponse(ctx, user)
}

func (s *profileService) statsResponse(ctx context.Context, user *model.User) (*dto.PlayerStatsResponse, error) {
	stats := user.Stats
	if stats == nil {
		// No games yet: present zeroed counters without creating a row.
		stats = &model.UserStats{UserID: user.ID}
	}

	return &dto.PlayerStatsResponse{
		Username: user.Username,
		AvatarID: user.AvatarID,
		Stats:    stats,
		Level:    game.CalculateLevel(stats.TotalPoints),
	}, nil
}
