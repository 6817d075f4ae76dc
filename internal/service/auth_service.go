package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golazo.app/penaltyduel/internal/dto"
	"golazo.app/penaltyduel/internal/model"
	"golazo.app/penaltyduel/internal/repository"
	"golazo.app/penaltyduel/pkg/apperror"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	users    repository.UserRepository
	matches  repository.MatchRepository
	search   SearchService
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(users repository.UserRepository, matches repository.MatchRepository, search SearchService, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		users:    users,
		matches:  matches,
		search:   search,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := s.ensureUserUnique(ctx, req.Email, req.Username); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	user := &model.User{
		Username:           req.Username,
		Email:              req.Email,
		PasswordHash:       string(hashedPassword),
		AvatarID:           req.AvatarID,
		Language:           language,
		EmailNotifications: true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// Attach every challenge this email was invited to. The user can now see
	// them under waiting matches and play.
	claimed, err := s.matches.ClaimInvitations(ctx, user.Email, user.ID)
	if err != nil {
		log.Printf("failed to claim invitations for %s: %v", user.Email, err)
	}

	// An explicit token also claims invitations that were sent to a different
	// address than the one the user registered with.
	if req.InviteToken != "" {
		if n, err := s.claimByToken(ctx, req.InviteToken, user.ID); err != nil {
			log.Printf("failed to claim invite token for %s: %v", user.Email, err)
		} else {
			claimed += n
		}
	}

	if s.search != nil {
		s.search.IndexUser(user)
	}

	resp, err := s.buildAuthResponse(user)
	if err != nil {
		return nil, err
	}
	resp.ClaimedMatches = claimed

	return resp, nil
}

func (s *authService) claimByToken(ctx context.Context, token string, userID uuid.UUID) (int64, error) {
	match, err := s.matches.FindByInviteToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperror.ErrNotFound
		}
		return 0, err
	}

	if match.IsFinished() || match.PlayerBID != nil || match.PlayerAID == userID {
		return 0, nil
	}

	id := userID
	match.PlayerBID = &id
	match.Status = model.MatchStatusWaiting
	if err := s.matches.Save(ctx, match); err != nil {
		return 0, err
	}

	return 1, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)
	}

	if user.IsBlocked {
		return nil, apperror.ErrForbidden
	}

	return s.buildAuthResponse(user)
}

func (s *authService) ensureUserUnique(ctx context.Context, email, username string) error {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return fmt.Errorf("%w: email is already registered", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return fmt.Errorf("%w: username is already taken", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return nil
}

func (s *authService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
	}, nil
}

func (s *authService) generateToken(user *model.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
