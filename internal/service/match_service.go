package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golazo.app/penaltyduel/internal/dto"
	"golazo.app/penaltyduel/internal/game"
	"golazo.app/penaltyduel/internal/model"
	"golazo.app/penaltyduel/internal/repository"
	"golazo.app/penaltyduel/pkg/apperror"
	"gorm.io/gorm"
)

type MatchService interface {
	CreateMatch(ctx context.Context, challengerID uuid.UUID, req dto.CreateMatchRequest) (*dto.MatchResponse, error)
	GetMatch(ctx context.Context, viewerID uuid.UUID, matchID string) (*dto.MatchResponse, error)
	ListMatches(ctx context.Context, userID uuid.UUID, status string) ([]dto.MatchResponse, error)
	SubmitMoves(ctx context.Context, userID uuid.UUID, matchID string, req dto.SubmitMovesRequest) (*dto.MatchResponse, error)
	CancelMatch(ctx context.Context, userID uuid.UUID, matchID string) error
	DeclineMatch(ctx context.Context, userID uuid.UUID, matchID string) error
	JoinByInviteToken(ctx context.Context, userID uuid.UUID, token string) (*dto.MatchResponse, error)
}

type matchService struct {
	txm           repository.TxManager
	matches       repository.MatchRepository
	stats         repository.StatsRepository
	users         repository.UserRepository
	achievements  AchievementService
	notifications NotificationService
	redisClient   *redis.Client
	rateLimit     time.Duration
}

func NewMatchService(
	txm repository.TxManager,
	matches repository.MatchRepository,
	stats repository.StatsRepository,
	users repository.UserRepository,
	achievements AchievementService,
	notifications NotificationService,
	redisClient *redis.Client,
	rateLimit time.Duration,
) MatchService {
	return &matchService{
		txm:           txm,
		matches:       matches,
		stats:         stats,
		users:         users,
		achievements:  achievements,
		notifications: notifications,
		redisClient:   redisClient,
		rateLimit:     rateLimit,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, challengerID uuid.UUID, req dto.CreateMatchRequest) (*dto.MatchResponse, error) {
	hasUsername := req.OpponentUsername != nil && *req.OpponentUsername != ""
	hasEmail := req.OpponentEmail != nil && *req.OpponentEmail != ""
	if hasUsername == hasEmail {
		return nil, fmt.Errorf("%w: provide either opponent_username or opponent_email", apperror.ErrInvalidInput)
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, challengerID, ActionCreateChallenge, s.rateLimit)
	if err != nil {
		log.Printf("rate limit check failed for user %s: %v", challengerID, err)
	} else if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	challenger, err := s.users.FindByID(ctx, challengerID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if challenger.IsBlocked {
		return nil, apperror.ErrForbidden
	}

	match := &model.Match{
		PlayerAID: challenger.ID,
		Status:    model.MatchStatusWaiting,
	}

	var opponent *model.User
	if hasUsername {
		opponent, err = s.users.FindByUsername(ctx, *req.OpponentUsername)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.ErrNotFound
			}
			return nil, err
		}
	} else {
		// An email invitation may still target a registered account.
		opponent, err = s.users.FindByEmail(ctx, *req.OpponentEmail)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			opponent = nil
		}
		match.PlayerBEmail = *req.OpponentEmail
	}

	if opponent != nil {
		if opponent.ID == challenger.ID {
			return nil, fmt.Errorf("%w: you cannot challenge yourself", apperror.ErrInvalidInput)
		}
		id := opponent.ID
		match.PlayerBID = &id
		match.PlayerBEmail = opponent.Email
	} else {
		match.Status = model.MatchStatusInvitationPending
	}

	if err := s.matches.Create(ctx, match); err != nil {
		return nil, err
	}

	if opponent != nil {
		s.notifyAsync(&model.Notification{
			UserID:  opponent.ID,
			Type:    model.NotificationChallengeReceived,
			MatchID: &match.ID,
			Message: fmt.Sprintf("%s challenged you to a penalty shootout!", challenger.Username),
		})
	}

	match.PlayerA = challenger
	match.PlayerB = opponent
	resp := dto.NewMatchResponse(match, challengerID)
	return &resp, nil
}

func (s *matchService) GetMatch(ctx context.Context, viewerID uuid.UUID, matchID string) (*dto.MatchResponse, error) {
	match, err := s.matches.FindByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	resp := dto.NewMatchResponse(match, viewerID)
	return &resp, nil
}

func (s *matchService) ListMatches(ctx context.Context, userID uuid.UUID, status string) ([]dto.MatchResponse, error) {
	switch status {
	case "", model.MatchStatusInvitationPending, model.MatchStatusWaiting, model.MatchStatusFinished:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", apperror.ErrInvalidInput, status)
	}

	matches, err := s.matches.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MatchResponse, 0, len(matches))
	for i := range matches {
		responses = append(responses, dto.NewMatchResponse(&matches[i], userID))
	}

	return responses, nil
}

// participantResult is what resolution produced for one side, collected for
// post-commit notifications.
type participantResult struct {
	userID   uuid.UUID
	outcome  game.Outcome
	score    int
	unlocked []model.Achievement
	newTier  *game.Tier // set when the participant crossed a tier boundary
}

func (s *matchService) SubmitMoves(ctx context.Context, userID uuid.UUID, matchID string, req dto.SubmitMovesRequest) (*dto.MatchResponse, error) {
	moves, err := game.ParseSequence(req.Moves)
	if err != nil {
		return nil, err
	}
	encoded := game.EncodeSequence(moves)

	var (
		match   *model.Match
		results []participantResult
	)

	err = s.txm.Transaction(ctx, func(tx *gorm.DB) error {
		matches := s.matches.WithTx(tx)

		m, err := matches.FindByIDForUpdate(ctx, matchID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		// The status guard is the idempotency barrier: a finished match never
		// accepts moves and is never resolved twice.
		if m.IsFinished() {
			return fmt.Errorf("%w: match is already finished", apperror.ErrConflict)
		}
		if !m.IsParticipant(userID) {
			return apperror.ErrForbidden
		}

		// Last write wins on a player's own move field until resolution.
		if m.PlayerAID == userID {
			m.PlayerAMoves = &encoded
		} else {
			m.PlayerBMoves = &encoded
		}

		if m.PlayerAMoves != nil && m.PlayerBMoves != nil {
			results, err = s.resolve(ctx, tx, m)
			if err != nil {
				return err
			}
		}

		if err := matches.Save(ctx, m); err != nil {
			return err
		}

		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if match.IsFinished() {
		s.notifyResolved(match, results)
	}

	full, err := s.matches.FindByID(ctx, match.ID)
	if err == nil {
		match = full
	}

	resp := dto.NewMatchResponse(match, userID)
	return &resp, nil
}

// resolve runs the match resolution inside the submission transaction: both
// participants' stats rows are updated and achievements evaluated as one
// atomic unit. Partial application is a correctness bug, never tolerated.
func (s *matchService) resolve(ctx context.Context, tx *gorm.DB, m *model.Match) ([]participantResult, error) {
	if m.PlayerBID == nil {
		return nil, fmt.Errorf("match %s has both move sequences but no joined opponent", m.ID)
	}

	shots, err := game.DecodeSequence(*m.PlayerAMoves)
	if err != nil {
		return nil, err
	}
	saves, err := game.DecodeSequence(*m.PlayerBMoves)
	if err != nil {
		return nil, err
	}

	result, err := game.Resolve(shots, saves)
	if err != nil {
		return nil, err
	}

	m.Goals = result.Goals
	m.Saves = result.Saves
	m.Status = model.MatchStatusFinished
	now := time.Now()
	m.FinishedAt = &now

	switch result.ShooterOutcome() {
	case game.OutcomeWin:
		id := m.PlayerAID
		m.WinnerID = &id
	case game.OutcomeLoss:
		m.WinnerID = m.PlayerBID
	default:
		m.WinnerID = nil
	}

	participants := []struct {
		userID      uuid.UUID
		performance game.Performance
		outcome     game.Outcome
	}{
		{m.PlayerAID, game.ShooterPerformance(result), result.ShooterOutcome()},
		{*m.PlayerBID, game.KeeperPerformance(result), result.KeeperOutcome()},
	}

	stats := s.stats.WithTx(tx)
	results := make([]participantResult, 0, len(participants))

	for _, p := range participants {
		row, err := stats.GetOrCreate(ctx, p.userID)
		if err != nil {
			return nil, err
		}

		tierBefore := game.CalculateLevel(row.TotalPoints).Tier.Name
		game.ApplyToStats(row, p.performance, p.outcome, result.Margin())

		unlocked, err := s.achievements.Evaluate(ctx, tx, row)
		if err != nil {
			return nil, err
		}

		if err := stats.Save(ctx, row); err != nil {
			return nil, err
		}

		pr := participantResult{
			userID:   p.userID,
			outcome:  p.outcome,
			score:    p.performance.Score(),
			unlocked: unlocked,
		}
		if level := game.CalculateLevel(row.TotalPoints); level.Tier.Name != tierBefore {
			tier := level.Tier
			pr.newTier = &tier
		}
		results = append(results, pr)
	}

	return results, nil
}

func (s *matchService) CancelMatch(ctx context.Context, userID uuid.UUID, matchID string) error {
	return s.txm.Transaction(ctx, func(tx *gorm.DB) error {
		matches := s.matches.WithTx(tx)

		m, err := matches.FindByIDForUpdate(ctx, matchID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		if m.IsFinished() {
			return fmt.Errorf("%w: finished matches cannot be cancelled", apperror.ErrConflict)
		}
		if m.PlayerAID != userID {
			return apperror.ErrForbidden
		}
		if m.PlayerBMoves != nil {
			return fmt.Errorf("%w: the opponent already submitted their moves", apperror.ErrConflict)
		}

		return matches.Delete(ctx, m.ID)
	})
}

func (s *matchService) DeclineMatch(ctx context.Context, userID uuid.UUID, matchID string) error {
	return s.txm.Transaction(ctx, func(tx *gorm.DB) error {
		matches := s.matches.WithTx(tx)

		m, err := matches.FindByIDForUpdate(ctx, matchID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		if m.IsFinished() {
			return fmt.Errorf("%w: finished matches cannot be declined", apperror.ErrConflict)
		}
		if m.PlayerBID == nil || *m.PlayerBID != userID {
			return apperror.ErrForbidden
		}
		if m.PlayerBMoves != nil {
			return fmt.Errorf("%w: you already submitted moves for this match", apperror.ErrConflict)
		}

		return matches.Delete(ctx, m.ID)
	})
}

func (s *matchService) JoinByInviteToken(ctx context.Context, userID uuid.UUID, token string) (*dto.MatchResponse, error) {
	var match *model.Match

	err := s.txm.Transaction(ctx, func(tx *gorm.DB) error {
		matches := s.matches.WithTx(tx)

		m, err := matches.FindByInviteToken(ctx, token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.ErrNotFound
			}
			return err
		}

		if m.IsFinished() {
			return fmt.Errorf("%w: match is already finished", apperror.ErrConflict)
		}
		if m.PlayerAID == userID {
			return fmt.Errorf("%w: you cannot join your own challenge", apperror.ErrInvalidInput)
		}
		if m.PlayerBID != nil {
			if *m.PlayerBID == userID {
				match = m
				return nil
			}
			return fmt.Errorf("%w: another player already joined this match", apperror.ErrConflict)
		}

		id := userID
		m.PlayerBID = &id
		m.Status = model.MatchStatusWaiting
		if err := matches.Save(ctx, m); err != nil {
			return err
		}

		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	full, err := s.matches.FindByID(ctx, match.ID)
	if err == nil {
		match = full
	}

	resp := dto.NewMatchResponse(match, userID)
	return &resp, nil
}

// notifyResolved fans out match-finished, achievement and tier notifications.
// Fire-and-forget: delivery runs after the resolution transaction committed
// and failures are only logged.
func (s *matchService) notifyResolved(m *model.Match, results []participantResult) {
	go func() {
		ctx := context.Background()

		usernames := make(map[uuid.UUID]string, len(results))
		for _, r := range results {
			if user, err := s.users.FindByID(ctx, r.userID.String()); err == nil {
				usernames[r.userID] = user.Username
			}
		}

		for _, r := range results {
			opponentName := "your opponent"
			for _, other := range results {
				if other.userID != r.userID {
					if name, ok := usernames[other.userID]; ok {
						opponentName = name
					}
				}
			}

			// Scores are complements, so the opponent's score is derivable.
			opponentScore := game.SequenceLength - r.score

			var msg string
			switch r.outcome {
			case game.OutcomeWin:
				msg = fmt.Sprintf("You beat %s %d-%d!", opponentName, r.score, opponentScore)
			case game.OutcomeLoss:
				msg = fmt.Sprintf("%s beat you %d-%d.", opponentName, opponentScore, r.score)
			default:
				msg = fmt.Sprintf("Your match against %s ended in a draw.", opponentName)
			}

			if err := s.notifications.CreateNotification(ctx, &model.Notification{
				UserID:  r.userID,
				Type:    model.NotificationMatchFinished,
				MatchID: &m.ID,
				Message: msg,
			}); err != nil {
				log.Printf("failed to send match finished notification to %s: %v", r.userID, err)
			}

			for _, achievement := range r.unlocked {
				achievementID := achievement.ID
				if err := s.notifications.CreateNotification(ctx, &model.Notification{
					UserID:        r.userID,
					Type:          model.NotificationAchievementUnlocked,
					MatchID:       &m.ID,
					AchievementID: &achievementID,
					Message:       fmt.Sprintf("Achievement unlocked: %s %s", achievement.Icon, achievement.Name),
				}); err != nil {
					log.Printf("failed to send achievement notification to %s: %v", r.userID, err)
				}
			}

			if r.newTier != nil {
				if err := s.notifications.CreateNotification(ctx, &model.Notification{
					UserID:  r.userID,
					Type:    model.NotificationLevelUp,
					Message: fmt.Sprintf("You reached the %s %s tier!", r.newTier.Icon, r.newTier.Name),
				}); err != nil {
					log.Printf("failed to send level up notification to %s: %v", r.userID, err)
				}
			}
		}
	}()
}

func (s *matchService) notifyAsync(notification *model.Notification) {
	go func() {
		if err := s.notifications.CreateNotification(context.Background(), notification); err != nil {
			log.Printf("failed to send notification to %s: %v", notification.UserID, err)
		}
	}()
}
