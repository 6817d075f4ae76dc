package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golazo.app/penaltyduel/internal/dto"
	"golazo.app/penaltyduel/internal/game"
	"golazo.app/penaltyduel/internal/model"
	"golazo.app/penaltyduel/pkg/apperror"
)

type matchFixture struct {
	svc     MatchService
	matches *fakeMatchRepo
	stats   *fakeStatsRepo
	users   *fakeUserRepo
	alice   *model.User
	bob     *model.User
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()

	alice := &model.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	bob := &model.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}

	matches := newFakeMatchRepo()
	stats := newFakeStatsRepo()
	users := newFakeUserRepo(alice, bob)
	achievements := NewAchievementService(newFakeAchievementRepo(model.DefaultAchievements), model.DefaultAchievements, false)
	notifications := NewNotificationService(&fakeNotificationRepo{}, nil)

	svc := NewMatchService(fakeTxManager{}, matches, stats, users, achievements, notifications, nil, 0)

	return &matchFixture{
		svc:     svc,
		matches: matches,
		stats:   stats,
		users:   users,
		alice:   alice,
		bob:     bob,
	}
}

func (f *matchFixture) waitingMatch(t *testing.T) *model.Match {
	t.Helper()

	bobID := f.bob.ID
	m := &model.Match{
		PlayerAID: f.alice.ID,
		PlayerBID: &bobID,
		Status:    model.MatchStatusWaiting,
	}
	require.NoError(t, f.matches.Create(context.Background(), m))
	return m
}

func strptr(s string) *string { return &s }

func TestCreateMatchByUsername(t *testing.T) {
	f := newMatchFixture(t)

	resp, err := f.svc.CreateMatch(context.Background(), f.alice.ID, dto.CreateMatchRequest{
		OpponentUsername: strptr("bob"),
	})
	require.NoError(t, err)
	require.Equal(t, model.MatchStatusWaiting, resp.Status)
	require.Equal(t, game.RoleShooter, resp.YourRole)
	require.NotNil(t, resp.PlayerB)
	require.Equal(t, "bob", resp.PlayerB.Username)
}

func TestCreateMatchByUnregisteredEmail(t *testing.T) {
	f := newMatchFixture(t)

	resp, err := f.svc.CreateMatch(context.Background(), f.alice.ID, dto.CreateMatchRequest{
		OpponentEmail: strptr("newplayer@example.com"),
	})
	require.NoError(t, err)
	require.Equal(t, model.MatchStatusInvitationPending, resp.Status)
	require.Nil(t, resp.PlayerB)
	require.Equal(t, "newplayer@example.com", resp.OpponentEmail)
}

func TestCreateMatchRequiresExactlyOneTarget(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.svc.CreateMatch(context.Background(), f.alice.ID, dto.CreateMatchRequest{})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = f.svc.CreateMatch(context.Background(), f.alice.ID, dto.CreateMatchRequest{
		OpponentUsername: strptr("bob"),
		OpponentEmail:    strptr("bob@example.com"),
	})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestCreateMatchSelfChallenge(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.svc.CreateMatch(context.Background(), f.alice.ID, dto.CreateMatchRequest{
		OpponentUsername: strptr("alice"),
	})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	// Inviting your own registered email is the same thing.
	_, err = f.svc.CreateMatch(context.Background(), f.alice.ID, dto.CreateMatchRequest{
		OpponentEmail: strptr("alice@example.com"),
	})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestSubmitMovesWaitsForBothSides(t *testing.T) {
	f := newMatchFixture(t)
	m := f.waitingMatch(t)

	resp, err := f.svc.SubmitMoves(context.Background(), f.alice.ID, m.ID, dto.SubmitMovesRequest{
		Moves: []string{"left", "left", "right", "center", "right"},
	})
	require.NoError(t, err)
	require.Equal(t, model.MatchStatusWaiting, resp.Status)
	require.True(t, resp.PlayerASubmitted)
	require.False(t, resp.PlayerBSubmitted)
	require.Empty(t, resp.Rounds)
}

func TestSubmitMovesResolvesMatch(t *testing.T) {
	f := newMatchFixture(t)
	m := f.waitingMatch(t)
	ctx := context.Background()

	_, err := f.svc.SubmitMoves(ctx, f.alice.ID, m.ID, dto.SubmitMovesRequest{
		Moves: []string{"left", "left", "right", "center", "right"},
	})
	require.NoError(t, err)

	resp, err := f.svc.SubmitMoves(ctx, f.bob.ID, m.ID, dto.SubmitMovesRequest{
		Moves: []string{"left", "right", "right", "center", "left"},
	})
	require.NoError(t, err)

	require.Equal(t, model.MatchStatusFinished, resp.Status)
	require.Equal(t, 2, resp.Goals)
	require.Equal(t, 3, resp.Saves)
	require.NotNil(t, resp.WinnerID)
	require.Equal(t, f.bob.ID, *resp.WinnerID)
	require.Len(t, resp.Rounds, game.SequenceLength)

	aliceStats, err := f.stats.Find(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Equal(t, 1, aliceStats.GamesPlayed)
	require.Equal(t, 1, aliceStats.GamesLost)
	require.Equal(t, 2, aliceStats.GoalsScored)
	require.Equal(t, 20, aliceStats.TotalPoints)
	require.Equal(t, 0, aliceStats.CurrentStreak)

	bobStats, err := f.stats.Find(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Equal(t, 1, bobStats.GamesPlayed)
	require.Equal(t, 1, bobStats.GamesWon)
	require.Equal(t, 3, bobStats.SavesMade)
	require.Equal(t, 45, bobStats.TotalPoints)
	require.Equal(t, 1, bobStats.CurrentStreak)
	// 3-2 is a one-point win.
	require.Equal(t, 1, bobStats.NarrowWins)
}

func TestSubmitMovesFinishedMatchConflict(t *testing.T) {
	f := newMatchFixture(t)
	m := f.waitingMatch(t)
	ctx := context.Background()

	moves := dto.SubmitMovesRequest{Moves: []string{"left", "center", "right", "left", "center"}}
	_, err := f.svc.SubmitMoves(ctx, f.alice.ID, m.ID, moves)
	require.NoError(t, err)
	_, err = f.svc.SubmitMoves(ctx, f.bob.ID, m.ID, moves)
	require.NoError(t, err)

	// Any further submission bounces off the terminal state, and the stats
	// stay exactly as the single resolution left them.
	_, err = f.svc.SubmitMoves(ctx, f.alice.ID, m.ID, moves)
	require.ErrorIs(t, err, apperror.ErrConflict)

	bobStats, err := f.stats.Find(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Equal(t, 1, bobStats.GamesPlayed)
}

func TestSubmitMovesNonParticipant(t *testing.T) {
	f := newMatchFixture(t)
	m := f.waitingMatch(t)

	eve := &model.User{ID: uuid.New(), Username: "eve", Email: "eve@example.com"}
	require.NoError(t, f.users.Create(context.Background(), eve))

	_, err := f.svc.SubmitMoves(context.Background(), eve.ID, m.ID, dto.SubmitMovesRequest{
		Moves: []string{"left", "left", "left", "left", "left"},
	})
	require.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestSubmitMovesLastWriteWins(t *testing.T) {
	f := newMatchFixture(t)
	m := f.waitingMatch(t)
	ctx := context.Background()

	_, err := f.svc.SubmitMoves(ctx, f.alice.ID, m.ID, dto.SubmitMovesRequest{
		Moves: []string{"left", "left", "left", "left", "left"},
	})
	require.NoError(t, err)

	// Resubmitting before the opponent shows up replaces the sequence.
	_, err = f.svc.SubmitMoves(ctx, f.alice.ID, m.ID, dto.SubmitMovesRequest{
		Moves: []string{"right", "right", "right", "right", "right"},
	})
	require.NoError(t, err)

	resp, err := f.svc.SubmitMoves(ctx, f.bob.ID, m.ID, dto.SubmitMovesRequest{
		Moves: []string{"right", "right", "right", "right", "right"},
	})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Goals)
	require.Equal(t, 5, resp.Saves)
}

func TestSubmitMovesInvalidDirection(t *testing.T) {
	f := newMatchFixture(t)
	m := f.waitingMatch(t)

	_, err := f.svc.SubmitMoves(context.Background(), f.alice.ID, m.ID, dto.SubmitMovesRequest{
		Moves: []string{"left", "up", "right", "center", "left"},
	})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestCancelMatch(t *testing.T) {
	f := newMatchFixture(t)
	m := f.waitingMatch(t)
	ctx := context.Background()

	// Only the challenger may cancel.
	err := f.svc.CancelMatch(ctx, f.bob.ID, m.ID)
	require.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, f.svc.CancelMatch(ctx, f.alice.ID, m.ID))

	_, err = f.svc.GetMatch(ctx, f.alice.ID, m.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCancelMatchAfterOpponentSubmitted(t *testing.T) {
	f := newMatchFixture(t)
	m := f.waitingMatch(t)
	ctx := context.Background()

	_, err := f.svc.SubmitMoves(ctx, f.bob.ID, m.ID, dto.SubmitMovesRequest{
		Moves: []string{"left", "center", "right", "left", "center"},
	})
	require.NoError(t, err)

	err = f.svc.CancelMatch(ctx, f.alice.ID, m.ID)
	require.ErrorIs(t, err, apperror.ErrConflict)
}

func TestDeclineMatch(t *testing.T) {
	f := newMatchFixture(t)
	m := f.waitingMatch(t)
	ctx := context.Background()

	// The challenger cannot decline their own challenge.
	err := f.svc.DeclineMatch(ctx, f.alice.ID, m.ID)
	require.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, f.svc.DeclineMatch(ctx, f.bob.ID, m.ID))

	_, err = f.svc.GetMatch(ctx, f.bob.ID, m.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeclineMatchAfterOwnSubmission(t *testing.T) {
	f := newMatchFixture(t)
	m := f.waitingMatch(t)
	ctx := context.Background()

	_, err := f.svc.SubmitMoves(ctx, f.bob.ID, m.ID, dto.SubmitMovesRequest{
		Moves: []string{"left", "center", "right", "left", "center"},
	})
	require.NoError(t, err)

	err = f.svc.DeclineMatch(ctx, f.bob.ID, m.ID)
	require.ErrorIs(t, err, apperror.ErrConflict)
}

func TestJoinByInviteToken(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	m := &model.Match{
		PlayerAID:    f.alice.ID,
		PlayerBEmail: "newplayer@example.com",
		Status:       model.MatchStatusInvitationPending,
	}
	require.NoError(t, f.matches.Create(ctx, m))

	resp, err := f.svc.JoinByInviteToken(ctx, f.bob.ID, m.InviteToken)
	require.NoError(t, err)
	require.Equal(t, model.MatchStatusWaiting, resp.Status)
	require.Equal(t, game.RoleKeeper, resp.YourRole)

	// A third player cannot take over a claimed invitation.
	eve := &model.User{ID: uuid.New(), Username: "eve", Email: "eve@example.com"}
	require.NoError(t, f.users.Create(ctx, eve))
	_, err = f.svc.JoinByInviteToken(ctx, eve.ID, m.InviteToken)
	require.ErrorIs(t, err, apperror.ErrConflict)

	// Re-joining with the same token is a no-op for the claimant.
	resp, err = f.svc.JoinByInviteToken(ctx, f.bob.ID, m.InviteToken)
	require.NoError(t, err)
	require.Equal(t, model.MatchStatusWaiting, resp.Status)
}

func TestJoinOwnChallenge(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	m := &model.Match{
		PlayerAID:    f.alice.ID,
		PlayerBEmail: "newplayer@example.com",
		Status:       model.MatchStatusInvitationPending,
	}
	require.NoError(t, f.matches.Create(ctx, m))

	_, err := f.svc.JoinByInviteToken(ctx, f.alice.ID, m.InviteToken)
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestListMatchesFiltersByStatus(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	f.waitingMatch(t)
	finished := f.waitingMatch(t)
	moves := dto.SubmitMovesRequest{Moves: []string{"left", "center", "right", "left", "center"}}
	_, err := f.svc.SubmitMoves(ctx, f.alice.ID, finished.ID, moves)
	require.NoError(t, err)
	_, err = f.svc.SubmitMoves(ctx, f.bob.ID, finished.ID, moves)
	require.NoError(t, err)

	all, err := f.svc.ListMatches(ctx, f.alice.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	waiting, err := f.svc.ListMatches(ctx, f.alice.ID, model.MatchStatusWaiting)
	require.NoError(t, err)
	require.Len(t, waiting, 1)

	_, err = f.svc.ListMatches(ctx, f.alice.ID, "cancelled")
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestPerfectKeeperGameCountsTowardOracle(t *testing.T) {
	f := newMatchFixture(t)
	m := f.waitingMatch(t)
	ctx := context.Background()

	_, err := f.svc.SubmitMoves(ctx, f.alice.ID, m.ID, dto.SubmitMovesRequest{
		Moves: []string{"left", "center", "right", "left", "center"},
	})
	require.NoError(t, err)
	_, err = f.svc.SubmitMoves(ctx, f.bob.ID, m.ID, dto.SubmitMovesRequest{
		Moves: []string{"left", "center", "right", "left", "center"},
	})
	require.NoError(t, err)

	bobStats, err := f.stats.Find(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Equal(t, 1, bobStats.PerfectGames)
	require.Equal(t, 1, bobStats.PerfectSaveGames)
	require.Equal(t, 75, bobStats.TotalPoints)
}
