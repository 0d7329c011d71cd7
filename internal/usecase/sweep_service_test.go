package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/bet"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/logging"
)

func TestSweepService_TransitionsByClock(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 7, 22, 0, 0, 0, time.UTC)
	weekRepo := newStubWeekRepository(testWeek("w1", 10, week.StatusOpen, now.Add(-6*time.Hour)))
	gameRepo := newStubGameRepository(
		// Kickoff an hour ago: should be LIVE.
		game.Game{ID: "g1", WeekNumber: 10, Season: "2026", MatchDate: now.Add(-time.Hour), Status: game.StatusScheduled},
		// Kickoff four hours ago: past the live window, should be FINISHED.
		game.Game{ID: "g2", WeekNumber: 10, Season: "2026", MatchDate: now.Add(-4 * time.Hour), Status: game.StatusLive},
		// Future kickoff: untouched.
		game.Game{ID: "g3", WeekNumber: 10, Season: "2026", MatchDate: now.Add(2 * time.Hour), Status: game.StatusScheduled},
	)

	service := NewSweepService(weekRepo, gameRepo, newStubBetRepository(), &recordingSettler{}, logging.NewNop())
	service.now = func() time.Time { return now }

	result, err := service.Sweep(context.Background(), 2)
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}
	if result.WeekCount != 1 || result.GameCount != 3 {
		t.Fatalf("unexpected scope: %+v", result)
	}
	if result.Transitioned != 2 || result.Failed != 0 {
		t.Fatalf("expected 2 transitions, got %+v", result)
	}
	// g2 finished by the clock with no posted result; it cannot be graded.
	if result.Ungradeable != 1 {
		t.Fatalf("expected 1 ungradeable game, got %+v", result)
	}
	if len(result.Weeks) != 1 || len(result.Weeks[0].UngradeableGames) != 1 || result.Weeks[0].UngradeableGames[0] != "g2" {
		t.Fatalf("expected g2 reported as ungradeable, got %+v", result.Weeks)
	}

	g1, _, _ := gameRepo.GetByID(context.Background(), "g1")
	if g1.Status != game.StatusLive {
		t.Fatalf("expected g1 LIVE, got %s", g1.Status)
	}
	g2, _, _ := gameRepo.GetByID(context.Background(), "g2")
	if g2.Status != game.StatusFinished {
		t.Fatalf("expected g2 FINISHED, got %s", g2.Status)
	}
	g3, _, _ := gameRepo.GetByID(context.Background(), "g3")
	if g3.Status != game.StatusScheduled {
		t.Fatalf("expected g3 SCHEDULED, got %s", g3.Status)
	}
}

func TestSweepService_NeverRegradesFinishedResult(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 7, 22, 0, 0, 0, time.UTC)
	homeScore, awayScore := 2, 1
	result := game.ResultHome
	weekRepo := newStubWeekRepository(testWeek("w1", 10, week.StatusOpen, now.Add(-6*time.Hour)))
	gameRepo := newStubGameRepository(game.Game{
		ID:         "g1",
		WeekNumber: 10,
		Season:     "2026",
		// Kickoff only 30 minutes ago, but an operator already posted the
		// final score. The clock must not drag it back to LIVE.
		MatchDate: now.Add(-30 * time.Minute),
		Status:    game.StatusFinished,
		HomeScore: &homeScore,
		AwayScore: &awayScore,
		Result:    &result,
	})

	settler := &recordingSettler{}
	service := NewSweepService(weekRepo, gameRepo, newStubBetRepository(), settler, logging.NewNop())
	service.now = func() time.Time { return now }

	sweepResult, err := service.Sweep(context.Background(), 1)
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}
	if sweepResult.Transitioned != 0 {
		t.Fatalf("expected no transitions, got %+v", sweepResult)
	}
	// No bets on the game, so there is nothing to re-settle either.
	if sweepResult.Resettled != 0 || len(settler.settled) != 0 {
		t.Fatalf("expected no settlement calls, got %+v", sweepResult)
	}

	g1, _, _ := gameRepo.GetByID(context.Background(), "g1")
	if g1.Status != game.StatusFinished {
		t.Fatalf("finished game regressed to %s", g1.Status)
	}
}

func TestSweepService_ResettlesFinishedGameWithUngradedBets(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 7, 22, 0, 0, 0, time.UTC)
	homeScore, awayScore := 2, 0
	resultHome := game.ResultHome
	weekRepo := newStubWeekRepository(testWeek("w1", 10, week.StatusClosed, now.Add(-6*time.Hour)))
	gameRepo := newStubGameRepository(
		// Result posted, but the synchronous settlement never landed: b1 is
		// still ungraded, so the sweep must settle g1 again.
		game.Game{ID: "g1", WeekNumber: 10, Season: "2026", MatchDate: now.Add(-4 * time.Hour), Status: game.StatusFinished, HomeScore: &homeScore, AwayScore: &awayScore, Result: &resultHome},
		// Fully graded already: nothing to redo.
		game.Game{ID: "g2", WeekNumber: 10, Season: "2026", MatchDate: now.Add(-4 * time.Hour), Status: game.StatusFinished, HomeScore: &homeScore, AwayScore: &awayScore, Result: &resultHome},
	)
	graded := true
	betRepo := newStubBetRepository(
		bet.Bet{ID: "b1", UserID: "u1", WeekID: "w1", GameID: "g1", Prediction: game.ResultHome, Type: bet.TypeSingle},
		bet.Bet{ID: "b2", UserID: "u1", WeekID: "w1", GameID: "g2", Prediction: game.ResultHome, IsCorrect: &graded, Type: bet.TypeSingle},
	)
	settler := &recordingSettler{}

	service := NewSweepService(weekRepo, gameRepo, betRepo, settler, logging.NewNop())
	service.now = func() time.Time { return now }

	result, err := service.Sweep(context.Background(), 1)
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}
	if result.Resettled != 1 || result.Failed != 0 {
		t.Fatalf("expected exactly one re-settlement, got %+v", result)
	}
	if len(settler.settled) != 1 || settler.settled[0].ID != "g1" {
		t.Fatalf("expected settlement for g1 only, got %+v", settler.settled)
	}
	if result.Ungradeable != 0 {
		t.Fatalf("both games carry results, got %+v", result)
	}
}

func TestSweepService_NoActiveWeeks(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 7, 22, 0, 0, 0, time.UTC)
	weekRepo := newStubWeekRepository(testWeek("w1", 9, week.StatusFinished, now.Add(-7*24*time.Hour)))

	service := NewSweepService(weekRepo, newStubGameRepository(), newStubBetRepository(), &recordingSettler{}, logging.NewNop())
	service.now = func() time.Time { return now }

	result, err := service.Sweep(context.Background(), 2)
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}
	if result.WeekCount != 0 || result.GameCount != 0 || result.Transitioned != 0 {
		t.Fatalf("expected empty sweep, got %+v", result)
	}
}
