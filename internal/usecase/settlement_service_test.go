package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/bet"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/performance"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/logging"
)

type settlementFixture struct {
	service  *SettlementService
	betRepo  *stubBetRepository
	gameRepo *stubGameRepository
	perfRepo *stubPerformanceRepository
	store    *stubSettlementStore
}

func newSettlementFixture(t *testing.T, games []game.Game, bets []bet.Bet) *settlementFixture {
	t.Helper()

	deadline := time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC)
	weekRepo := newStubWeekRepository(testWeek("w1", 10, week.StatusClosed, deadline))
	gameRepo := newStubGameRepository(games...)
	betRepo := newStubBetRepository(bets...)
	perfRepo := newStubPerformanceRepository()
	store := &stubSettlementStore{bets: betRepo, perfs: perfRepo}

	service := NewSettlementService(betRepo, gameRepo, weekRepo, perfRepo, store, nil, logging.NewNop())

	return &settlementFixture{
		service:  service,
		betRepo:  betRepo,
		gameRepo: gameRepo,
		perfRepo: perfRepo,
		store:    store,
	}
}

func finishedGame(id string, homeScore, awayScore int) game.Game {
	result := game.ResultFromScores(homeScore, awayScore)
	return game.Game{
		ID:         id,
		WeekNumber: 10,
		Season:     "2026",
		HomeTeamID: "h-" + id,
		AwayTeamID: "a-" + id,
		MatchDate:  time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC),
		Status:     game.StatusFinished,
		HomeScore:  &homeScore,
		AwayScore:  &awayScore,
		Result:     &result,
	}
}

func scheduledGame(id string) game.Game {
	return game.Game{
		ID:         id,
		WeekNumber: 10,
		Season:     "2026",
		HomeTeamID: "h-" + id,
		AwayTeamID: "a-" + id,
		MatchDate:  time.Date(2026, 3, 8, 20, 0, 0, 0, time.UTC),
		Status:     game.StatusScheduled,
	}
}

func weekBet(id, userID, gameID, prediction string) bet.Bet {
	return bet.Bet{
		ID:         id,
		UserID:     userID,
		WeekID:     "w1",
		GameID:     gameID,
		Prediction: prediction,
		Type:       bet.TypeSingle,
	}
}

func TestSettlementService_SettleGame_GradesAndAggregates(t *testing.T) {
	t.Parallel()

	g1 := finishedGame("g1", 2, 0)
	g2 := scheduledGame("g2")
	fx := newSettlementFixture(t,
		[]game.Game{g1, g2},
		[]bet.Bet{
			weekBet("b1", "u1", "g1", game.ResultHome),
			weekBet("b2", "u1", "g2", game.ResultDraw),
			weekBet("b3", "u2", "g1", game.ResultAway),
		},
	)

	if err := fx.service.SettleGame(context.Background(), g1); err != nil {
		t.Fatalf("SettleGame error: %v", err)
	}

	b1, _, _ := fx.betRepo.GetByID(context.Background(), "b1")
	if b1.IsCorrect == nil || !*b1.IsCorrect {
		t.Fatalf("expected b1 graded correct, got %+v", b1.IsCorrect)
	}
	b2, _, _ := fx.betRepo.GetByID(context.Background(), "b2")
	if b2.IsCorrect != nil {
		t.Fatal("bet on an unfinished game must stay ungraded")
	}
	b3, _, _ := fx.betRepo.GetByID(context.Background(), "b3")
	if b3.IsCorrect == nil || *b3.IsCorrect {
		t.Fatalf("expected b3 graded incorrect, got %+v", b3.IsCorrect)
	}

	u1Perf, ok, _ := fx.perfRepo.GetByUserAndWeek(context.Background(), "u1", "w1")
	if !ok {
		t.Fatal("expected performance row for u1")
	}
	if u1Perf.TotalPredictions != 2 || u1Perf.CorrectPredictions != 1 || u1Perf.Percentage != 50 {
		t.Fatalf("unexpected u1 aggregate: %+v", u1Perf)
	}
	if u1Perf.Status != performance.StatusPending {
		t.Fatalf("expected PENDING while week incomplete, got %s", u1Perf.Status)
	}

	u2Perf, _, _ := fx.perfRepo.GetByUserAndWeek(context.Background(), "u2", "w1")
	if u2Perf.TotalPredictions != 1 || u2Perf.CorrectPredictions != 0 || u2Perf.Percentage != 0 {
		t.Fatalf("unexpected u2 aggregate: %+v", u2Perf)
	}
}

func TestSettlementService_SettleGame_WriteOnceGrading(t *testing.T) {
	t.Parallel()

	g1 := finishedGame("g1", 2, 0)
	already := weekBet("b1", "u1", "g1", game.ResultAway)
	gradedTrue := true
	// A verdict that contradicts the score simulates an earlier pass under a
	// since-corrected feed; settlement must not flip it.
	already.IsCorrect = &gradedTrue

	fx := newSettlementFixture(t, []game.Game{g1}, []bet.Bet{already})

	if err := fx.service.SettleGame(context.Background(), g1); err != nil {
		t.Fatalf("SettleGame error: %v", err)
	}

	b1, _, _ := fx.betRepo.GetByID(context.Background(), "b1")
	if b1.IsCorrect == nil || !*b1.IsCorrect {
		t.Fatalf("expected earlier verdict preserved, got %+v", b1.IsCorrect)
	}
}

func TestSettlementService_SettleGame_MarksCalculatedWhenWeekComplete(t *testing.T) {
	t.Parallel()

	g1 := finishedGame("g1", 1, 1)
	fx := newSettlementFixture(t, []game.Game{g1}, []bet.Bet{
		weekBet("b1", "u1", "g1", game.ResultDraw),
	})

	if err := fx.service.SettleGame(context.Background(), g1); err != nil {
		t.Fatalf("SettleGame error: %v", err)
	}

	row, ok, _ := fx.perfRepo.GetByUserAndWeek(context.Background(), "u1", "w1")
	if !ok || row.Status != performance.StatusCalculated {
		t.Fatalf("expected CALCULATED with every result in, got %+v", row)
	}
	if row.Percentage != 100 {
		t.Fatalf("expected 100%%, got %v", row.Percentage)
	}
}

func TestSettlementService_SettleGame_RequiresResult(t *testing.T) {
	t.Parallel()

	g := scheduledGame("g1")
	fx := newSettlementFixture(t, []game.Game{g}, nil)

	if err := fx.service.SettleGame(context.Background(), g); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state without a result, got %v", err)
	}
}

func TestSettlementService_SettleWeek_IsolatesGames(t *testing.T) {
	t.Parallel()

	g1 := finishedGame("g1", 2, 1)
	g2 := scheduledGame("g2")
	g3 := finishedGame("g3", 0, 0)
	fx := newSettlementFixture(t,
		[]game.Game{g1, g2, g3},
		[]bet.Bet{
			weekBet("b1", "u1", "g1", game.ResultHome),
			weekBet("b2", "u1", "g3", game.ResultDraw),
		},
	)

	report, err := fx.service.SettleWeek(context.Background(), "2026", 10)
	if err != nil {
		t.Fatalf("SettleWeek error: %v", err)
	}
	if report.Settled != 2 || report.Skipped != 1 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Games) != 3 {
		t.Fatalf("expected 3 per-game rows, got %d", len(report.Games))
	}

	if report.Games[1].GameID != "g2" || report.Games[1].Status != settleStatusSkipped {
		t.Fatalf("expected g2 skipped, got %+v", report.Games[1])
	}
}

func TestSettlementService_SettleWeek_UnknownWeek(t *testing.T) {
	t.Parallel()

	fx := newSettlementFixture(t, nil, nil)

	if _, err := fx.service.SettleWeek(context.Background(), "2026", 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
