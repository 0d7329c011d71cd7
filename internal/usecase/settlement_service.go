package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/bet"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/performance"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/settlement"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/cache"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/logging"
)

const settleWeekMaxWorkers = 4

type WeekSettlementReport struct {
	Season     string                 `json:"season"`
	WeekNumber int                    `json:"week_number"`
	GameCount  int                    `json:"game_count"`
	Settled    int                    `json:"settled"`
	Skipped    int                    `json:"skipped"`
	Failed     int                    `json:"failed"`
	Games      []GameSettlementResult `json:"games"`
}

type GameSettlementResult struct {
	GameID  string `json:"game_id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	settleStatusSettled = "settled"
	settleStatusSkipped = "skipped"
	settleStatusFailed  = "failed"
)

type SettlementService struct {
	betRepo  bet.Repository
	gameRepo game.Repository
	weekRepo week.Repository
	perfRepo performance.Repository
	store    settlement.Store
	boards   *cache.Store
	logger   *logging.Logger
	now      func() time.Time
}

func NewSettlementService(
	betRepo bet.Repository,
	gameRepo game.Repository,
	weekRepo week.Repository,
	perfRepo performance.Repository,
	store settlement.Store,
	boards *cache.Store,
	logger *logging.Logger,
) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SettlementService{
		betRepo:  betRepo,
		gameRepo: gameRepo,
		weekRepo: weekRepo,
		perfRepo: perfRepo,
		store:    store,
		boards:   boards,
		logger:   logger,
		now:      time.Now,
	}
}

// SettleGame grades every bet on a finished game and folds the outcome into
// each affected user's weekly aggregate, as one atomic storage unit. Bets
// graded by an earlier pass keep their verdict, which makes reprocessing a
// finished game safe.
func (s *SettlementService) SettleGame(ctx context.Context, item game.Game) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.SettleGame")
	defer span.End()

	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("%w: game_id is required", ErrInvalidInput)
	}
	if !item.HasResult() {
		return fmt.Errorf("%w: game=%s has no final result", ErrInvalidState, item.ID)
	}

	wk, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, item.WeekNumber, item.Season)
	if err != nil {
		return fmt.Errorf("get week by number and season: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: week=%d season=%s", ErrNotFound, item.WeekNumber, item.Season)
	}

	gameBets, err := s.betRepo.ListByGame(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("list bets by game: %w", err)
	}

	grades := make([]settlement.Grade, 0, len(gameBets))
	verdictByBet := make(map[string]bool, len(gameBets))
	for _, b := range gameBets {
		if b.Graded() {
			continue
		}
		correct := b.Prediction == *item.Result
		grades = append(grades, settlement.Grade{BetID: b.ID, IsCorrect: correct})
		verdictByBet[b.ID] = correct
	}

	weekFinished, err := s.weekResultsComplete(ctx, wk)
	if err != nil {
		return err
	}

	aggregates, err := s.recomputeAggregates(ctx, wk, gameBets, verdictByBet, weekFinished)
	if err != nil {
		return err
	}

	if err := s.store.ApplyGameSettlement(ctx, item.ID, grades, aggregates); err != nil {
		return fmt.Errorf("apply game settlement: %w", err)
	}

	if s.boards != nil {
		s.boards.DeletePrefix(ctx, leaderboardKeyPrefix(wk.Season, wk.Number))
	}

	s.logger.InfoContext(ctx, "game settled",
		"game_id", item.ID,
		"week_number", wk.Number,
		"season", wk.Season,
		"graded_bets", len(grades),
		"affected_users", len(aggregates),
		"week_complete", weekFinished,
	)

	return nil
}

// SettleWeek reprocesses every game of a week that carries a final result.
// Each game settles in its own unit; one game failing never aborts the rest.
func (s *SettlementService) SettleWeek(ctx context.Context, season string, weekNumber int) (WeekSettlementReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.SettleWeek")
	defer span.End()

	season = strings.TrimSpace(season)
	if season == "" || weekNumber < 1 {
		return WeekSettlementReport{}, fmt.Errorf("%w: season and week_number are required", ErrInvalidInput)
	}

	wk, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, weekNumber, season)
	if err != nil {
		return WeekSettlementReport{}, fmt.Errorf("get week by number and season: %w", err)
	}
	if !exists {
		return WeekSettlementReport{}, fmt.Errorf("%w: week=%d season=%s", ErrNotFound, weekNumber, season)
	}

	games, err := s.gameRepo.ListByWeek(ctx, wk.Number, wk.Season)
	if err != nil {
		return WeekSettlementReport{}, fmt.Errorf("list games by week: %w", err)
	}

	report := WeekSettlementReport{
		Season:     wk.Season,
		WeekNumber: wk.Number,
		GameCount:  len(games),
		Games:      make([]GameSettlementResult, 0, len(games)),
	}

	results := make(chan GameSettlementResult, len(games))
	workers := pool.New().WithMaxGoroutines(settleWeekMaxWorkers)
	for _, g := range games {
		g := g
		workers.Go(func() {
			row := GameSettlementResult{GameID: g.ID}
			switch {
			case !g.HasResult():
				row.Status = settleStatusSkipped
				row.Message = "no final result posted"
			default:
				if err := s.SettleGame(ctx, g); err != nil {
					row.Status = settleStatusFailed
					row.Message = err.Error()
				} else {
					row.Status = settleStatusSettled
				}
			}
			results <- row
		})
	}
	workers.Wait()
	close(results)

	for row := range results {
		switch row.Status {
		case settleStatusSettled:
			report.Settled++
		case settleStatusSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
		report.Games = append(report.Games, row)
	}

	sort.SliceStable(report.Games, func(i, j int) bool {
		return report.Games[i].GameID < report.Games[j].GameID
	})

	return report, nil
}

// recomputeAggregates rebuilds the weekly counters for every user with a bet
// on the settled game, straight from bet rows. The aggregate is a projection
// over bets, never trusted state of its own.
func (s *SettlementService) recomputeAggregates(
	ctx context.Context,
	wk week.Week,
	gameBets []bet.Bet,
	verdictByBet map[string]bool,
	weekFinished bool,
) ([]performance.Performance, error) {
	affected := make(map[string]struct{}, len(gameBets))
	for _, b := range gameBets {
		affected[b.UserID] = struct{}{}
	}
	if len(affected) == 0 {
		return nil, nil
	}

	weekBets, err := s.betRepo.ListByWeek(ctx, wk.ID)
	if err != nil {
		return nil, fmt.Errorf("list bets by week: %w", err)
	}

	totals := make(map[string]int, len(affected))
	corrects := make(map[string]int, len(affected))
	for _, b := range weekBets {
		if _, ok := affected[b.UserID]; !ok {
			continue
		}
		totals[b.UserID]++

		if verdict, ok := verdictByBet[b.ID]; ok {
			if verdict {
				corrects[b.UserID]++
			}
			continue
		}
		if b.Graded() && *b.IsCorrect {
			corrects[b.UserID]++
		}
	}

	status := performance.StatusPending
	if weekFinished {
		status = performance.StatusCalculated
	}

	now := s.now().UTC()
	out := make([]performance.Performance, 0, len(affected))
	for userID := range affected {
		row := performance.Performance{
			UserID:             userID,
			WeekID:             wk.ID,
			TotalPredictions:   totals[userID],
			CorrectPredictions: corrects[userID],
			Status:             status,
			UpdatedAt:          now,
		}
		row.DerivePercentage()
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UserID < out[j].UserID
	})

	return out, nil
}

// weekResultsComplete reports whether every game in the week carries an
// explicit result. Time-based FINISHED status alone does not count; grading
// against an unknown result is undefined.
func (s *SettlementService) weekResultsComplete(ctx context.Context, wk week.Week) (bool, error) {
	games, err := s.gameRepo.ListByWeek(ctx, wk.Number, wk.Season)
	if err != nil {
		return false, fmt.Errorf("list games by week: %w", err)
	}
	if len(games) == 0 {
		return false, nil
	}
	for _, g := range games {
		if !g.HasResult() {
			return false, nil
		}
	}
	return true, nil
}

func leaderboardKeyPrefix(season string, weekNumber int) string {
	return fmt.Sprintf("leaderboard:%s:%d:", season, weekNumber)
}
