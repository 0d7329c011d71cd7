package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/bet"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/logging"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/resilience"
)

const (
	sweepDefaultWorkers = 2
	sweepMaxWorkers     = 4
)

type SweepResult struct {
	WeekCount       int               `json:"week_count"`
	GameCount       int               `json:"game_count"`
	Transitioned    int               `json:"transitioned"`
	Resettled       int               `json:"resettled"`
	Ungradeable     int               `json:"ungradeable"`
	Failed          int               `json:"failed"`
	WorkerCount     int               `json:"worker_count"`
	Weeks           []WeekSweepResult `json:"weeks"`
	SharedWithPrior bool              `json:"shared_with_prior"`
}

type WeekSweepResult struct {
	Season           string   `json:"season"`
	WeekNumber       int      `json:"week_number"`
	GameCount        int      `json:"game_count"`
	Transitioned     int      `json:"transitioned"`
	Resettled        int      `json:"resettled"`
	UngradeableGames []string `json:"ungradeable_games,omitempty"`
	Message          string   `json:"message,omitempty"`
}

// SweepService advances game statuses along the clock: SCHEDULED games move
// to LIVE at kickoff and to FINISHED once the live window lapses. It also
// re-drives settlement for finished games whose result is posted but whose
// bets are still ungraded, so a failed synchronous settlement heals on the
// next pass. Games finished without a result cannot be graded; they are
// reported per week instead. Week status is an operator action and is left
// alone.
type SweepService struct {
	weekRepo week.Repository
	gameRepo game.Repository
	betRepo  bet.Repository
	settler  gameSettler
	logger   *logging.Logger
	flight   resilience.SingleFlight
	now      func() time.Time
}

func NewSweepService(weekRepo week.Repository, gameRepo game.Repository, betRepo bet.Repository, settler gameSettler, logger *logging.Logger) *SweepService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SweepService{
		weekRepo: weekRepo,
		gameRepo: gameRepo,
		betRepo:  betRepo,
		settler:  settler,
		logger:   logger,
		now:      time.Now,
	}
}

// Sweep re-evaluates lifecycle status for every game in an active week.
// Concurrent invocations (overlapping schedules, manual triggers) collapse
// into one pass via single-flight.
func (s *SweepService) Sweep(ctx context.Context, maxWorkers int) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweepService.Sweep")
	defer span.End()

	value, err, shared := s.flight.Do("lifecycle-sweep", func() (any, error) {
		return s.sweep(ctx, maxWorkers)
	})
	if err != nil {
		return SweepResult{}, err
	}

	result, ok := value.(SweepResult)
	if !ok {
		return SweepResult{}, fmt.Errorf("unexpected sweep result type %T", value)
	}
	result.SharedWithPrior = shared
	return result, nil
}

func (s *SweepService) sweep(ctx context.Context, maxWorkers int) (SweepResult, error) {
	weeks, err := s.activeWeeks(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	workerCount := normalizeSweepWorkerCount(maxWorkers, len(weeks))
	result := SweepResult{
		WeekCount:   len(weeks),
		WorkerCount: workerCount,
		Weeks:       make([]WeekSweepResult, 0, len(weeks)),
	}
	if len(weeks) == 0 {
		return result, nil
	}

	rows := make(chan WeekSweepResult, len(weeks))

	var gameCount atomic.Int32
	var transitioned atomic.Int32
	var resettled atomic.Int32
	var ungradeable atomic.Int32
	var failed atomic.Int32

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, wk := range weeks {
		wk := wk
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			row := s.sweepWeek(ctx, wk)
			gameCount.Add(int32(row.GameCount))
			transitioned.Add(int32(row.Transitioned))
			resettled.Add(int32(row.Resettled))
			ungradeable.Add(int32(len(row.UngradeableGames)))
			if row.Message != "" {
				failed.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return SweepResult{}, fmt.Errorf("submit sweep task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Weeks = append(result.Weeks, row)
	}
	sort.SliceStable(result.Weeks, func(i, j int) bool {
		if result.Weeks[i].Season != result.Weeks[j].Season {
			return result.Weeks[i].Season < result.Weeks[j].Season
		}
		return result.Weeks[i].WeekNumber < result.Weeks[j].WeekNumber
	})

	result.GameCount = int(gameCount.Load())
	result.Transitioned = int(transitioned.Load())
	result.Resettled = int(resettled.Load())
	result.Ungradeable = int(ungradeable.Load())
	result.Failed = int(failed.Load())

	s.logger.InfoContext(ctx, "lifecycle sweep finished",
		"weeks", result.WeekCount,
		"games", result.GameCount,
		"transitioned", result.Transitioned,
		"resettled", result.Resettled,
		"ungradeable", result.Ungradeable,
		"failed", result.Failed,
	)

	return result, nil
}

func (s *SweepService) sweepWeek(ctx context.Context, wk week.Week) WeekSweepResult {
	row := WeekSweepResult{
		Season:     wk.Season,
		WeekNumber: wk.Number,
	}

	games, err := s.gameRepo.ListByWeek(ctx, wk.Number, wk.Season)
	if err != nil {
		row.Message = fmt.Sprintf("list games: %v", err)
		return row
	}
	row.GameCount = len(games)

	now := s.now()
	for _, g := range games {
		next := g.AutoStatus(now)
		if next != g.Status {
			if err := s.gameRepo.UpdateStatus(ctx, g.ID, next); err != nil {
				row.Message = fmt.Sprintf("update game=%s status: %v", g.ID, err)
				return row
			}
			g.Status = next
			row.Transitioned++
		}

		if g.Status != game.StatusFinished {
			continue
		}
		if !g.HasResult() {
			row.UngradeableGames = append(row.UngradeableGames, g.ID)
			s.logger.WarnContext(ctx, "finished game has no result to grade",
				"game_id", g.ID,
				"season", wk.Season,
				"week_number", wk.Number,
			)
			continue
		}

		pending, err := s.hasUngradedBets(ctx, g.ID)
		if err != nil {
			row.Message = fmt.Sprintf("list bets for game=%s: %v", g.ID, err)
			return row
		}
		if !pending {
			continue
		}
		if err := s.settler.SettleGame(ctx, g); err != nil {
			row.Message = fmt.Sprintf("settle game=%s: %v", g.ID, err)
			return row
		}
		row.Resettled++
	}

	return row
}

func (s *SweepService) hasUngradedBets(ctx context.Context, gameID string) (bool, error) {
	bets, err := s.betRepo.ListByGame(ctx, gameID)
	if err != nil {
		return false, err
	}
	for _, b := range bets {
		if !b.Graded() {
			return true, nil
		}
	}
	return false, nil
}

func (s *SweepService) activeWeeks(ctx context.Context) ([]week.Week, error) {
	open, err := s.weekRepo.ListByStatus(ctx, week.StatusOpen)
	if err != nil {
		return nil, fmt.Errorf("list open weeks: %w", err)
	}
	closed, err := s.weekRepo.ListByStatus(ctx, week.StatusClosed)
	if err != nil {
		return nil, fmt.Errorf("list closed weeks: %w", err)
	}
	return append(open, closed...), nil
}

func normalizeSweepWorkerCount(value int, weekCount int) int {
	if weekCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = sweepDefaultWorkers
	}
	if value > sweepMaxWorkers {
		value = sweepMaxWorkers
	}
	if value > weekCount {
		value = weekCount
	}
	return value
}
