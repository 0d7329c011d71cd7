package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/performance"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/user"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/cache"
)

const (
	leaderboardDefaultLimit = 50
	leaderboardMaxLimit     = 200
)

type LeaderboardEntry struct {
	Position           int     `json:"position"`
	UserID             string  `json:"user_id"`
	UserName           string  `json:"user_name"`
	Percentage         float64 `json:"percentage"`
	TotalPredictions   int     `json:"total_predictions"`
	CorrectPredictions int     `json:"correct_predictions"`
	Percentile         float64 `json:"percentile"`
	Winnings           int64   `json:"winnings"`
}

type LeaderboardService struct {
	weekRepo   week.Repository
	perfRepo   performance.Repository
	userRepo   user.Repository
	boards     *cache.Store
	settledTTL time.Duration
	now        func() time.Time
}

func NewLeaderboardService(
	weekRepo week.Repository,
	perfRepo performance.Repository,
	userRepo user.Repository,
	boards *cache.Store,
	settledTTL time.Duration,
) *LeaderboardService {
	return &LeaderboardService{
		weekRepo:   weekRepo,
		perfRepo:   perfRepo,
		userRepo:   userRepo,
		boards:     boards,
		settledTTL: settledTTL,
		now:        time.Now,
	}
}

// GetLeaderboard ranks the week's calculated performance rows. The ranking
// pass also persists position and percentile back onto the performance rows,
// so the standings survive cache eviction and restarts.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, season string, weekNumber, limit int) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetLeaderboard")
	defer span.End()

	season = strings.TrimSpace(season)
	if season == "" || weekNumber < 1 {
		return nil, fmt.Errorf("%w: season and week_number are required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = leaderboardDefaultLimit
	}
	if limit > leaderboardMaxLimit {
		limit = leaderboardMaxLimit
	}

	if s.boards == nil {
		return s.build(ctx, season, weekNumber, limit)
	}

	key := fmt.Sprintf("%s%d", leaderboardKeyPrefix(season, weekNumber), limit)
	weekSettled := false
	value, err := s.boards.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		entries, buildErr := s.build(ctx, season, weekNumber, limit)
		if buildErr != nil {
			return nil, buildErr
		}
		weekSettled = s.isWeekFinished(ctx, season, weekNumber)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}

	entries, ok := value.([]LeaderboardEntry)
	if !ok {
		return nil, fmt.Errorf("unexpected cached leaderboard type %T", value)
	}

	// A finished week's board is immutable, so it can outlive the default
	// cache lifetime.
	if weekSettled && s.settledTTL > 0 {
		s.boards.SetWithTTL(ctx, key, entries, s.settledTTL)
	}

	return entries, nil
}

func (s *LeaderboardService) build(ctx context.Context, season string, weekNumber, limit int) ([]LeaderboardEntry, error) {
	wk, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, weekNumber, season)
	if err != nil {
		return nil, fmt.Errorf("get week by number and season: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: week=%d season=%s", ErrNotFound, weekNumber, season)
	}

	rows, err := s.perfRepo.ListByWeek(ctx, wk.ID)
	if err != nil {
		return nil, fmt.Errorf("list performance by week: %w", err)
	}

	calculated := rows[:0:0]
	for _, row := range rows {
		if row.Status == performance.StatusCalculated {
			calculated = append(calculated, row)
		}
	}
	if len(calculated) == 0 {
		return []LeaderboardEntry{}, nil
	}

	userIDs := make([]string, 0, len(calculated))
	for _, row := range calculated {
		userIDs = append(userIDs, row.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	usersByID := make(map[string]user.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	// Three-key total order: accuracy first, then breadth of participation,
	// then earliest registration as the audit-stable tie-break.
	sort.SliceStable(calculated, func(i, j int) bool {
		a, b := calculated[i], calculated[j]
		if a.Percentage != b.Percentage {
			return a.Percentage > b.Percentage
		}
		if a.TotalPredictions != b.TotalPredictions {
			return a.TotalPredictions > b.TotalPredictions
		}
		return usersByID[a.UserID].CreatedAt.Before(usersByID[b.UserID].CreatedAt)
	})

	total := len(calculated)
	for i := range calculated {
		calculated[i].RankingPosition = i + 1
		calculated[i].Percentile = 100 * float64(total-i) / float64(total)
	}

	if err := s.perfRepo.UpdateRankings(ctx, wk.ID, calculated); err != nil {
		return nil, fmt.Errorf("update rankings: %w", err)
	}

	if limit > total {
		limit = total
	}
	entries := make([]LeaderboardEntry, 0, limit)
	for _, row := range calculated[:limit] {
		entries = append(entries, LeaderboardEntry{
			Position:           row.RankingPosition,
			UserID:             row.UserID,
			UserName:           usersByID[row.UserID].Name,
			Percentage:         row.Percentage,
			TotalPredictions:   row.TotalPredictions,
			CorrectPredictions: row.CorrectPredictions,
			Percentile:         row.Percentile,
			Winnings:           row.Winnings,
		})
	}

	return entries, nil
}

func (s *LeaderboardService) isWeekFinished(ctx context.Context, season string, weekNumber int) bool {
	wk, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, weekNumber, season)
	if err != nil || !exists {
		return false
	}
	return wk.Status == week.StatusFinished
}
