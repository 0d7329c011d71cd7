package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/performance"
)

type performanceKey struct {
	userID string
	weekID string
}

type PerformanceRepository struct {
	mu   sync.RWMutex
	rows map[performanceKey]performance.Performance
}

func NewPerformanceRepository() *PerformanceRepository {
	return &PerformanceRepository{rows: make(map[performanceKey]performance.Performance)}
}

func (r *PerformanceRepository) GetByUserAndWeek(_ context.Context, userID, weekID string) (performance.Performance, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rows[performanceKey{userID: userID, weekID: weekID}]
	return item, ok, nil
}

func (r *PerformanceRepository) ListByWeek(_ context.Context, weekID string) ([]performance.Performance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]performance.Performance, 0)
	for key, item := range r.rows {
		if key.weekID == weekID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *PerformanceRepository) UpdateRankings(_ context.Context, weekID string, rows []performance.Performance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		key := performanceKey{userID: row.UserID, weekID: weekID}
		existing, ok := r.rows[key]
		if !ok {
			continue
		}
		existing.RankingPosition = row.RankingPosition
		existing.Percentile = row.Percentile
		r.rows[key] = existing
	}
	return nil
}

// applyAggregate refreshes the counters written by settlement while leaving
// ranking columns to the leaderboard pass, matching the database upsert.
func (r *PerformanceRepository) applyAggregate(item performance.Performance) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := performanceKey{userID: item.UserID, weekID: item.WeekID}
	existing, ok := r.rows[key]
	if ok {
		item.RankingPosition = existing.RankingPosition
		item.Percentile = existing.Percentile
		item.Winnings = existing.Winnings
	}
	r.rows[key] = item
}
