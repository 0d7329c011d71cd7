package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
)

type WeekRepository struct {
	mu    sync.RWMutex
	weeks map[string]week.Week
}

func NewWeekRepository(weeks []week.Week) *WeekRepository {
	byID := make(map[string]week.Week, len(weeks))
	for _, item := range weeks {
		byID[item.ID] = item
	}
	return &WeekRepository{weeks: byID}
}

func (r *WeekRepository) GetByNumberAndSeason(_ context.Context, number int, season string) (week.Week, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.weeks {
		if item.Number == number && item.Season == season {
			return item, true, nil
		}
	}
	return week.Week{}, false, nil
}

func (r *WeekRepository) GetByID(_ context.Context, weekID string) (week.Week, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.weeks[weekID]
	return item, ok, nil
}

func (r *WeekRepository) ListBySeason(_ context.Context, season string) ([]week.Week, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]week.Week, 0, len(r.weeks))
	for _, item := range r.weeks {
		if item.Season == season {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *WeekRepository) ListByStatus(_ context.Context, status string) ([]week.Week, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]week.Week, 0, len(r.weeks))
	for _, item := range r.weeks {
		if week.NormalizeStatus(item.Status) == week.NormalizeStatus(status) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (r *WeekRepository) Create(_ context.Context, item week.Week) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.weeks {
		if existing.Number == item.Number && existing.Season == item.Season {
			return fmt.Errorf("week number=%d season=%s already exists", item.Number, item.Season)
		}
	}
	r.weeks[item.ID] = item
	return nil
}

func (r *WeekRepository) UpdateStatus(_ context.Context, weekID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.weeks[weekID]
	if !ok {
		return fmt.Errorf("week id=%s not found", weekID)
	}
	item.Status = status
	r.weeks[weekID] = item
	return nil
}
