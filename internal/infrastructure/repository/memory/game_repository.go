package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	games map[string]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	byID := make(map[string]game.Game, len(games))
	for _, item := range games {
		byID[item.ID] = item
	}
	return &GameRepository{games: byID}
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.games[gameID]
	return item, ok, nil
}

func (r *GameRepository) ListByWeek(_ context.Context, weekNumber int, season string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.games))
	for _, item := range r.games {
		if item.WeekNumber == weekNumber && item.Season == season {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MatchDate.Equal(out[j].MatchDate) {
			return out[i].MatchDate.Before(out[j].MatchDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *GameRepository) Create(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[item.ID]; ok {
		return fmt.Errorf("game id=%s already exists", item.ID)
	}
	r.games[item.ID] = item
	return nil
}

func (r *GameRepository) SetResult(_ context.Context, gameID string, homeScore, awayScore int, result string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.games[gameID]
	if !ok {
		return fmt.Errorf("game id=%s not found", gameID)
	}
	item.HomeScore = &homeScore
	item.AwayScore = &awayScore
	item.Result = &result
	item.Status = game.StatusFinished
	r.games[gameID] = item
	return nil
}

func (r *GameRepository) UpdateStatus(_ context.Context, gameID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.games[gameID]
	if !ok {
		return fmt.Errorf("game id=%s not found", gameID)
	}
	item.Status = status
	r.games[gameID] = item
	return nil
}
