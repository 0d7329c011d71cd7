package cache

import (
	"context"
	"strconv"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
	basecache "github.com/cards10e/laquiniela247-sub000/internal/platform/cache"
)

// Read-through caches for the public catalog endpoints. Weeks and games are
// read on every page load but change only on admin writes and sweep
// transitions, so writes drop the whole prefix instead of tracking keys.

type WeekRepository struct {
	next  week.Repository
	cache *basecache.Store
}

func NewWeekRepository(next week.Repository, cache *basecache.Store) *WeekRepository {
	return &WeekRepository{next: next, cache: cache}
}

func (r *WeekRepository) GetByNumberAndSeason(ctx context.Context, number int, season string) (week.Week, bool, error) {
	key := "week:num:" + season + ":" + strconv.Itoa(number)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByNumberAndSeason(ctx, number, season)
		if err != nil {
			return nil, err
		}
		return cachedWeek{value: item, exists: exists}, nil
	})
	if err != nil {
		return week.Week{}, false, err
	}

	cached, _ := v.(cachedWeek)
	return cached.value, cached.exists, nil
}

func (r *WeekRepository) GetByID(ctx context.Context, weekID string) (week.Week, bool, error) {
	key := "week:id:" + weekID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, weekID)
		if err != nil {
			return nil, err
		}
		return cachedWeek{value: item, exists: exists}, nil
	})
	if err != nil {
		return week.Week{}, false, err
	}

	cached, _ := v.(cachedWeek)
	return cached.value, cached.exists, nil
}

func (r *WeekRepository) ListBySeason(ctx context.Context, season string) ([]week.Week, error) {
	key := "week:season:" + season
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, season)
		if err != nil {
			return nil, err
		}
		return append([]week.Week(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]week.Week)
	return append([]week.Week(nil), items...), nil
}

func (r *WeekRepository) ListByStatus(ctx context.Context, status string) ([]week.Week, error) {
	key := "week:status:" + status
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		return append([]week.Week(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]week.Week)
	return append([]week.Week(nil), items...), nil
}

func (r *WeekRepository) Create(ctx context.Context, item week.Week) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "week:")
	return nil
}

func (r *WeekRepository) UpdateStatus(ctx context.Context, weekID, status string) error {
	if err := r.next.UpdateStatus(ctx, weekID, status); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "week:")
	return nil
}

type cachedWeek struct {
	value  week.Week
	exists bool
}

type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	key := "game:id:" + gameID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, gameID)
		if err != nil {
			return nil, err
		}
		return cachedGame{value: item, exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}

	cached, _ := v.(cachedGame)
	return cached.value, cached.exists, nil
}

func (r *GameRepository) ListByWeek(ctx context.Context, weekNumber int, season string) ([]game.Game, error) {
	key := "game:week:" + season + ":" + strconv.Itoa(weekNumber)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByWeek(ctx, weekNumber, season)
		if err != nil {
			return nil, err
		}
		return append([]game.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]game.Game)
	return append([]game.Game(nil), items...), nil
}

func (r *GameRepository) Create(ctx context.Context, item game.Game) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "game:")
	return nil
}

func (r *GameRepository) SetResult(ctx context.Context, gameID string, homeScore, awayScore int, result string) error {
	if err := r.next.SetResult(ctx, gameID, homeScore, awayScore, result); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "game:")
	return nil
}

func (r *GameRepository) UpdateStatus(ctx context.Context, gameID, status string) error {
	if err := r.next.UpdateStatus(ctx, gameID, status); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "game:")
	return nil
}

type cachedGame struct {
	value  game.Game
	exists bool
}
