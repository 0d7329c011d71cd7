package game

import "context"

type Repository interface {
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	ListByWeek(ctx context.Context, weekNumber int, season string) ([]Game, error)
	Create(ctx context.Context, item Game) error
	// SetResult persists scores, result and FINISHED status in one write.
	SetResult(ctx context.Context, gameID string, homeScore, awayScore int, result string) error
	UpdateStatus(ctx context.Context, gameID, status string) error
}
