package performance

import "context"

type Repository interface {
	GetByUserAndWeek(ctx context.Context, userID, weekID string) (Performance, bool, error)
	ListByWeek(ctx context.Context, weekID string) ([]Performance, error)
	// UpdateRankings persists the positions and percentiles assigned by a
	// leaderboard pass. Rows not present in the input are left untouched.
	UpdateRankings(ctx context.Context, weekID string, rows []Performance) error
}
