package settlement

import (
	"context"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/performance"
)

// Grade is the verdict for a single bet.
type Grade struct {
	BetID     string
	IsCorrect bool
}

// Store applies the settlement of one game as a single atomic unit: the
// grades for that game's bets together with the refreshed per-user weekly
// aggregates. A bet that is already graded must keep its value; grading is
// write-once per game finalization.
type Store interface {
	ApplyGameSettlement(ctx context.Context, gameID string, grades []Grade, aggregates []performance.Performance) error
}
