package bet

import (
	"context"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/ledger"
)

// Repository owns bet rows and the (user_id, game_id) uniqueness guarantee.
// Concurrent placements for the same pair must serialize through storage: the
// loser of a create race is folded into an update, never a duplicate row.
type Repository interface {
	GetByID(ctx context.Context, betID string) (Bet, bool, error)
	GetByUserAndGame(ctx context.Context, userID, gameID string) (Bet, bool, error)
	ListByGame(ctx context.Context, gameID string) ([]Bet, error)
	ListByWeek(ctx context.Context, weekID string) ([]Bet, error)
	ListByUserAndWeek(ctx context.Context, userID, weekID string) ([]Bet, error)

	// PlaceWithEntryFee atomically inserts the bet together with its entry
	// fee transaction. When a row already exists for (user, game) the
	// prediction is replaced in place and no fee is recorded; created
	// reports which branch ran.
	PlaceWithEntryFee(ctx context.Context, item Bet, fee ledger.Transaction) (out Bet, created bool, err error)

	// PlaceParlayWithEntryFee atomically upserts one bet per game of the
	// parlay and records a single entry fee for the whole set. Partial
	// application is a correctness violation: either every row lands or
	// none does.
	PlaceParlayWithEntryFee(ctx context.Context, items []Bet, fee ledger.Transaction) error

	Delete(ctx context.Context, betID string) error
}
