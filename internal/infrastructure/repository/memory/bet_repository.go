package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/bet"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/ledger"
)

// BetRepository keeps bet rows under one mutex so the (user, game)
// uniqueness guarantee holds under concurrent placements, mirroring the
// unique index the database version relies on. Entry fees are appended to
// the shared ledger while the mutex is held, so a wagering event and its
// fee stay atomic here too.
type BetRepository struct {
	mu     sync.RWMutex
	bets   map[string]bet.Bet
	ledger *LedgerRepository
}

func NewBetRepository(ledgerRepo *LedgerRepository) *BetRepository {
	return &BetRepository{
		bets:   make(map[string]bet.Bet),
		ledger: ledgerRepo,
	}
}

func (r *BetRepository) GetByID(_ context.Context, betID string) (bet.Bet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.bets[betID]
	return item, ok, nil
}

func (r *BetRepository) GetByUserAndGame(_ context.Context, userID, gameID string) (bet.Bet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.findByUserAndGame(userID, gameID)
	return item, ok, nil
}

func (r *BetRepository) ListByGame(_ context.Context, gameID string) ([]bet.Bet, error) {
	return r.list(func(b bet.Bet) bool { return b.GameID == gameID }), nil
}

func (r *BetRepository) ListByWeek(_ context.Context, weekID string) ([]bet.Bet, error) {
	return r.list(func(b bet.Bet) bool { return b.WeekID == weekID }), nil
}

func (r *BetRepository) ListByUserAndWeek(_ context.Context, userID, weekID string) ([]bet.Bet, error) {
	return r.list(func(b bet.Bet) bool { return b.UserID == userID && b.WeekID == weekID }), nil
}

func (r *BetRepository) PlaceWithEntryFee(ctx context.Context, item bet.Bet, fee ledger.Transaction) (bet.Bet, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.findByUserAndGame(item.UserID, item.GameID); ok {
		existing.Prediction = item.Prediction
		existing.UpdatedAt = item.UpdatedAt
		r.bets[existing.ID] = existing
		return existing, false, nil
	}

	r.bets[item.ID] = item
	if err := r.ledger.Create(ctx, fee); err != nil {
		delete(r.bets, item.ID)
		return bet.Bet{}, false, fmt.Errorf("record entry fee: %w", err)
	}
	return item, true, nil
}

func (r *BetRepository) PlaceParlayWithEntryFee(ctx context.Context, items []bet.Bet, fee ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if existing, ok := r.findByUserAndGame(item.UserID, item.GameID); ok {
			existing.Prediction = item.Prediction
			existing.Type = item.Type
			existing.UpdatedAt = item.UpdatedAt
			r.bets[existing.ID] = existing
			continue
		}
		r.bets[item.ID] = item
	}
	if err := r.ledger.Create(ctx, fee); err != nil {
		return fmt.Errorf("record parlay entry fee: %w", err)
	}
	return nil
}

func (r *BetRepository) Delete(_ context.Context, betID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bets, betID)
	return nil
}

// gradeIfUngraded is used by the settlement store; grading is write-once.
func (r *BetRepository) gradeIfUngraded(betID string, isCorrect bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.bets[betID]
	if !ok || item.IsCorrect != nil {
		return
	}
	item.IsCorrect = &isCorrect
	r.bets[betID] = item
}

func (r *BetRepository) findByUserAndGame(userID, gameID string) (bet.Bet, bool) {
	for _, item := range r.bets {
		if item.UserID == userID && item.GameID == gameID {
			return item, true
		}
	}
	return bet.Bet{}, false
}

func (r *BetRepository) list(match func(bet.Bet) bool) []bet.Bet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bet.Bet, 0)
	for _, item := range r.bets {
		if match(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
