package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/ledger"
)

type LedgerRepository struct {
	mu           sync.RWMutex
	transactions []ledger.Transaction
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

func (r *LedgerRepository) Create(_ context.Context, item ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactions = append(r.transactions, item)
	return nil
}

func (r *LedgerRepository) ListByUserAndWeek(_ context.Context, userID, weekID string) ([]ledger.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ledger.Transaction, 0)
	for _, item := range r.transactions {
		if item.UserID == userID && item.WeekID == weekID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
