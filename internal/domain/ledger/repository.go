package ledger

import "context"

type Repository interface {
	Create(ctx context.Context, item Transaction) error
	ListByUserAndWeek(ctx context.Context, userID, weekID string) ([]Transaction, error)
}
