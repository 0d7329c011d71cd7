package week

import "context"

// Repository exposes week persistence. Create must fail with a storage-level
// conflict when a week already exists for (number, season).
type Repository interface {
	GetByNumberAndSeason(ctx context.Context, number int, season string) (Week, bool, error)
	GetByID(ctx context.Context, weekID string) (Week, bool, error)
	ListBySeason(ctx context.Context, season string) ([]Week, error)
	ListByStatus(ctx context.Context, status string) ([]Week, error)
	Create(ctx context.Context, item Week) error
	UpdateStatus(ctx context.Context, weekID, status string) error
}
