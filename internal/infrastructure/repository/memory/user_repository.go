package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]user.User
	now   func() time.Time
}

func NewUserRepository(users []user.User) *UserRepository {
	byID := make(map[string]user.User, len(users))
	for _, item := range users {
		byID[item.ID] = item
	}
	return &UserRepository{users: byID, now: time.Now}
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.users[userID]
	return item, ok, nil
}

func (r *UserRepository) GetByIDs(_ context.Context, userIDs []string) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(userIDs))
	for _, id := range userIDs {
		if item, ok := r.users[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// Upsert mirrors a verified account. CreatedAt is set on first sight only,
// so the registration-order tie-break never moves.
func (r *UserRepository) Upsert(_ context.Context, item user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.users[item.ID]; ok {
		existing.Email = item.Email
		existing.Name = item.Name
		r.users[item.ID] = existing
		return nil
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = r.now()
	}
	r.users[item.ID] = item
	return nil
}
