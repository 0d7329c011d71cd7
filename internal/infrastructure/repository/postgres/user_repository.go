package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/user"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := querybuilder.Select("*").From("users").
		Where(querybuilder.Eq("id", userID)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user id=%s: %w", userID, err)
	}
	return row.toDomain(), true, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, userIDs []string) ([]user.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	values := make([]any, 0, len(userIDs))
	for _, id := range userIDs {
		values = append(values, id)
	}
	query, args, err := querybuilder.Select("*").From("users").
		Where(querybuilder.In("id", values)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Upsert mirrors a verified account locally. CreatedAt is assigned once by
// the database and never overwritten, keeping the leaderboard tie-break
// stable across repeated logins.
func (r *UserRepository) Upsert(ctx context.Context, item user.User) error {
	insertModel := userInsertModel{
		ID:    item.ID,
		Email: item.Email,
		Name:  item.Name,
	}
	query, args, err := querybuilder.InsertModel("users", insertModel, `ON CONFLICT (id)
DO UPDATE SET
    email = EXCLUDED.email,
    name = EXCLUDED.name`)
	if err != nil {
		return fmt.Errorf("build upsert user query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user id=%s: %w", item.ID, err)
	}
	return nil
}
