package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/performance"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/settlement"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/querybuilder"
)

// SettlementStore applies the settlement of one game atomically: bet grades
// and refreshed weekly aggregates commit together or not at all.
type SettlementStore struct {
	db *sqlx.DB
}

func NewSettlementStore(db *sqlx.DB) *SettlementStore {
	return &SettlementStore{db: db}
}

func (s *SettlementStore) ApplyGameSettlement(ctx context.Context, gameID string, grades []settlement.Grade, aggregates []performance.Performance) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx settle game: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, grade := range grades {
		// The IS NULL guard makes grading write-once at the storage level:
		// a rerun of the same settlement never flips an existing verdict.
		query, args, err := querybuilder.Update("bets").
			Set("is_correct", grade.IsCorrect).
			SetExpr("updated_at", "NOW()").
			Where(
				querybuilder.Eq("id", grade.BetID),
				querybuilder.Expr("is_correct IS NULL"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build grade bet query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("grade bet id=%s game=%s: %w", grade.BetID, gameID, err)
		}
	}

	for _, aggregate := range aggregates {
		if err := upsertPerformanceTx(ctx, tx, aggregate); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settle game tx game=%s: %w", gameID, err)
	}
	return nil
}
