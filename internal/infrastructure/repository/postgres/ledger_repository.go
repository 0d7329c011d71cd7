package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/ledger"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/querybuilder"
)

type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Create(ctx context.Context, item ledger.Transaction) error {
	query, args, err := buildInsertTransaction(item)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert transaction id=%s: %w", item.ID, err)
	}
	return nil
}

func (r *LedgerRepository) ListByUserAndWeek(ctx context.Context, userID, weekID string) ([]ledger.Transaction, error) {
	query, args, err := querybuilder.Select("*").From("transactions").
		Where(
			querybuilder.Eq("user_id", userID),
			querybuilder.Eq("week_id", weekID),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list transactions query: %w", err)
	}

	var rows []transactionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list transactions user=%s week=%s: %w", userID, weekID, err)
	}

	out := make([]ledger.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func buildInsertTransaction(item ledger.Transaction) (string, []any, error) {
	insertModel := transactionInsertModel{
		ID:     item.ID,
		UserID: item.UserID,
		WeekID: item.WeekID,
		TxType: item.Type,
		Amount: item.Amount,
		Status: item.Status,
	}
	query, args, err := querybuilder.InsertModel("transactions", insertModel, "")
	if err != nil {
		return "", nil, fmt.Errorf("build insert transaction query: %w", err)
	}
	return query, args, nil
}

// insertTransactionTx records a ledger row inside a caller-owned transaction
// so a wagering event and its fee land or vanish together.
func insertTransactionTx(ctx context.Context, tx *sqlx.Tx, item ledger.Transaction) error {
	query, args, err := buildInsertTransaction(item)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert transaction id=%s: %w", item.ID, err)
	}
	return nil
}
