package postgres

import (
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/ledger"
)

type transactionTableModel struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	WeekID    string    `db:"week_id"`
	TxType    string    `db:"transaction_type"`
	Amount    int64     `db:"amount"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

type transactionInsertModel struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`
	WeekID string `db:"week_id"`
	TxType string `db:"transaction_type"`
	Amount int64  `db:"amount"`
	Status string `db:"status"`
}

func (m transactionTableModel) toDomain() ledger.Transaction {
	return ledger.Transaction{
		ID:        m.ID,
		UserID:    m.UserID,
		WeekID:    m.WeekID,
		Type:      m.TxType,
		Amount:    m.Amount,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
}
