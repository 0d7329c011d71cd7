package ledger

import "time"

const (
	TypeEntryFee = "ENTRY_FEE"
	TypeWinnings = "WINNINGS"
)

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

// Transaction is a ledger entry tied to a wagering event. Exactly one
// ENTRY_FEE row is recorded per wagering event: one single-bet submission or
// one parlay covering a whole week, never one per bet row. Rows are immutable
// once written.
type Transaction struct {
	ID        string
	UserID    string
	WeekID    string
	Type      string
	Amount    int64
	Status    string
	CreatedAt time.Time
}
