package bet

import "time"

const (
	TypeSingle = "SINGLE"
	TypeParlay = "PARLAY"
)

// Bet is one user's prediction for one game. At most one row exists per
// (UserID, GameID); a repeat submission replaces the prediction in place.
// IsCorrect stays nil until the owning game is settled.
type Bet struct {
	ID         string
	UserID     string
	WeekID     string
	GameID     string
	Prediction string
	IsCorrect  *bool
	Type       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b Bet) Graded() bool {
	return b.IsCorrect != nil
}
