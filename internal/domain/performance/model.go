package performance

import "time"

const (
	StatusPending    = "PENDING"
	StatusCalculated = "CALCULATED"
)

// Performance is the per-(user, week) aggregate maintained by settlement.
// It is a rebuildable projection over bet rows, never an independent source
// of truth: Percentage is always derived from the two counters.
type Performance struct {
	UserID             string
	WeekID             string
	TotalPredictions   int
	CorrectPredictions int
	Percentage         float64
	RankingPosition    int
	Percentile         float64
	Winnings           int64
	Status             string
	UpdatedAt          time.Time
}

// DerivePercentage recomputes the stored percentage from the counters.
// A user with no predictions scores zero rather than dividing by zero.
func (p *Performance) DerivePercentage() {
	if p.TotalPredictions <= 0 {
		p.Percentage = 0
		return
	}
	p.Percentage = 100 * float64(p.CorrectPredictions) / float64(p.TotalPredictions)
}
