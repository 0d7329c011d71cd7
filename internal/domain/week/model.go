package week

import (
	"strings"
	"time"
)

const (
	StatusUpcoming = "UPCOMING"
	StatusOpen     = "OPEN"
	StatusClosed   = "CLOSED"
	StatusFinished = "FINISHED"
)

// Week is one betting round bundling the games that share a week number
// within a season.
type Week struct {
	ID              string
	Number          int
	Season          string
	StartDate       time.Time
	EndDate         time.Time
	BettingDeadline time.Time
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusUpcoming
	}
	return status
}

func IsValidStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusUpcoming, StatusOpen, StatusClosed, StatusFinished:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the week accepts wagers at all. The betting
// deadline is a separate gate checked by the betting service.
func (w Week) IsOpen() bool {
	return NormalizeStatus(w.Status) == StatusOpen
}

// DeadlinePassed reports whether now is at or past the betting deadline.
// A zero deadline fails closed: a week without a configured deadline never
// accepts wagers.
func (w Week) DeadlinePassed(now time.Time) bool {
	if w.BettingDeadline.IsZero() {
		return true
	}
	return !now.Before(w.BettingDeadline)
}
