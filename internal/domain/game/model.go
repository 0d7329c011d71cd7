package game

import (
	"strings"
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
)

const (
	ResultHome = "HOME"
	ResultDraw = "DRAW"
	ResultAway = "AWAY"
)

// A match is assumed over this long after kickoff when no explicit result
// has been posted. Time-based FINISHED is a display safety net only;
// settlement always requires a posted result.
const LiveWindow = 150 * time.Minute

// Game is one scheduled match inside a week.
type Game struct {
	ID         string
	WeekNumber int
	Season     string
	HomeTeamID string
	AwayTeamID string
	MatchDate  time.Time
	Status     string
	HomeScore  *int
	AwayScore  *int
	Result     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsValidPrediction(value string) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case ResultHome, ResultDraw, ResultAway:
		return true
	default:
		return false
	}
}

// HasResult reports whether an explicit result has been posted.
func (g Game) HasResult() bool {
	return g.Result != nil && *g.Result != ""
}

// AutoStatus derives the display status of a game from elapsed time since
// kickoff. It never regresses a FINISHED game that carries a result: a posted
// result is authoritative and final. A zero match date yields SCHEDULED so a
// malformed row stays non-biddable instead of failing.
func (g Game) AutoStatus(now time.Time) string {
	if NormalizeStatus(g.Status) == StatusFinished && g.HasResult() {
		return StatusFinished
	}
	if g.MatchDate.IsZero() {
		return StatusScheduled
	}

	elapsed := now.Sub(g.MatchDate)
	switch {
	case elapsed > LiveWindow:
		return StatusFinished
	case elapsed >= 0:
		return StatusLive
	default:
		return StatusScheduled
	}
}

// ResultFromScores is the single definition of how scores map onto an
// outcome.
func ResultFromScores(homeScore, awayScore int) string {
	switch {
	case homeScore > awayScore:
		return ResultHome
	case homeScore < awayScore:
		return ResultAway
	default:
		return ResultDraw
	}
}

// CanBet reports whether a wager on g is currently acceptable. The week
// status and the betting deadline are independent gates: an OPEN week past
// its deadline rejects wagers without any operator action.
func CanBet(w week.Week, g Game, now time.Time) bool {
	if !w.IsOpen() {
		return false
	}
	if w.DeadlinePassed(now) {
		return false
	}
	return g.AutoStatus(now) == StatusScheduled
}
