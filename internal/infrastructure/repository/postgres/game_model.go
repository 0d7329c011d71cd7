package postgres

import (
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
)

type gameTableModel struct {
	ID         string    `db:"id"`
	WeekNumber int       `db:"week_number"`
	Season     string    `db:"season"`
	HomeTeamID string    `db:"home_team_id"`
	AwayTeamID string    `db:"away_team_id"`
	MatchDate  time.Time `db:"match_date"`
	Status     string    `db:"status"`
	HomeScore  *int      `db:"home_score"`
	AwayScore  *int      `db:"away_score"`
	Result     *string   `db:"result"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type gameInsertModel struct {
	ID         string    `db:"id"`
	WeekNumber int       `db:"week_number"`
	Season     string    `db:"season"`
	HomeTeamID string    `db:"home_team_id"`
	AwayTeamID string    `db:"away_team_id"`
	MatchDate  time.Time `db:"match_date"`
	Status     string    `db:"status"`
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:         m.ID,
		WeekNumber: m.WeekNumber,
		Season:     m.Season,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		MatchDate:  m.MatchDate,
		Status:     m.Status,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		Result:     m.Result,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
