package postgres

import (
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
)

type weekTableModel struct {
	ID              string    `db:"id"`
	Number          int       `db:"week_number"`
	Season          string    `db:"season"`
	StartDate       time.Time `db:"start_date"`
	EndDate         time.Time `db:"end_date"`
	BettingDeadline time.Time `db:"betting_deadline"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type weekInsertModel struct {
	ID              string    `db:"id"`
	Number          int       `db:"week_number"`
	Season          string    `db:"season"`
	StartDate       time.Time `db:"start_date"`
	EndDate         time.Time `db:"end_date"`
	BettingDeadline time.Time `db:"betting_deadline"`
	Status          string    `db:"status"`
}

func (m weekTableModel) toDomain() week.Week {
	return week.Week{
		ID:              m.ID,
		Number:          m.Number,
		Season:          m.Season,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		BettingDeadline: m.BettingDeadline,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
