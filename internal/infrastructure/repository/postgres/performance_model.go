package postgres

import (
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/performance"
)

type performanceTableModel struct {
	UserID             string    `db:"user_id"`
	WeekID             string    `db:"week_id"`
	TotalPredictions   int       `db:"total_predictions"`
	CorrectPredictions int       `db:"correct_predictions"`
	Percentage         float64   `db:"percentage"`
	RankingPosition    int       `db:"ranking_position"`
	Percentile         float64   `db:"percentile"`
	Winnings           int64     `db:"winnings"`
	Status             string    `db:"status"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type performanceInsertModel struct {
	UserID             string  `db:"user_id"`
	WeekID             string  `db:"week_id"`
	TotalPredictions   int     `db:"total_predictions"`
	CorrectPredictions int     `db:"correct_predictions"`
	Percentage         float64 `db:"percentage"`
	Status             string  `db:"status"`
}

func (m performanceTableModel) toDomain() performance.Performance {
	return performance.Performance{
		UserID:             m.UserID,
		WeekID:             m.WeekID,
		TotalPredictions:   m.TotalPredictions,
		CorrectPredictions: m.CorrectPredictions,
		Percentage:         m.Percentage,
		RankingPosition:    m.RankingPosition,
		Percentile:         m.Percentile,
		Winnings:           m.Winnings,
		Status:             m.Status,
		UpdatedAt:          m.UpdatedAt,
	}
}
