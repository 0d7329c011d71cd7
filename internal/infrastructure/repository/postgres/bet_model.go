package postgres

import (
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/bet"
)

type betTableModel struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	WeekID     string    `db:"week_id"`
	GameID     string    `db:"game_id"`
	Prediction string    `db:"prediction"`
	IsCorrect  *bool     `db:"is_correct"`
	BetType    string    `db:"bet_type"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type betInsertModel struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	WeekID     string `db:"week_id"`
	GameID     string `db:"game_id"`
	Prediction string `db:"prediction"`
	BetType    string `db:"bet_type"`
}

func (m betTableModel) toDomain() bet.Bet {
	return bet.Bet{
		ID:         m.ID,
		UserID:     m.UserID,
		WeekID:     m.WeekID,
		GameID:     m.GameID,
		Prediction: m.Prediction,
		IsCorrect:  m.IsCorrect,
		Type:       m.BetType,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
