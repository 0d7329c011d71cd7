package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := querybuilder.Select("*").From("games").
		Where(querybuilder.Eq("id", gameID)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game id=%s: %w", gameID, err)
	}
	return row.toDomain(), true, nil
}

func (r *GameRepository) ListByWeek(ctx context.Context, weekNumber int, season string) ([]game.Game, error) {
	query, args, err := querybuilder.Select("*").From("games").
		Where(
			querybuilder.Eq("week_number", weekNumber),
			querybuilder.Eq("season", season),
		).
		OrderBy("match_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list week games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games week=%d season=%s: %w", weekNumber, season, err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameRepository) Create(ctx context.Context, item game.Game) error {
	insertModel := gameInsertModel{
		ID:         item.ID,
		WeekNumber: item.WeekNumber,
		Season:     item.Season,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		MatchDate:  item.MatchDate,
		Status:     item.Status,
	}
	query, args, err := querybuilder.InsertModel("games", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert game id=%s: %w", item.ID, err)
	}
	return nil
}

func (r *GameRepository) SetResult(ctx context.Context, gameID string, homeScore, awayScore int, result string) error {
	query, args, err := querybuilder.Update("games").
		Set("home_score", homeScore).
		Set("away_score", awayScore).
		Set("result", result).
		Set("status", game.StatusFinished).
		SetExpr("updated_at", "NOW()").
		Where(querybuilder.Eq("id", gameID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set game result query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set game result id=%s: %w", gameID, err)
	}
	return nil
}

func (r *GameRepository) UpdateStatus(ctx context.Context, gameID, status string) error {
	query, args, err := querybuilder.Update("games").
		Set("status", status).
		SetExpr("updated_at", "NOW()").
		Where(querybuilder.Eq("id", gameID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game status query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update game id=%s status=%s: %w", gameID, status, err)
	}
	return nil
}
