package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/performance"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/querybuilder"
)

type PerformanceRepository struct {
	db *sqlx.DB
}

func NewPerformanceRepository(db *sqlx.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

func (r *PerformanceRepository) GetByUserAndWeek(ctx context.Context, userID, weekID string) (performance.Performance, bool, error) {
	query, args, err := querybuilder.Select("*").From("user_performance").
		Where(
			querybuilder.Eq("user_id", userID),
			querybuilder.Eq("week_id", weekID),
		).
		ToSQL()
	if err != nil {
		return performance.Performance{}, false, fmt.Errorf("build get performance query: %w", err)
	}

	var row performanceTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return performance.Performance{}, false, nil
		}
		return performance.Performance{}, false, fmt.Errorf("get performance user=%s week=%s: %w", userID, weekID, err)
	}
	return row.toDomain(), true, nil
}

func (r *PerformanceRepository) ListByWeek(ctx context.Context, weekID string) ([]performance.Performance, error) {
	query, args, err := querybuilder.Select("*").From("user_performance").
		Where(querybuilder.Eq("week_id", weekID)).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list week performance query: %w", err)
	}

	var rows []performanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list performance week=%s: %w", weekID, err)
	}

	out := make([]performance.Performance, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PerformanceRepository) UpdateRankings(ctx context.Context, weekID string, rows []performance.Performance) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update rankings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, row := range rows {
		query, args, err := querybuilder.Update("user_performance").
			Set("ranking_position", row.RankingPosition).
			Set("percentile", row.Percentile).
			SetExpr("updated_at", "NOW()").
			Where(
				querybuilder.Eq("user_id", row.UserID),
				querybuilder.Eq("week_id", weekID),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update ranking query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update ranking user=%s week=%s: %w", row.UserID, weekID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update rankings tx: %w", err)
	}
	return nil
}

// upsertPerformanceTx writes the counters refreshed by a settlement pass.
// Ranking columns are deliberately left alone: positions and percentiles
// belong to the leaderboard pass and must survive counter updates.
func upsertPerformanceTx(ctx context.Context, tx *sqlx.Tx, item performance.Performance) error {
	insertModel := performanceInsertModel{
		UserID:             item.UserID,
		WeekID:             item.WeekID,
		TotalPredictions:   item.TotalPredictions,
		CorrectPredictions: item.CorrectPredictions,
		Percentage:         item.Percentage,
		Status:             item.Status,
	}
	query, args, err := querybuilder.InsertModel("user_performance", insertModel, `ON CONFLICT (user_id, week_id)
DO UPDATE SET
    total_predictions = EXCLUDED.total_predictions,
    correct_predictions = EXCLUDED.correct_predictions,
    percentage = EXCLUDED.percentage,
    status = EXCLUDED.status,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert performance query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert performance user=%s week=%s: %w", item.UserID, item.WeekID, err)
	}
	return nil
}
