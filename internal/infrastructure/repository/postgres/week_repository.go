package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/querybuilder"
)

type WeekRepository struct {
	db *sqlx.DB
}

func NewWeekRepository(db *sqlx.DB) *WeekRepository {
	return &WeekRepository{db: db}
}

func (r *WeekRepository) GetByNumberAndSeason(ctx context.Context, number int, season string) (week.Week, bool, error) {
	query, args, err := querybuilder.Select("*").From("weeks").
		Where(
			querybuilder.Eq("week_number", number),
			querybuilder.Eq("season", season),
		).
		ToSQL()
	if err != nil {
		return week.Week{}, false, fmt.Errorf("build get week query: %w", err)
	}

	var row weekTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return week.Week{}, false, nil
		}
		return week.Week{}, false, fmt.Errorf("get week number=%d season=%s: %w", number, season, err)
	}
	return row.toDomain(), true, nil
}

func (r *WeekRepository) GetByID(ctx context.Context, weekID string) (week.Week, bool, error) {
	query, args, err := querybuilder.Select("*").From("weeks").
		Where(querybuilder.Eq("id", weekID)).
		ToSQL()
	if err != nil {
		return week.Week{}, false, fmt.Errorf("build get week by id query: %w", err)
	}

	var row weekTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return week.Week{}, false, nil
		}
		return week.Week{}, false, fmt.Errorf("get week id=%s: %w", weekID, err)
	}
	return row.toDomain(), true, nil
}

func (r *WeekRepository) ListBySeason(ctx context.Context, season string) ([]week.Week, error) {
	query, args, err := querybuilder.Select("*").From("weeks").
		Where(querybuilder.Eq("season", season)).
		OrderBy("week_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season weeks query: %w", err)
	}

	var rows []weekTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list weeks season=%s: %w", season, err)
	}

	out := make([]week.Week, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *WeekRepository) ListByStatus(ctx context.Context, status string) ([]week.Week, error) {
	query, args, err := querybuilder.Select("*").From("weeks").
		Where(querybuilder.Eq("status", status)).
		OrderBy("season", "week_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list weeks by status query: %w", err)
	}

	var rows []weekTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list weeks status=%s: %w", status, err)
	}

	out := make([]week.Week, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *WeekRepository) Create(ctx context.Context, item week.Week) error {
	insertModel := weekInsertModel{
		ID:              item.ID,
		Number:          item.Number,
		Season:          item.Season,
		StartDate:       item.StartDate,
		EndDate:         item.EndDate,
		BettingDeadline: item.BettingDeadline,
		Status:          item.Status,
	}
	query, args, err := querybuilder.InsertModel("weeks", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert week query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("week number=%d season=%s already exists: %w", item.Number, item.Season, err)
		}
		return fmt.Errorf("insert week number=%d season=%s: %w", item.Number, item.Season, err)
	}
	return nil
}

func (r *WeekRepository) UpdateStatus(ctx context.Context, weekID, status string) error {
	query, args, err := querybuilder.Update("weeks").
		Set("status", status).
		SetExpr("updated_at", "NOW()").
		Where(querybuilder.Eq("id", weekID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update week status query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update week id=%s status=%s: %w", weekID, status, err)
	}
	return nil
}
