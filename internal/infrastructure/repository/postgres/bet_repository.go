package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/bet"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/ledger"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/querybuilder"
)

type BetRepository struct {
	db *sqlx.DB
}

func NewBetRepository(db *sqlx.DB) *BetRepository {
	return &BetRepository{db: db}
}

func (r *BetRepository) GetByID(ctx context.Context, betID string) (bet.Bet, bool, error) {
	query, args, err := querybuilder.Select("*").From("bets").
		Where(querybuilder.Eq("id", betID)).
		ToSQL()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("build get bet query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bet.Bet{}, false, nil
		}
		return bet.Bet{}, false, fmt.Errorf("get bet id=%s: %w", betID, err)
	}
	return row.toDomain(), true, nil
}

func (r *BetRepository) GetByUserAndGame(ctx context.Context, userID, gameID string) (bet.Bet, bool, error) {
	query, args, err := querybuilder.Select("*").From("bets").
		Where(
			querybuilder.Eq("user_id", userID),
			querybuilder.Eq("game_id", gameID),
		).
		ToSQL()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("build get bet by user and game query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return bet.Bet{}, false, nil
		}
		return bet.Bet{}, false, fmt.Errorf("get bet user=%s game=%s: %w", userID, gameID, err)
	}
	return row.toDomain(), true, nil
}

func (r *BetRepository) ListByGame(ctx context.Context, gameID string) ([]bet.Bet, error) {
	return r.list(ctx, querybuilder.Eq("game_id", gameID))
}

func (r *BetRepository) ListByWeek(ctx context.Context, weekID string) ([]bet.Bet, error) {
	return r.list(ctx, querybuilder.Eq("week_id", weekID))
}

func (r *BetRepository) ListByUserAndWeek(ctx context.Context, userID, weekID string) ([]bet.Bet, error) {
	return r.list(ctx,
		querybuilder.Eq("user_id", userID),
		querybuilder.Eq("week_id", weekID),
	)
}

func (r *BetRepository) list(ctx context.Context, conditions ...querybuilder.Condition) ([]bet.Bet, error) {
	query, args, err := querybuilder.Select("*").From("bets").
		Where(conditions...).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list bets query: %w", err)
	}

	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// PlaceWithEntryFee inserts the bet and its fee in one transaction. The
// insert carries ON CONFLICT DO NOTHING so a concurrent placement for the
// same (user, game) loses the race cleanly; the loser is folded into a
// prediction update and records no second fee.
func (r *BetRepository) PlaceWithEntryFee(ctx context.Context, item bet.Bet, fee ledger.Transaction) (bet.Bet, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("begin tx place bet: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertModel := betInsertModel{
		ID:         item.ID,
		UserID:     item.UserID,
		WeekID:     item.WeekID,
		GameID:     item.GameID,
		Prediction: item.Prediction,
		BetType:    item.Type,
	}
	query, args, err := querybuilder.InsertModel("bets", insertModel, "ON CONFLICT (user_id, game_id) DO NOTHING")
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("build insert bet query: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("insert bet user=%s game=%s: %w", item.UserID, item.GameID, err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("insert bet rows affected: %w", err)
	}

	if inserted == 0 {
		out, err := foldBetIntoUpdate(ctx, tx, item)
		if err != nil {
			return bet.Bet{}, false, err
		}
		if err := tx.Commit(); err != nil {
			return bet.Bet{}, false, fmt.Errorf("commit place bet tx: %w", err)
		}
		return out, false, nil
	}

	if err := insertTransactionTx(ctx, tx, fee); err != nil {
		return bet.Bet{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return bet.Bet{}, false, fmt.Errorf("commit place bet tx: %w", err)
	}
	return item, true, nil
}

// PlaceParlayWithEntryFee upserts every row of the parlay and records one
// fee for the whole set inside a single transaction.
func (r *BetRepository) PlaceParlayWithEntryFee(ctx context.Context, items []bet.Bet, fee ledger.Transaction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx place parlay: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := betInsertModel{
			ID:         item.ID,
			UserID:     item.UserID,
			WeekID:     item.WeekID,
			GameID:     item.GameID,
			Prediction: item.Prediction,
			BetType:    item.Type,
		}
		query, args, err := querybuilder.InsertModel("bets", insertModel, `ON CONFLICT (user_id, game_id)
DO UPDATE SET
    prediction = EXCLUDED.prediction,
    bet_type = EXCLUDED.bet_type,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert parlay bet query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert parlay bet user=%s game=%s: %w", item.UserID, item.GameID, err)
		}
	}

	if err := insertTransactionTx(ctx, tx, fee); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit place parlay tx: %w", err)
	}
	return nil
}

func (r *BetRepository) Delete(ctx context.Context, betID string) error {
	query, args, err := querybuilder.DeleteFrom("bets").
		Where(querybuilder.Eq("id", betID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete bet query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete bet id=%s: %w", betID, err)
	}
	return nil
}

// foldBetIntoUpdate handles the losing branch of the create race: the row
// already exists, so the new prediction replaces the stored one and the
// existing row identity is kept.
func foldBetIntoUpdate(ctx context.Context, tx *sqlx.Tx, item bet.Bet) (bet.Bet, error) {
	selectQuery, selectArgs, err := querybuilder.Select("*").From("bets").
		Where(
			querybuilder.Eq("user_id", item.UserID),
			querybuilder.Eq("game_id", item.GameID),
		).
		ToSQL()
	if err != nil {
		return bet.Bet{}, fmt.Errorf("build select existing bet query: %w", err)
	}

	var existing betTableModel
	if err := tx.GetContext(ctx, &existing, selectQuery, selectArgs...); err != nil {
		return bet.Bet{}, fmt.Errorf("select existing bet user=%s game=%s: %w", item.UserID, item.GameID, err)
	}

	updateQuery, updateArgs, err := querybuilder.Update("bets").
		Set("prediction", item.Prediction).
		SetExpr("updated_at", "NOW()").
		Where(querybuilder.Eq("id", existing.ID)).
		ToSQL()
	if err != nil {
		return bet.Bet{}, fmt.Errorf("build update bet prediction query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
		return bet.Bet{}, fmt.Errorf("update bet prediction id=%s: %w", existing.ID, err)
	}

	out := existing.toDomain()
	out.Prediction = item.Prediction
	return out, nil
}
