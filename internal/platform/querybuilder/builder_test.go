package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "status").
		From("weeks").
		Where(Eq("season", "2026"), Eq("week_number", 3)).
		OrderBy("week_number").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, status FROM weeks WHERE season = $1 AND week_number = $2 ORDER BY week_number LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "2026" || args[1] != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderInCondition(t *testing.T) {
	query, args, err := Select("id").
		From("games").
		Where(In("status", []any{"SCHEDULED", "LIVE"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM games WHERE status IN ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderEmptyInNeverMatches(t *testing.T) {
	query, _, err := Select("id").
		From("games").
		Where(In("status", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM games WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
}

func TestInsertBuilderUpsertSuffix(t *testing.T) {
	query, args, err := InsertInto("bets").
		Columns("id", "prediction").
		Values("b1", "HOME").
		Suffix("ON CONFLICT (user_id, game_id) DO UPDATE SET prediction = EXCLUDED.prediction").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO bets (id, prediction) VALUES ($1, $2) ON CONFLICT (user_id, game_id) DO UPDATE SET prediction = EXCLUDED.prediction"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "b1" || args[1] != "HOME" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("games").
		Set("status", "FINISHED").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "g1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE games SET status = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "FINISHED" || args[1] != "g1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("bets").
		Where(Eq("id", "b1"), Eq("user_id", "u1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM bets WHERE id = $1 AND user_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilderRequiresWhere(t *testing.T) {
	if _, _, err := DeleteFrom("bets").ToSQL(); err == nil {
		t.Fatal("expected error for delete without where clause")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID         string `db:"id"`
		Prediction string `db:"prediction"`
		Skipped    string `db:"-"`
	}

	query, args, err := InsertModel("bets", row{ID: "b1", Prediction: "DRAW"}, "")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO bets (id, prediction) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[1] != "DRAW" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
