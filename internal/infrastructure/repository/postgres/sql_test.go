package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get bet: %w", sql.ErrNoRows)) {
		t.Fatal("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(errors.New("pq: relation bets does not exist")) {
		t.Fatal("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches unique violation code", func(t *testing.T) {
		err := &pq.Error{Code: pqUniqueViolation, Message: "duplicate key value violates unique constraint \"bets_user_game_key\""}
		if !isUniqueViolation(err) {
			t.Fatal("expected true for 23505")
		}
	})

	t.Run("matches wrapped unique violation", func(t *testing.T) {
		err := fmt.Errorf("insert bet: %w", &pq.Error{Code: pqUniqueViolation})
		if !isUniqueViolation(err) {
			t.Fatal("expected true for wrapped 23505")
		}
	})

	t.Run("ignores other pq codes", func(t *testing.T) {
		err := &pq.Error{Code: "23503", Message: "foreign key violation"}
		if isUniqueViolation(err) {
			t.Fatal("expected false for non-unique violation")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isUniqueViolation(errors.New("pq: relation bets does not exist")) {
			t.Fatal("expected false for unrelated error")
		}
	})
}
