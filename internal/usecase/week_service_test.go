package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
)

func testWeek(id string, number int, status string, deadline time.Time) week.Week {
	return week.Week{
		ID:              id,
		Number:          number,
		Season:          "2026",
		StartDate:       deadline.Add(-48 * time.Hour),
		EndDate:         deadline.Add(48 * time.Hour),
		BettingDeadline: deadline,
		Status:          status,
	}
}

func TestWeekService_CreateWeek(t *testing.T) {
	t.Parallel()

	repo := newStubWeekRepository()
	service := NewWeekService(repo, &seqIDGenerator{prefix: "week"})

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	created, err := service.CreateWeek(context.Background(), CreateWeekInput{
		Number:          10,
		Season:          "2026",
		StartDate:       start,
		EndDate:         start.Add(6 * 24 * time.Hour),
		BettingDeadline: start.Add(4 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateWeek error: %v", err)
	}
	if created.Status != week.StatusUpcoming {
		t.Fatalf("expected default status UPCOMING, got %s", created.Status)
	}

	_, err = service.CreateWeek(context.Background(), CreateWeekInput{
		Number:          10,
		Season:          "2026",
		StartDate:       start,
		EndDate:         start.Add(6 * 24 * time.Hour),
		BettingDeadline: start.Add(4 * 24 * time.Hour),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for duplicate week, got %v", err)
	}
}

func TestWeekService_CreateWeek_RejectsInvertedDates(t *testing.T) {
	t.Parallel()

	service := NewWeekService(newStubWeekRepository(), &seqIDGenerator{prefix: "week"})

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err := service.CreateWeek(context.Background(), CreateWeekInput{
		Number:          1,
		Season:          "2026",
		StartDate:       start,
		EndDate:         start.Add(-time.Hour),
		BettingDeadline: start,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for inverted dates, got %v", err)
	}
}

func TestWeekService_UpdateWeekStatus(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC)
	repo := newStubWeekRepository(testWeek("w1", 3, week.StatusUpcoming, deadline))
	service := NewWeekService(repo, &seqIDGenerator{prefix: "week"})

	updated, err := service.UpdateWeekStatus(context.Background(), "2026", 3, "open")
	if err != nil {
		t.Fatalf("UpdateWeekStatus error: %v", err)
	}
	if updated.Status != week.StatusOpen {
		t.Fatalf("expected OPEN, got %s", updated.Status)
	}

	if _, err := service.UpdateWeekStatus(context.Background(), "2026", 3, "paused"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown status, got %v", err)
	}

	if _, err := service.UpdateWeekStatus(context.Background(), "2026", 99, week.StatusOpen); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing week, got %v", err)
	}
}

func TestWeekService_UpdateWeekStatus_FinishedIsTerminal(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC)
	repo := newStubWeekRepository(testWeek("w1", 3, week.StatusFinished, deadline))
	service := NewWeekService(repo, &seqIDGenerator{prefix: "week"})

	if _, err := service.UpdateWeekStatus(context.Background(), "2026", 3, week.StatusOpen); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state when reopening finished week, got %v", err)
	}
}

func TestWeekService_ListOpenWeeks(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2026, 3, 6, 18, 0, 0, 0, time.UTC)
	w1 := testWeek("w1", 3, week.StatusOpen, deadline)
	w2 := testWeek("w2", 4, week.StatusOpen, deadline.Add(7*24*time.Hour))
	w3 := testWeek("w3", 2, week.StatusFinished, deadline.Add(-7*24*time.Hour))
	service := NewWeekService(newStubWeekRepository(w1, w2, w3), &seqIDGenerator{prefix: "week"})

	open, err := service.ListOpenWeeks(context.Background())
	if err != nil {
		t.Fatalf("ListOpenWeeks error: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("expected 2 open weeks, got %d", len(open))
	}
}
