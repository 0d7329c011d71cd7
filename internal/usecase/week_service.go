package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/id"
)

type CreateWeekInput struct {
	Number          int
	Season          string
	StartDate       time.Time
	EndDate         time.Time
	BettingDeadline time.Time
	Status          string
}

type WeekService struct {
	weekRepo week.Repository
	idGen    id.Generator
	now      func() time.Time
}

func NewWeekService(weekRepo week.Repository, idGen id.Generator) *WeekService {
	return &WeekService{
		weekRepo: weekRepo,
		idGen:    idGen,
		now:      time.Now,
	}
}

func (s *WeekService) GetWeek(ctx context.Context, season string, weekNumber int) (week.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.GetWeek")
	defer span.End()

	season = strings.TrimSpace(season)
	if season == "" || weekNumber < 1 {
		return week.Week{}, fmt.Errorf("%w: season and week_number are required", ErrInvalidInput)
	}

	item, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, weekNumber, season)
	if err != nil {
		return week.Week{}, fmt.Errorf("get week by number and season: %w", err)
	}
	if !exists {
		return week.Week{}, fmt.Errorf("%w: week=%d season=%s", ErrNotFound, weekNumber, season)
	}

	return item, nil
}

func (s *WeekService) ListSeasonWeeks(ctx context.Context, season string) ([]week.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.ListSeasonWeeks")
	defer span.End()

	season = strings.TrimSpace(season)
	if season == "" {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}

	items, err := s.weekRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list weeks by season: %w", err)
	}

	return items, nil
}

// ListOpenWeeks answers "which weeks accept wagers right now". Open weeks are
// a query over status, never a single mutable pointer, so several weeks may
// be open at once.
func (s *WeekService) ListOpenWeeks(ctx context.Context) ([]week.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.ListOpenWeeks")
	defer span.End()

	items, err := s.weekRepo.ListByStatus(ctx, week.StatusOpen)
	if err != nil {
		return nil, fmt.Errorf("list weeks by status: %w", err)
	}

	return items, nil
}

func (s *WeekService) CreateWeek(ctx context.Context, input CreateWeekInput) (week.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.CreateWeek")
	defer span.End()

	input.Season = strings.TrimSpace(input.Season)
	input.Status = week.NormalizeStatus(input.Status)

	if input.Season == "" {
		return week.Week{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if input.Number < 1 {
		return week.Week{}, fmt.Errorf("%w: week_number must be greater than zero", ErrInvalidInput)
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() || input.BettingDeadline.IsZero() {
		return week.Week{}, fmt.Errorf("%w: start_date, end_date and betting_deadline are required", ErrInvalidInput)
	}
	if !input.EndDate.After(input.StartDate) {
		return week.Week{}, fmt.Errorf("%w: end_date must be after start_date", ErrInvalidInput)
	}
	if input.BettingDeadline.After(input.EndDate) {
		return week.Week{}, fmt.Errorf("%w: betting_deadline must not be after end_date", ErrInvalidInput)
	}
	if input.Status == "" {
		input.Status = week.StatusUpcoming
	}
	if !week.IsValidStatus(input.Status) {
		return week.Week{}, fmt.Errorf("%w: unknown week status %s", ErrInvalidInput, input.Status)
	}

	if _, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, input.Number, input.Season); err != nil {
		return week.Week{}, fmt.Errorf("check week existence: %w", err)
	} else if exists {
		return week.Week{}, fmt.Errorf("%w: week=%d season=%s already exists", ErrConflict, input.Number, input.Season)
	}

	weekID, err := s.idGen.NewID()
	if err != nil {
		return week.Week{}, fmt.Errorf("generate week id: %w", err)
	}

	now := s.now().UTC()
	item := week.Week{
		ID:              weekID,
		Number:          input.Number,
		Season:          input.Season,
		StartDate:       input.StartDate.UTC(),
		EndDate:         input.EndDate.UTC(),
		BettingDeadline: input.BettingDeadline.UTC(),
		Status:          input.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.weekRepo.Create(ctx, item); err != nil {
		return week.Week{}, fmt.Errorf("create week: %w", err)
	}

	return item, nil
}

// UpdateWeekStatus is the operator lever for opening and closing betting.
// Status never changes on its own; the deadline gate is enforced separately
// at wager time.
func (s *WeekService) UpdateWeekStatus(ctx context.Context, season string, weekNumber int, status string) (week.Week, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.UpdateWeekStatus")
	defer span.End()

	status = week.NormalizeStatus(status)
	if !week.IsValidStatus(status) {
		return week.Week{}, fmt.Errorf("%w: unknown week status %s", ErrInvalidInput, status)
	}

	item, err := s.GetWeek(ctx, season, weekNumber)
	if err != nil {
		return week.Week{}, err
	}

	if item.Status == week.StatusFinished && status != week.StatusFinished {
		return week.Week{}, fmt.Errorf("%w: finished week cannot be reopened", ErrInvalidState)
	}
	if item.Status == status {
		return item, nil
	}

	if err := s.weekRepo.UpdateStatus(ctx, item.ID, status); err != nil {
		return week.Week{}, fmt.Errorf("update week status: %w", err)
	}

	item.Status = status
	item.UpdatedAt = s.now().UTC()
	return item, nil
}
