package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/id"
)

const (
	// Implicit week bounds when a game is created for a week that does not
	// exist yet. The deadline lands two hours before kickoff.
	implicitWeekLead     = 24 * time.Hour
	implicitWeekTrail    = 24 * time.Hour
	implicitWeekDeadline = 2 * time.Hour
)

type CreateGameInput struct {
	Season     string
	WeekNumber int
	HomeTeamID string
	AwayTeamID string
	MatchDate  time.Time
}

type SetGameResultInput struct {
	GameID    string
	HomeScore int
	AwayScore int
}

// gameSettler grades bets and refreshes aggregates after a final result.
type gameSettler interface {
	SettleGame(ctx context.Context, item game.Game) error
}

type GameService struct {
	gameRepo game.Repository
	weekRepo week.Repository
	settler  gameSettler
	idGen    id.Generator
	now      func() time.Time
}

func NewGameService(gameRepo game.Repository, weekRepo week.Repository, idGen id.Generator) *GameService {
	return &GameService{
		gameRepo: gameRepo,
		weekRepo: weekRepo,
		idGen:    idGen,
		now:      time.Now,
	}
}

// SetSettler breaks the construction cycle between game and settlement
// services; wiring happens once at startup.
func (s *GameService) SetSettler(settler gameSettler) {
	s.settler = settler
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetGame")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game_id is required", ErrInvalidInput)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game by id: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	item.Status = item.AutoStatus(s.now())
	return item, nil
}

// ListWeekGames returns the week's games with their display status derived
// from the clock, without persisting the derived value.
func (s *GameService) ListWeekGames(ctx context.Context, season string, weekNumber int) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListWeekGames")
	defer span.End()

	season = strings.TrimSpace(season)
	if season == "" || weekNumber < 1 {
		return nil, fmt.Errorf("%w: season and week_number are required", ErrInvalidInput)
	}

	if _, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, weekNumber, season); err != nil {
		return nil, fmt.Errorf("get week by number and season: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: week=%d season=%s", ErrNotFound, weekNumber, season)
	}

	items, err := s.gameRepo.ListByWeek(ctx, weekNumber, season)
	if err != nil {
		return nil, fmt.Errorf("list games by week: %w", err)
	}

	now := s.now()
	for i := range items {
		items[i].Status = items[i].AutoStatus(now)
	}

	return items, nil
}

func (s *GameService) CreateGame(ctx context.Context, input CreateGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.CreateGame")
	defer span.End()

	input.Season = strings.TrimSpace(input.Season)
	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)

	if input.Season == "" {
		return game.Game{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if input.WeekNumber < 1 {
		return game.Game{}, fmt.Errorf("%w: week_number must be greater than zero", ErrInvalidInput)
	}
	if input.HomeTeamID == "" || input.AwayTeamID == "" {
		return game.Game{}, fmt.Errorf("%w: home_team_id and away_team_id are required", ErrInvalidInput)
	}
	if input.HomeTeamID == input.AwayTeamID {
		return game.Game{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}
	if input.MatchDate.IsZero() {
		return game.Game{}, fmt.Errorf("%w: match_date is required", ErrInvalidInput)
	}

	if err := s.ensureWeek(ctx, input.WeekNumber, input.Season, input.MatchDate); err != nil {
		return game.Game{}, err
	}

	gameID, err := s.idGen.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game id: %w", err)
	}

	now := s.now().UTC()
	item := game.Game{
		ID:         gameID,
		WeekNumber: input.WeekNumber,
		Season:     input.Season,
		HomeTeamID: input.HomeTeamID,
		AwayTeamID: input.AwayTeamID,
		MatchDate:  input.MatchDate.UTC(),
		Status:     game.StatusScheduled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.gameRepo.Create(ctx, item); err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}

	return item, nil
}

// SetGameResult records the final score and immediately settles the game.
// Reposting an identical score is a no-op; posting a different score over an
// existing result is rejected because bets may already be graded against it.
func (s *GameService) SetGameResult(ctx context.Context, input SetGameResultInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.SetGameResult")
	defer span.End()

	input.GameID = strings.TrimSpace(input.GameID)
	if input.GameID == "" {
		return game.Game{}, fmt.Errorf("%w: game_id is required", ErrInvalidInput)
	}
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return game.Game{}, fmt.Errorf("%w: scores cannot be negative", ErrInvalidInput)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game by id: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, input.GameID)
	}

	if item.HasResult() {
		if *item.HomeScore == input.HomeScore && *item.AwayScore == input.AwayScore {
			return item, nil
		}
		return game.Game{}, fmt.Errorf("%w: game=%s already has a different result", ErrConflict, input.GameID)
	}

	result := game.ResultFromScores(input.HomeScore, input.AwayScore)
	if err := s.gameRepo.SetResult(ctx, item.ID, input.HomeScore, input.AwayScore, result); err != nil {
		return game.Game{}, fmt.Errorf("set game result: %w", err)
	}

	homeScore, awayScore := input.HomeScore, input.AwayScore
	item.HomeScore = &homeScore
	item.AwayScore = &awayScore
	item.Result = &result
	item.Status = game.StatusFinished
	item.UpdatedAt = s.now().UTC()

	if s.settler != nil {
		if err := s.settler.SettleGame(ctx, item); err != nil {
			return game.Game{}, fmt.Errorf("settle game after result: %w", err)
		}
	}

	return item, nil
}

func (s *GameService) ensureWeek(ctx context.Context, weekNumber int, season string, matchDate time.Time) error {
	_, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, weekNumber, season)
	if err != nil {
		return fmt.Errorf("get week by number and season: %w", err)
	}
	if exists {
		return nil
	}

	weekID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate week id: %w", err)
	}

	now := s.now().UTC()
	item := week.Week{
		ID:              weekID,
		Number:          weekNumber,
		Season:          season,
		StartDate:       matchDate.Add(-implicitWeekLead).UTC(),
		EndDate:         matchDate.Add(implicitWeekTrail).UTC(),
		BettingDeadline: matchDate.Add(-implicitWeekDeadline).UTC(),
		Status:          week.StatusUpcoming,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.weekRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("create implicit week: %w", err)
	}

	return nil
}
