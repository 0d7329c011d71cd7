package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/bet"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/ledger"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/id"
)

type PlaceSingleBetInput struct {
	GameID     string
	Prediction string
	Amount     int64
}

type PlaceParlayInput struct {
	Season     string
	WeekNumber int
	// Predictions maps game id to predicted outcome and must cover exactly
	// the full set of games in the week.
	Predictions map[string]string
	Amount      int64
}

type BettingService struct {
	betRepo    bet.Repository
	gameRepo   game.Repository
	weekRepo   week.Repository
	ledgerRepo ledger.Repository
	betIDs     id.Generator
	txIDs      id.Generator
	minAmount  int64
	maxAmount  int64
	now        func() time.Time
}

func NewBettingService(
	betRepo bet.Repository,
	gameRepo game.Repository,
	weekRepo week.Repository,
	ledgerRepo ledger.Repository,
	betIDs id.Generator,
	txIDs id.Generator,
	minAmount int64,
	maxAmount int64,
) *BettingService {
	return &BettingService{
		betRepo:    betRepo,
		gameRepo:   gameRepo,
		weekRepo:   weekRepo,
		ledgerRepo: ledgerRepo,
		betIDs:     betIDs,
		txIDs:      txIDs,
		minAmount:  minAmount,
		maxAmount:  maxAmount,
		now:        time.Now,
	}
}

// PlaceSingleBet accepts or updates one user's prediction for one game. The
// returned flag reports whether a new bet row was created; a repeat pick on
// the same game updates the row in place and charges no second entry fee.
func (s *BettingService) PlaceSingleBet(ctx context.Context, userID string, input PlaceSingleBetInput) (bet.Bet, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.PlaceSingleBet")
	defer span.End()

	userID = strings.TrimSpace(userID)
	input.GameID = strings.TrimSpace(input.GameID)
	input.Prediction = strings.ToUpper(strings.TrimSpace(input.Prediction))

	if userID == "" {
		return bet.Bet{}, false, fmt.Errorf("%w: user_id is required", ErrUnauthorized)
	}
	if input.GameID == "" {
		return bet.Bet{}, false, fmt.Errorf("%w: game_id is required", ErrInvalidInput)
	}
	if !game.IsValidPrediction(input.Prediction) {
		return bet.Bet{}, false, fmt.Errorf("%w: prediction must be HOME, DRAW or AWAY", ErrInvalidInput)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("get game by id: %w", err)
	}
	if !exists {
		return bet.Bet{}, false, fmt.Errorf("%w: game=%s", ErrNotFound, input.GameID)
	}

	wk, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, g.WeekNumber, g.Season)
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("get week by number and season: %w", err)
	}
	if !exists {
		return bet.Bet{}, false, fmt.Errorf("%w: week=%d season=%s", ErrNotFound, g.WeekNumber, g.Season)
	}

	now := s.now()
	if err := s.checkWagerGates(wk, g, now); err != nil {
		return bet.Bet{}, false, err
	}
	if err := s.checkAmount(input.Amount); err != nil {
		return bet.Bet{}, false, err
	}

	betID, err := s.betIDs.NewID()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("generate bet id: %w", err)
	}
	txID, err := s.txIDs.NewID()
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("generate transaction id: %w", err)
	}

	item := bet.Bet{
		ID:         betID,
		UserID:     userID,
		WeekID:     wk.ID,
		GameID:     g.ID,
		Prediction: input.Prediction,
		Type:       bet.TypeSingle,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	fee := ledger.Transaction{
		ID:        txID,
		UserID:    userID,
		WeekID:    wk.ID,
		Type:      ledger.TypeEntryFee,
		Amount:    input.Amount,
		Status:    ledger.StatusCompleted,
		CreatedAt: now.UTC(),
	}

	placed, created, err := s.betRepo.PlaceWithEntryFee(ctx, item, fee)
	if err != nil {
		return bet.Bet{}, false, fmt.Errorf("place bet: %w", err)
	}

	return placed, created, nil
}

// PlaceParlay wagers on every game of a week in one atomic submission. A
// partial set of game ids is rejected outright, and a user who already holds
// bets on all of the week's games cannot submit another parlay over them.
func (s *BettingService) PlaceParlay(ctx context.Context, userID string, input PlaceParlayInput) ([]bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.PlaceParlay")
	defer span.End()

	userID = strings.TrimSpace(userID)
	input.Season = strings.TrimSpace(input.Season)

	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrUnauthorized)
	}
	if input.Season == "" || input.WeekNumber < 1 {
		return nil, fmt.Errorf("%w: season and week_number are required", ErrInvalidInput)
	}
	if len(input.Predictions) == 0 {
		return nil, fmt.Errorf("%w: predictions are required", ErrInvalidInput)
	}

	wk, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, input.WeekNumber, input.Season)
	if err != nil {
		return nil, fmt.Errorf("get week by number and season: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: week=%d season=%s", ErrNotFound, input.WeekNumber, input.Season)
	}

	now := s.now()
	if wk.Status != week.StatusOpen {
		return nil, fmt.Errorf("%w: week=%d is not open for betting", ErrInvalidState, wk.Number)
	}
	if wk.DeadlinePassed(now) {
		return nil, fmt.Errorf("%w: week=%d", ErrDeadlinePassed, wk.Number)
	}

	games, err := s.gameRepo.ListByWeek(ctx, wk.Number, wk.Season)
	if err != nil {
		return nil, fmt.Errorf("list games by week: %w", err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: week=%d has no games", ErrInvalidState, wk.Number)
	}

	// Order-independent set equality between submitted game ids and the
	// week's games. Missing or extra ids both reject.
	if len(input.Predictions) != len(games) {
		return nil, fmt.Errorf("%w: parlay must cover exactly %d games", ErrInvalidInput, len(games))
	}
	for _, g := range games {
		prediction, ok := input.Predictions[g.ID]
		if !ok {
			return nil, fmt.Errorf("%w: parlay is missing game=%s", ErrInvalidInput, g.ID)
		}
		if !game.IsValidPrediction(strings.ToUpper(strings.TrimSpace(prediction))) {
			return nil, fmt.Errorf("%w: prediction for game=%s must be HOME, DRAW or AWAY", ErrInvalidInput, g.ID)
		}
	}

	if err := s.checkAmount(input.Amount); err != nil {
		return nil, err
	}

	existing, err := s.betRepo.ListByUserAndWeek(ctx, userID, wk.ID)
	if err != nil {
		return nil, fmt.Errorf("list user bets for week: %w", err)
	}
	if len(existing) >= len(games) {
		return nil, fmt.Errorf("%w: user already holds bets on every game of week=%d", ErrConflict, wk.Number)
	}

	items := make([]bet.Bet, 0, len(games))
	for _, g := range games {
		betID, err := s.betIDs.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate bet id: %w", err)
		}
		items = append(items, bet.Bet{
			ID:         betID,
			UserID:     userID,
			WeekID:     wk.ID,
			GameID:     g.ID,
			Prediction: strings.ToUpper(strings.TrimSpace(input.Predictions[g.ID])),
			Type:       bet.TypeParlay,
			CreatedAt:  now.UTC(),
			UpdatedAt:  now.UTC(),
		})
	}

	txID, err := s.txIDs.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate transaction id: %w", err)
	}
	fee := ledger.Transaction{
		ID:        txID,
		UserID:    userID,
		WeekID:    wk.ID,
		Type:      ledger.TypeEntryFee,
		Amount:    input.Amount,
		Status:    ledger.StatusCompleted,
		CreatedAt: now.UTC(),
	}

	if err := s.betRepo.PlaceParlayWithEntryFee(ctx, items, fee); err != nil {
		return nil, fmt.Errorf("place parlay: %w", err)
	}

	return items, nil
}

// CancelBet withdraws an ungraded bet while its game is still biddable.
func (s *BettingService) CancelBet(ctx context.Context, userID, betID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.CancelBet")
	defer span.End()

	userID = strings.TrimSpace(userID)
	betID = strings.TrimSpace(betID)
	if userID == "" {
		return fmt.Errorf("%w: user_id is required", ErrUnauthorized)
	}
	if betID == "" {
		return fmt.Errorf("%w: bet_id is required", ErrInvalidInput)
	}

	item, exists, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return fmt.Errorf("get bet by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: bet=%s", ErrNotFound, betID)
	}
	if item.UserID != userID {
		return fmt.Errorf("%w: bet=%s belongs to another user", ErrForbidden, betID)
	}
	if item.Graded() {
		return fmt.Errorf("%w: bet=%s is already graded", ErrInvalidState, betID)
	}

	g, exists, err := s.gameRepo.GetByID(ctx, item.GameID)
	if err != nil {
		return fmt.Errorf("get game by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: game=%s", ErrNotFound, item.GameID)
	}

	wk, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, g.WeekNumber, g.Season)
	if err != nil {
		return fmt.Errorf("get week by number and season: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: week=%d season=%s", ErrNotFound, g.WeekNumber, g.Season)
	}

	if err := s.checkWagerGates(wk, g, s.now()); err != nil {
		return err
	}

	if err := s.betRepo.Delete(ctx, betID); err != nil {
		return fmt.Errorf("delete bet: %w", err)
	}

	return nil
}

func (s *BettingService) ListMyBets(ctx context.Context, userID, season string, weekNumber int) ([]bet.Bet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.ListMyBets")
	defer span.End()

	userID = strings.TrimSpace(userID)
	season = strings.TrimSpace(season)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrUnauthorized)
	}
	if season == "" || weekNumber < 1 {
		return nil, fmt.Errorf("%w: season and week_number are required", ErrInvalidInput)
	}

	wk, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, weekNumber, season)
	if err != nil {
		return nil, fmt.Errorf("get week by number and season: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: week=%d season=%s", ErrNotFound, weekNumber, season)
	}

	items, err := s.betRepo.ListByUserAndWeek(ctx, userID, wk.ID)
	if err != nil {
		return nil, fmt.Errorf("list user bets for week: %w", err)
	}

	return items, nil
}

func (s *BettingService) ListMyTransactions(ctx context.Context, userID, season string, weekNumber int) ([]ledger.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BettingService.ListMyTransactions")
	defer span.End()

	userID = strings.TrimSpace(userID)
	season = strings.TrimSpace(season)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrUnauthorized)
	}
	if season == "" || weekNumber < 1 {
		return nil, fmt.Errorf("%w: season and week_number are required", ErrInvalidInput)
	}

	wk, exists, err := s.weekRepo.GetByNumberAndSeason(ctx, weekNumber, season)
	if err != nil {
		return nil, fmt.Errorf("get week by number and season: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: week=%d season=%s", ErrNotFound, weekNumber, season)
	}

	items, err := s.ledgerRepo.ListByUserAndWeek(ctx, userID, wk.ID)
	if err != nil {
		return nil, fmt.Errorf("list user transactions for week: %w", err)
	}

	return items, nil
}

// checkWagerGates applies the wager preconditions in their fixed order:
// week open, deadline not passed, game not started. Status and deadline are
// independent gates and both must pass.
func (s *BettingService) checkWagerGates(wk week.Week, g game.Game, now time.Time) error {
	if wk.Status != week.StatusOpen {
		return fmt.Errorf("%w: week=%d is not open for betting", ErrInvalidState, wk.Number)
	}
	if wk.DeadlinePassed(now) {
		return fmt.Errorf("%w: week=%d", ErrDeadlinePassed, wk.Number)
	}
	if g.AutoStatus(now) != game.StatusScheduled {
		return fmt.Errorf("%w: game=%s has already started", ErrInvalidState, g.ID)
	}
	return nil
}

func (s *BettingService) checkAmount(amount int64) error {
	if amount < s.minAmount || amount > s.maxAmount {
		return fmt.Errorf("%w: amount must be between %d and %d", ErrInvalidAmount, s.minAmount, s.maxAmount)
	}
	return nil
}
