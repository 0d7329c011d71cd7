package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/bet"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/ledger"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/performance"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/settlement"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/user"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
)

type seqIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	prefix := g.prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, g.next), nil
}

type stubWeekRepository struct {
	mu    sync.Mutex
	weeks map[string]week.Week
}

func newStubWeekRepository(items ...week.Week) *stubWeekRepository {
	repo := &stubWeekRepository{weeks: make(map[string]week.Week)}
	for _, item := range items {
		repo.weeks[item.ID] = item
	}
	return repo
}

func (r *stubWeekRepository) GetByNumberAndSeason(_ context.Context, weekNumber int, season string) (week.Week, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.weeks {
		if item.Number == weekNumber && item.Season == season {
			return item, true, nil
		}
	}
	return week.Week{}, false, nil
}

func (r *stubWeekRepository) GetByID(_ context.Context, weekID string) (week.Week, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.weeks[weekID]
	return item, ok, nil
}

func (r *stubWeekRepository) ListBySeason(_ context.Context, season string) ([]week.Week, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]week.Week, 0)
	for _, item := range r.weeks {
		if item.Season == season {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *stubWeekRepository) ListByStatus(_ context.Context, status string) ([]week.Week, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]week.Week, 0)
	for _, item := range r.weeks {
		if item.Status == status {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubWeekRepository) Create(_ context.Context, item week.Week) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.weeks[item.ID] = item
	return nil
}

func (r *stubWeekRepository) UpdateStatus(_ context.Context, weekID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.weeks[weekID]
	if !ok {
		return fmt.Errorf("week %s not found", weekID)
	}
	item.Status = status
	r.weeks[weekID] = item
	return nil
}

type stubGameRepository struct {
	mu    sync.Mutex
	games map[string]game.Game
}

func newStubGameRepository(items ...game.Game) *stubGameRepository {
	repo := &stubGameRepository{games: make(map[string]game.Game)}
	for _, item := range items {
		repo.games[item.ID] = item
	}
	return repo
}

func (r *stubGameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.games[gameID]
	return item, ok, nil
}

func (r *stubGameRepository) ListByWeek(_ context.Context, weekNumber int, season string) ([]game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]game.Game, 0)
	for _, item := range r.games {
		if item.WeekNumber == weekNumber && item.Season == season {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubGameRepository) Create(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[item.ID] = item
	return nil
}

func (r *stubGameRepository) SetResult(_ context.Context, gameID string, homeScore, awayScore int, result string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.games[gameID]
	if !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	item.HomeScore = &homeScore
	item.AwayScore = &awayScore
	item.Result = &result
	item.Status = game.StatusFinished
	r.games[gameID] = item
	return nil
}

func (r *stubGameRepository) UpdateStatus(_ context.Context, gameID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.games[gameID]
	if !ok {
		return fmt.Errorf("game %s not found", gameID)
	}
	item.Status = status
	r.games[gameID] = item
	return nil
}

type stubBetRepository struct {
	mu   sync.Mutex
	bets map[string]bet.Bet
	fees []ledger.Transaction
}

func newStubBetRepository(items ...bet.Bet) *stubBetRepository {
	repo := &stubBetRepository{bets: make(map[string]bet.Bet)}
	for _, item := range items {
		repo.bets[item.ID] = item
	}
	return repo
}

func (r *stubBetRepository) GetByID(_ context.Context, betID string) (bet.Bet, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.bets[betID]
	return item, ok, nil
}

func (r *stubBetRepository) GetByUserAndGame(_ context.Context, userID, gameID string) (bet.Bet, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findByUserAndGame(userID, gameID)
}

func (r *stubBetRepository) findByUserAndGame(userID, gameID string) (bet.Bet, bool, error) {
	for _, item := range r.bets {
		if item.UserID == userID && item.GameID == gameID {
			return item, true, nil
		}
	}
	return bet.Bet{}, false, nil
}

func (r *stubBetRepository) ListByGame(_ context.Context, gameID string) ([]bet.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bet.Bet, 0)
	for _, item := range r.bets {
		if item.GameID == gameID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubBetRepository) ListByWeek(_ context.Context, weekID string) ([]bet.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bet.Bet, 0)
	for _, item := range r.bets {
		if item.WeekID == weekID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubBetRepository) ListByUserAndWeek(_ context.Context, userID, weekID string) ([]bet.Bet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]bet.Bet, 0)
	for _, item := range r.bets {
		if item.UserID == userID && item.WeekID == weekID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubBetRepository) PlaceWithEntryFee(_ context.Context, item bet.Bet, fee ledger.Transaction) (bet.Bet, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok, _ := r.findByUserAndGame(item.UserID, item.GameID)
	if ok {
		existing.Prediction = item.Prediction
		existing.UpdatedAt = item.UpdatedAt
		r.bets[existing.ID] = existing
		return existing, false, nil
	}

	r.bets[item.ID] = item
	r.fees = append(r.fees, fee)
	return item, true, nil
}

func (r *stubBetRepository) PlaceParlayWithEntryFee(_ context.Context, items []bet.Bet, fee ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if existing, ok, _ := r.findByUserAndGame(item.UserID, item.GameID); ok {
			existing.Prediction = item.Prediction
			existing.Type = item.Type
			existing.UpdatedAt = item.UpdatedAt
			r.bets[existing.ID] = existing
			continue
		}
		r.bets[item.ID] = item
	}
	r.fees = append(r.fees, fee)
	return nil
}

func (r *stubBetRepository) Delete(_ context.Context, betID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bets, betID)
	return nil
}

func (r *stubBetRepository) grade(betID string, correct bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.bets[betID]
	if !ok {
		return
	}
	item.IsCorrect = &correct
	r.bets[betID] = item
}

type stubLedgerRepository struct {
	mu           sync.Mutex
	transactions []ledger.Transaction
}

func (r *stubLedgerRepository) Create(_ context.Context, item ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, item)
	return nil
}

func (r *stubLedgerRepository) ListByUserAndWeek(_ context.Context, userID, weekID string) ([]ledger.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ledger.Transaction, 0)
	for _, item := range r.transactions {
		if item.UserID == userID && item.WeekID == weekID {
			out = append(out, item)
		}
	}
	return out, nil
}

type stubPerformanceRepository struct {
	mu   sync.Mutex
	rows map[string]performance.Performance
}

func newStubPerformanceRepository(items ...performance.Performance) *stubPerformanceRepository {
	repo := &stubPerformanceRepository{rows: make(map[string]performance.Performance)}
	for _, item := range items {
		repo.rows[item.UserID+"/"+item.WeekID] = item
	}
	return repo
}

func (r *stubPerformanceRepository) GetByUserAndWeek(_ context.Context, userID, weekID string) (performance.Performance, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.rows[userID+"/"+weekID]
	return item, ok, nil
}

func (r *stubPerformanceRepository) ListByWeek(_ context.Context, weekID string) ([]performance.Performance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]performance.Performance, 0)
	for _, item := range r.rows {
		if item.WeekID == weekID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *stubPerformanceRepository) UpdateRankings(_ context.Context, weekID string, rows []performance.Performance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		key := row.UserID + "/" + weekID
		existing, ok := r.rows[key]
		if !ok {
			continue
		}
		existing.RankingPosition = row.RankingPosition
		existing.Percentile = row.Percentile
		r.rows[key] = existing
	}
	return nil
}

func (r *stubPerformanceRepository) upsert(rows []performance.Performance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		key := row.UserID + "/" + row.WeekID
		if existing, ok := r.rows[key]; ok {
			existing.TotalPredictions = row.TotalPredictions
			existing.CorrectPredictions = row.CorrectPredictions
			existing.Percentage = row.Percentage
			existing.Status = row.Status
			existing.UpdatedAt = row.UpdatedAt
			r.rows[key] = existing
			continue
		}
		r.rows[key] = row
	}
}

type stubUserRepository struct {
	users map[string]user.User
}

func newStubUserRepository(items ...user.User) *stubUserRepository {
	repo := &stubUserRepository{users: make(map[string]user.User)}
	for _, item := range items {
		repo.users[item.ID] = item
	}
	return repo
}

func (r *stubUserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	item, ok := r.users[userID]
	return item, ok, nil
}

func (r *stubUserRepository) GetByIDs(_ context.Context, userIDs []string) ([]user.User, error) {
	out := make([]user.User, 0, len(userIDs))
	for _, id := range userIDs {
		if item, ok := r.users[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// stubSettlementStore applies grades and aggregates against the stub repos,
// mirroring the write-once grading rule of the real store.
type stubSettlementStore struct {
	bets  *stubBetRepository
	perfs *stubPerformanceRepository

	mu     sync.Mutex
	applied []string
}

func (s *stubSettlementStore) ApplyGameSettlement(_ context.Context, gameID string, grades []settlement.Grade, aggregates []performance.Performance) error {
	s.mu.Lock()
	s.applied = append(s.applied, gameID)
	s.mu.Unlock()

	for _, grade := range grades {
		s.bets.mu.Lock()
		item, ok := s.bets.bets[grade.BetID]
		alreadyGraded := ok && item.IsCorrect != nil
		s.bets.mu.Unlock()
		if !ok || alreadyGraded {
			continue
		}
		s.bets.grade(grade.BetID, grade.IsCorrect)
	}
	s.perfs.upsert(aggregates)
	return nil
}
