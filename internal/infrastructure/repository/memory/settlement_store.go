package memory

import (
	"context"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/performance"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/settlement"
)

// SettlementStore applies a game settlement against the in-memory bet and
// performance repositories. Grading is write-once per bet, matching the
// IS NULL guard of the database version.
type SettlementStore struct {
	bets  *BetRepository
	perfs *PerformanceRepository
}

func NewSettlementStore(bets *BetRepository, perfs *PerformanceRepository) *SettlementStore {
	return &SettlementStore{bets: bets, perfs: perfs}
}

func (s *SettlementStore) ApplyGameSettlement(_ context.Context, _ string, grades []settlement.Grade, aggregates []performance.Performance) error {
	for _, grade := range grades {
		s.bets.gradeIfUngraded(grade.BetID, grade.IsCorrect)
	}
	for _, aggregate := range aggregates {
		s.perfs.applyAggregate(aggregate)
	}
	return nil
}
