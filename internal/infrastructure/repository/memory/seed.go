package memory

import (
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/user"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
)

const (
	SeedSeason     = "2026"
	SeedWeekID     = "week_demo_10"
	SeedWeekNumber = 10
)

// SeedWeeks returns one open round anchored a day ahead of process start so
// demo wagers are accepted out of the box.
func SeedWeeks(now time.Time) []week.Week {
	deadline := now.Add(24 * time.Hour)
	return []week.Week{
		{
			ID:              SeedWeekID,
			Number:          SeedWeekNumber,
			Season:          SeedSeason,
			StartDate:       deadline.Add(-24 * time.Hour),
			EndDate:         deadline.Add(72 * time.Hour),
			BettingDeadline: deadline,
			Status:          week.StatusOpen,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}
}

func SeedGames(now time.Time) []game.Game {
	kickoff := now.Add(26 * time.Hour)
	return []game.Game{
		{ID: "game_demo_01", WeekNumber: SeedWeekNumber, Season: SeedSeason, HomeTeamID: "mx-america", AwayTeamID: "mx-chivas", MatchDate: kickoff, Status: game.StatusScheduled, CreatedAt: now, UpdatedAt: now},
		{ID: "game_demo_02", WeekNumber: SeedWeekNumber, Season: SeedSeason, HomeTeamID: "mx-cruzazul", AwayTeamID: "mx-pumas", MatchDate: kickoff.Add(2 * time.Hour), Status: game.StatusScheduled, CreatedAt: now, UpdatedAt: now},
		{ID: "game_demo_03", WeekNumber: SeedWeekNumber, Season: SeedSeason, HomeTeamID: "mx-tigres", AwayTeamID: "mx-monterrey", MatchDate: kickoff.Add(4 * time.Hour), Status: game.StatusScheduled, CreatedAt: now, UpdatedAt: now},
		{ID: "game_demo_04", WeekNumber: SeedWeekNumber, Season: SeedSeason, HomeTeamID: "mx-toluca", AwayTeamID: "mx-leon", MatchDate: kickoff.Add(6 * time.Hour), Status: game.StatusScheduled, CreatedAt: now, UpdatedAt: now},
	}
}

func SeedUsers(now time.Time) []user.User {
	return []user.User{
		{ID: "user_demo_01", Email: "demo@laquiniela247.mx", Name: "Demo Player", CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "user_demo_02", Email: "ana@laquiniela247.mx", Name: "Ana", CreatedAt: now.Add(-36 * time.Hour)},
		{ID: "user_demo_03", Email: "luis@laquiniela247.mx", Name: "Luis", CreatedAt: now.Add(-24 * time.Hour)},
	}
}
