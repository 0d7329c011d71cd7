package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/game"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/week"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/logging"
	"github.com/cards10e/laquiniela247-sub000/internal/usecase"
)

type Handler struct {
	weekService        *usecase.WeekService
	gameService        *usecase.GameService
	bettingService     *usecase.BettingService
	settlementService  *usecase.SettlementService
	leaderboardService *usecase.LeaderboardService
	sweepService       *usecase.SweepService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	weekService *usecase.WeekService,
	gameService *usecase.GameService,
	bettingService *usecase.BettingService,
	settlementService *usecase.SettlementService,
	leaderboardService *usecase.LeaderboardService,
	sweepService *usecase.SweepService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		weekService:        weekService,
		gameService:        gameService,
		bettingService:     bettingService,
		settlementService:  settlementService,
		leaderboardService: leaderboardService,
		sweepService:       sweepService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListOpenWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOpenWeeks")
	defer span.End()

	weeks, err := h.weekService.ListOpenWeeks(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list open weeks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]weekDTO, 0, len(weeks))
	for _, wk := range weeks {
		items = append(items, weekToDTO(wk))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListSeasonWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonWeeks")
	defer span.End()

	season := r.PathValue("season")
	weeks, err := h.weekService.ListSeasonWeeks(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list season weeks failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]weekDTO, 0, len(weeks))
	for _, wk := range weeks {
		items = append(items, weekToDTO(wk))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeek")
	defer span.End()

	season, weekNumber, err := seasonAndWeekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	wk, err := h.weekService.GetWeek(ctx, season, weekNumber)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weekToDTO(wk))
}

func (h *Handler) ListWeekGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWeekGames")
	defer span.End()

	season, weekNumber, err := seasonAndWeekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	wk, err := h.weekService.GetWeek(ctx, season, weekNumber)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	games, err := h.gameService.ListWeekGames(ctx, season, weekNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "list week games failed", "season", season, "week_number", weekNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	now := time.Now()
	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(g, game.CanBet(wk, g, now)))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := r.PathValue("gameID")
	g, err := h.gameService.GetGame(ctx, gameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	canBet := false
	if wk, werr := h.weekService.GetWeek(ctx, g.Season, g.WeekNumber); werr == nil {
		canBet = game.CanBet(wk, g, time.Now())
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(g, canBet))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func seasonAndWeekFromPath(r *http.Request) (string, int, error) {
	season := strings.TrimSpace(r.PathValue("season"))
	if season == "" {
		return "", 0, fmt.Errorf("%w: season is required", usecase.ErrInvalidInput)
	}

	rawWeek := strings.TrimSpace(r.PathValue("weekNumber"))
	weekNumber, err := strconv.Atoi(rawWeek)
	if err != nil || weekNumber < 1 {
		return "", 0, fmt.Errorf("%w: week number %q is not a positive integer", usecase.ErrInvalidInput, rawWeek)
	}

	return season, weekNumber, nil
}

type weekDTO struct {
	ID              string    `json:"id"`
	WeekNumber      int       `json:"week_number"`
	Season          string    `json:"season"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	BettingDeadline time.Time `json:"betting_deadline"`
	Status          string    `json:"status"`
}

func weekToDTO(wk week.Week) weekDTO {
	return weekDTO{
		ID:              wk.ID,
		WeekNumber:      wk.Number,
		Season:          wk.Season,
		StartDate:       wk.StartDate,
		EndDate:         wk.EndDate,
		BettingDeadline: wk.BettingDeadline,
		Status:          wk.Status,
	}
}

type gameDTO struct {
	ID         string    `json:"id"`
	WeekNumber int       `json:"week_number"`
	Season     string    `json:"season"`
	HomeTeamID string    `json:"home_team_id"`
	AwayTeamID string    `json:"away_team_id"`
	MatchDate  time.Time `json:"match_date"`
	Status     string    `json:"status"`
	HomeScore  *int      `json:"home_score,omitempty"`
	AwayScore  *int      `json:"away_score,omitempty"`
	Result     *string   `json:"result,omitempty"`
	CanBet     bool      `json:"can_bet"`
}

func gameToDTO(g game.Game, canBet bool) gameDTO {
	return gameDTO{
		ID:         g.ID,
		WeekNumber: g.WeekNumber,
		Season:     g.Season,
		HomeTeamID: g.HomeTeamID,
		AwayTeamID: g.AwayTeamID,
		MatchDate:  g.MatchDate,
		Status:     g.Status,
		HomeScore:  g.HomeScore,
		AwayScore:  g.AwayScore,
		Result:     g.Result,
		CanBet:     canBet,
	}
}
