package httpapi

import (
	"net/http"
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/usecase"
)

type createWeekRequest struct {
	WeekNumber      int       `json:"week_number" validate:"required,gt=0"`
	Season          string    `json:"season" validate:"required"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" validate:"required"`
	BettingDeadline time.Time `json:"betting_deadline" validate:"required"`
	Status          string    `json:"status" validate:"omitempty,oneof=UPCOMING OPEN CLOSED FINISHED"`
}

type updateWeekStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=UPCOMING OPEN CLOSED FINISHED"`
}

type createGameRequest struct {
	Season     string    `json:"season" validate:"required"`
	WeekNumber int       `json:"week_number" validate:"required,gt=0"`
	HomeTeamID string    `json:"home_team_id" validate:"required"`
	AwayTeamID string    `json:"away_team_id" validate:"required"`
	MatchDate  time.Time `json:"match_date" validate:"required"`
}

type setGameResultRequest struct {
	HomeScore int `json:"home_score" validate:"gte=0"`
	AwayScore int `json:"away_score" validate:"gte=0"`
}

func (h *Handler) CreateWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateWeek")
	defer span.End()

	var req createWeekRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.weekService.CreateWeek(ctx, usecase.CreateWeekInput{
		Number:          req.WeekNumber,
		Season:          req.Season,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		BettingDeadline: req.BettingDeadline,
		Status:          req.Status,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create week failed", "season", req.Season, "week_number", req.WeekNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, weekToDTO(created))
}

func (h *Handler) UpdateWeekStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateWeekStatus")
	defer span.End()

	season, weekNumber, err := seasonAndWeekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateWeekStatusRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.weekService.UpdateWeekStatus(ctx, season, weekNumber, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "update week status failed",
			"season", season,
			"week_number", weekNumber,
			"status", req.Status,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weekToDTO(updated))
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req createGameRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.gameService.CreateGame(ctx, usecase.CreateGameInput{
		Season:     req.Season,
		WeekNumber: req.WeekNumber,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		MatchDate:  req.MatchDate,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "season", req.Season, "week_number", req.WeekNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(created, false))
}

func (h *Handler) SetGameResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetGameResult")
	defer span.End()

	gameID := r.PathValue("gameID")

	var req setGameResultRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.gameService.SetGameResult(ctx, usecase.SetGameResultInput{
		GameID:    gameID,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set game result failed",
			"game_id", gameID,
			"home_score", req.HomeScore,
			"away_score", req.AwayScore,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(updated, false))
}

func (h *Handler) SettleWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SettleWeek")
	defer span.End()

	season, weekNumber, err := seasonAndWeekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.settlementService.SettleWeek(ctx, season, weekNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "settle week failed", "season", season, "week_number", weekNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
