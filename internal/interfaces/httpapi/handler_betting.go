package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/bet"
	"github.com/cards10e/laquiniela247-sub000/internal/domain/ledger"
	"github.com/cards10e/laquiniela247-sub000/internal/usecase"
)

type placeSingleBetRequest struct {
	GameID     string `json:"game_id" validate:"required"`
	Prediction string `json:"prediction" validate:"required,oneof=HOME DRAW AWAY home draw away"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
}

type placeParlayRequest struct {
	Season     string            `json:"season" validate:"required"`
	WeekNumber int               `json:"week_number" validate:"required,gt=0"`
	Amount     int64             `json:"amount" validate:"required,gt=0"`
	Picks      map[string]string `json:"picks" validate:"required,min=1"`
}

func (h *Handler) PlaceSingleBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceSingleBet")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var req placeSingleBetRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	placed, created, err := h.bettingService.PlaceSingleBet(ctx, principal.UserID, usecase.PlaceSingleBetInput{
		GameID:     req.GameID,
		Prediction: strings.ToUpper(strings.TrimSpace(req.Prediction)),
		Amount:     req.Amount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "place single bet failed", "user_id", principal.UserID, "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, betToDTO(placed))
}

func (h *Handler) PlaceParlay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceParlay")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var req placeParlayRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	predictions := make(map[string]string, len(req.Picks))
	for gameID, prediction := range req.Picks {
		predictions[gameID] = strings.ToUpper(strings.TrimSpace(prediction))
	}

	placed, err := h.bettingService.PlaceParlay(ctx, principal.UserID, usecase.PlaceParlayInput{
		Season:      req.Season,
		WeekNumber:  req.WeekNumber,
		Predictions: predictions,
		Amount:      req.Amount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "place parlay failed",
			"user_id", principal.UserID,
			"season", req.Season,
			"week_number", req.WeekNumber,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	items := make([]betDTO, 0, len(placed))
	for _, b := range placed {
		items = append(items, betToDTO(b))
	}
	writeSuccess(ctx, w, http.StatusCreated, items)
}

func (h *Handler) CancelBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelBet")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	betID := r.PathValue("betID")
	if err := h.bettingService.CancelBet(ctx, principal.UserID, betID); err != nil {
		h.logger.WarnContext(ctx, "cancel bet failed", "user_id", principal.UserID, "bet_id", betID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) ListMyBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyBets")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	season, weekNumber, err := seasonAndWeekFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	bets, err := h.bettingService.ListMyBets(ctx, principal.UserID, season, weekNumber)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]betDTO, 0, len(bets))
	for _, b := range bets {
		items = append(items, betToDTO(b))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMyTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTransactions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	season, weekNumber, err := seasonAndWeekFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	transactions, err := h.bettingService.ListMyTransactions(ctx, principal.UserID, season, weekNumber)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]transactionDTO, 0, len(transactions))
	for _, txn := range transactions {
		items = append(items, transactionToDTO(txn))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func decodeJSONBody(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func seasonAndWeekFromQuery(r *http.Request) (string, int, error) {
	season := strings.TrimSpace(r.URL.Query().Get("season"))
	if season == "" {
		return "", 0, fmt.Errorf("%w: season query parameter is required", usecase.ErrInvalidInput)
	}

	rawWeek := strings.TrimSpace(r.URL.Query().Get("week"))
	weekNumber, err := strconv.Atoi(rawWeek)
	if err != nil || weekNumber < 1 {
		return "", 0, fmt.Errorf("%w: week query parameter %q is not a positive integer", usecase.ErrInvalidInput, rawWeek)
	}

	return season, weekNumber, nil
}

type betDTO struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	WeekID     string    `json:"week_id"`
	Prediction string    `json:"prediction"`
	IsCorrect  *bool     `json:"is_correct,omitempty"`
	BetType    string    `json:"bet_type"`
	CreatedAt  time.Time `json:"created_at"`
}

func betToDTO(b bet.Bet) betDTO {
	return betDTO{
		ID:         b.ID,
		GameID:     b.GameID,
		WeekID:     b.WeekID,
		Prediction: b.Prediction,
		IsCorrect:  b.IsCorrect,
		BetType:    b.Type,
		CreatedAt:  b.CreatedAt,
	}
}

type transactionDTO struct {
	ID        string    `json:"id"`
	WeekID    string    `json:"week_id"`
	Type      string    `json:"transaction_type"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func transactionToDTO(txn ledger.Transaction) transactionDTO {
	return transactionDTO{
		ID:        txn.ID,
		WeekID:    txn.WeekID,
		Type:      txn.Type,
		Amount:    txn.Amount,
		Status:    txn.Status,
		CreatedAt: txn.CreatedAt,
	}
}
