package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cards10e/laquiniela247-sub000/internal/usecase"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	season, weekNumber, err := seasonAndWeekFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	limit, err := limitFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.leaderboardService.GetLeaderboard(ctx, season, weekNumber, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "season", season, "week_number", weekNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entries)
}

func limitFromQuery(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("%w: limit %q is not a positive integer", usecase.ErrInvalidInput, raw)
	}
	return limit, nil
}
