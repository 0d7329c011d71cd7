package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/cards10e/laquiniela247-sub000/internal/usecase"
)

type lifecycleSweepRequest struct {
	MaxWorkers int `json:"max_workers" validate:"omitempty,gte=1,lte=16"`
}

// RunLifecycleSweepJob is the queued entry point for the clock-driven game
// lifecycle sweep, which also re-settles finished games that still hold
// ungraded bets. Deliveries arrive through the job queue with the internal
// job token; an empty body runs the sweep with default concurrency.
func (h *Handler) RunLifecycleSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLifecycleSweepJob")
	defer span.End()

	if h.sweepService == nil {
		writeError(ctx, w, fmt.Errorf("%w: sweep service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeLifecycleSweepRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.sweepService.Sweep(ctx, req.MaxWorkers)
	if err != nil {
		h.logger.WarnContext(ctx, "lifecycle sweep job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func decodeLifecycleSweepRequest(r *http.Request) (lifecycleSweepRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req lifecycleSweepRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return lifecycleSweepRequest{}, nil
		}
		return lifecycleSweepRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
