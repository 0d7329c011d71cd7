package httpapi

import (
	"net/http"

	"github.com/cards10e/laquiniela247-sub000/internal/platform/logging"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/weeks/open", handler.ListOpenWeeks)
	mux.HandleFunc("GET /v1/seasons/{season}/weeks", handler.ListSeasonWeeks)
	mux.HandleFunc("GET /v1/seasons/{season}/weeks/{weekNumber}", handler.GetWeek)
	mux.HandleFunc("GET /v1/seasons/{season}/weeks/{weekNumber}/games", handler.ListWeekGames)
	mux.HandleFunc("GET /v1/seasons/{season}/weeks/{weekNumber}/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, mirror AccountMirror, logger *logging.Logger) {
	authorized := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, mirror, logger, h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, mirror, logger, RequireAdmin(h))
	}

	mux.Handle("POST /v1/bets", authorized(handler.PlaceSingleBet))
	mux.Handle("POST /v1/bets/parlay", authorized(handler.PlaceParlay))
	mux.Handle("DELETE /v1/bets/{betID}", authorized(handler.CancelBet))
	mux.Handle("GET /v1/bets/me", authorized(handler.ListMyBets))
	mux.Handle("GET /v1/transactions/me", authorized(handler.ListMyTransactions))

	mux.Handle("POST /v1/admin/weeks", admin(handler.CreateWeek))
	mux.Handle("PATCH /v1/admin/seasons/{season}/weeks/{weekNumber}/status", admin(handler.UpdateWeekStatus))
	mux.Handle("POST /v1/admin/games", admin(handler.CreateGame))
	mux.Handle("PUT /v1/admin/games/{gameID}/result", admin(handler.SetGameResult))
	mux.Handle("POST /v1/admin/seasons/{season}/weeks/{weekNumber}/settle", admin(handler.SettleWeek))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/lifecycle-sweep", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLifecycleSweepJob)))
}
