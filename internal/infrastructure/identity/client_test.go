package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/user"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/logging"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/resilience"
	"github.com/cards10e/laquiniela247-sub000/internal/usecase"
)

func verifyHandler(t *testing.T, response map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}

		var req map[string]string
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if req["token"] == "" {
			t.Fatal("expected a token in the request body")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(response)
	}
}

func TestClientVerifyAccessToken_ParsesPrincipal(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(verifyHandler(t, map[string]any{
		"active":  true,
		"user_id": "user-123",
		"email":   "ana@laquiniela247.mx",
		"role":    "admin",
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "/v1/auth/verify", time.Minute, 16, nil, logging.NewNop())

	principal, err := client.VerifyAccessToken(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if principal.UserID != "user-123" || principal.Email != "ana@laquiniela247.mx" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if principal.Role != user.RoleAdmin {
		t.Fatalf("expected normalized ADMIN role, got %s", principal.Role)
	}
}

func TestClientVerifyAccessToken_DefaultsRoleToPlayer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(verifyHandler(t, map[string]any{
		"active":  true,
		"user_id": "user-123",
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "/v1/auth/verify", time.Minute, 16, nil, logging.NewNop())

	principal, err := client.VerifyAccessToken(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if principal.Role != user.RolePlayer {
		t.Fatalf("expected PLAYER default, got %s", principal.Role)
	}
}

func TestClientVerifyAccessToken_InactiveToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(verifyHandler(t, map[string]any{
		"active": false,
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "/v1/auth/verify", time.Minute, 16, nil, logging.NewNop())

	if _, err := client.VerifyAccessToken(context.Background(), "token-abc"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestClientVerifyAccessToken_EmptyToken(t *testing.T) {
	t.Parallel()

	client := NewClient(nil, "http://identity.invalid", "/v1/auth/verify", time.Minute, 16, nil, logging.NewNop())

	if _, err := client.VerifyAccessToken(context.Background(), "  "); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestClientVerifyAccessToken_DeniedResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "/v1/auth/verify", time.Minute, 16, nil, logging.NewNop())

	if _, err := client.VerifyAccessToken(context.Background(), "token-abc"); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestClientVerifyAccessToken_CachesVerifiedPrincipal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]any{
			"active":  true,
			"user_id": "user-123",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "/v1/auth/verify", time.Minute, 16, nil, logging.NewNop())

	for i := 0; i < 3; i++ {
		if _, err := client.VerifyAccessToken(context.Background(), "token-abc"); err != nil {
			t.Fatalf("verify token failed: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single upstream call, got %d", got)
	}
}

func TestClientVerifyAccessToken_BreakerOpensOnTransientFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	breaker := resilience.NewCircuitBreaker(2, time.Minute, 1)
	client := NewClient(srv.Client(), srv.URL, "/v1/auth/verify", time.Minute, 16, breaker, logging.NewNop())

	for i := 0; i < 2; i++ {
		if _, err := client.VerifyAccessToken(context.Background(), "token-abc"); !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("expected dependency unavailable, got %v", err)
		}
	}
	if breaker.State() != resilience.CircuitStateOpen {
		t.Fatalf("expected open breaker, got %s", breaker.State())
	}

	// With the breaker open the client must fail fast without a request.
	if _, err := client.VerifyAccessToken(context.Background(), "token-other"); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected fail-fast rejection, got %v", err)
	}
}
