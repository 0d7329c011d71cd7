package identity

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/user"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/logging"
	"github.com/cards10e/laquiniela247-sub000/internal/platform/resilience"
	"github.com/cards10e/laquiniela247-sub000/internal/usecase"
)

// errTransient marks failures where the identity service itself misbehaved.
// Only these count against the circuit breaker; a clean "no, that token is
// bad" answer is a healthy dependency.
var errTransient = errors.New("identity service transient failure")

const maxVerifyResponseBytes = 1 << 20

// Client verifies bearer tokens against the identity service. Verified
// principals are cached by token hash so hot sessions do not hammer the
// verifier on every request.
type Client struct {
	httpClient *http.Client
	verifyURL  string
	cache      *principalCache
	breaker    *resilience.CircuitBreaker
	logger     *logging.Logger
}

func NewClient(httpClient *http.Client, baseURL, verifyPath string, cacheTTL time.Duration, cacheMaxEntries int, breaker *resilience.CircuitBreaker, logger *logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		httpClient: httpClient,
		verifyURL:  buildURL(baseURL, verifyPath),
		cache:      newPrincipalCache(cacheTTL, cacheMaxEntries),
		breaker:    breaker,
		logger:     logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.Get(cacheKey); ok {
		return principal, nil
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return user.Principal{}, fmt.Errorf("%w: identity verification rejected by circuit breaker", usecase.ErrDependencyUnavailable)
		}
	}

	principal, err := c.verify(ctx, token)
	if c.breaker != nil {
		if errors.Is(err, errTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		if errors.Is(err, errTransient) {
			c.logger.WarnContext(ctx, "identity verification transient failure", "error", err)
			return user.Principal{}, fmt.Errorf("%w: identity verification failed", usecase.ErrDependencyUnavailable)
		}
		return user.Principal{}, err
	}

	c.cache.Set(cacheKey, principal)
	return principal, nil
}

func (c *Client) verify(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(verifyRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: request token verification: %v", errTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: verification denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVerifyResponseBytes))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: read verify response: %v", errTransient, err)
	}
	if resp.StatusCode != http.StatusOK {
		return user.Principal{}, fmt.Errorf("%w: verification status %d", errTransient, resp.StatusCode)
	}

	var decoded verifyResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("%w: unmarshal verify response: %v", errTransient, err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("%w: verify response has empty user_id", errTransient)
	}

	role := strings.ToUpper(strings.TrimSpace(decoded.Role))
	if role == "" {
		role = user.RolePlayer
	}

	return user.Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
		Role:   role,
	}, nil
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
