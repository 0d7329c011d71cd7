package jobqueue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/platform/logging"
)

func TestQStashPublisher_Enqueue(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://api.laquiniela247.mx",
		Retries:          3,
		InternalJobToken: "job-secret",
	}, logging.NewNop())

	err := publisher.Enqueue(context.Background(), "/internal/jobs/lifecycle-sweep", map[string]any{"source": "scheduler"}, 30*time.Second, "sweep-2026-10")
	if err != nil {
		t.Fatalf("Enqueue error: %v", err)
	}

	if captured == nil {
		t.Fatal("expected a publish request")
	}
	if !strings.HasSuffix(captured.URL.Path, "/v2/publish/https://api.laquiniela247.mx/internal/jobs/lifecycle-sweep") {
		t.Fatalf("unexpected publish path: %s", captured.URL.Path)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer qstash-token" {
		t.Fatalf("unexpected authorization header: %s", got)
	}
	if got := captured.Header.Get("Upstash-Delay"); got != "30s" {
		t.Fatalf("unexpected delay header: %s", got)
	}
	if got := captured.Header.Get("Upstash-Deduplication-Id"); got != "sweep-2026-10" {
		t.Fatalf("unexpected deduplication header: %s", got)
	}
	if got := captured.Header.Get("Upstash-Forward-X-Internal-Job-Token"); got != "job-secret" {
		t.Fatalf("unexpected forwarded job token: %s", got)
	}
}

func TestQStashPublisher_Enqueue_RejectsEmptyPath(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "https://qstash.upstash.io",
		TargetBaseURL: "https://api.laquiniela247.mx",
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "  ", nil, 0, ""); err == nil {
		t.Fatal("expected an error for an empty job path")
	}
}

func TestQStashPublisher_Enqueue_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "queue unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       srv.URL,
		TargetBaseURL: "https://api.laquiniela247.mx",
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "/internal/jobs/lifecycle-sweep", nil, 0, ""); err == nil {
		t.Fatal("expected an error for a non-2xx publish response")
	}
}
