package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/review/model"
	"github.com/konkursant/portal/pkg/retry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testRetry() retry.Config {
	cfg := retry.HTTPConfig()
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	return cfg
}

func newClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	client, err := New(Config{
		BaseURL: srv.URL + "/",
		UserID:  5,
		Timeout: 2 * time.Second,
		Retry:   testRetry(),
	}, srv.Client(), zap.NewNop().Sugar())
	require.NoError(t, err)
	return client
}

const projectFeed = `{"reviews": [
	{"project_id": 10, "reviewer_id": 5, "project_title": "Школьный технопарк", "author_name": "Иванов Иван",
	 "schema_version": "current", "team_experience": 8, "budget_realism": "6", "feedback": "ok", "status": "finalized"},
	{"project_id": 10, "reviewer_id": 6, "team_experience": null}
]}`

func TestClient_FetchReviewsForProject(t *testing.T) {
	var gotPath, gotUser, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser = r.Header.Get("X-User-ID")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(projectFeed))
	}))
	defer srv.Close()

	records, err := newClient(t, srv).FetchReviewsForProject(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, "/reviews/10", gotPath)
	assert.Equal(t, "5", gotUser)
	assert.NotEmpty(t, gotRequestID)

	require.Len(t, records, 2)
	assert.Equal(t, "Школьный технопарк", records[0].ProjectTitle)
	assert.Equal(t, model.SchemaCurrent, records[0].SchemaVersion)
	assert.Equal(t, model.NewScore(6), records[0].Scores[model.KeyBudgetRealism])
	assert.False(t, records[1].Scores[model.KeyTeamExperience].Valid)
}

func TestClient_FetchAllVerifiedReviews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reviews/verified_projects", r.URL.Path)
		_, _ = w.Write([]byte(`{"reviews": null}`))
	}))
	defer srv.Close()

	records, err := newClient(t, srv).FetchAllVerifiedReviews(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(projectFeed))
	}))
	defer srv.Close()

	records, err := newClient(t, srv).FetchReviewsForProject(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newClient(t, srv).FetchAllVerifiedReviews(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"FORBIDDEN","message":"access to reviews denied"}}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv).FetchReviewsForProject(context.Background(), 10)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "FORBIDDEN", apiErr.Code)
	assert.Equal(t, "access to reviews denied", apiErr.Message)
	assert.Contains(t, err.Error(), "fetch /reviews/10")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_MalformedBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv).FetchReviewsForProject(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode reviews")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newClient(t, srv).FetchReviewsForProject(ctx, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{BaseURL: "http://portal.local", UserID: 1, Timeout: time.Second, Retry: retry.HTTPConfig()}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base URL", func(c *Config) { c.BaseURL = "" }},
		{"unsupported scheme", func(c *Config) { c.BaseURL = "ftp://portal.local" }},
		{"no host", func(c *Config) { c.BaseURL = "http://" }},
		{"zero user", func(c *Config) { c.UserID = 0 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"no attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())

			_, err := New(cfg, nil, zap.NewNop().Sugar())
			assert.Error(t, err)
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "portal API returned 500", (&APIError{StatusCode: 500}).Error())
	assert.Equal(t, "portal API returned 404 NOT_FOUND: project not found",
		(&APIError{StatusCode: 404, Code: "NOT_FOUND", Message: "project not found"}).Error())
}
