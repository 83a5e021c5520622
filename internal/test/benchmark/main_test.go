package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// liveConfig points the load tests at a running server
type liveConfig struct {
	BaseURL     string
	Email       string
	Password    string
	Concurrency int
	Requests    int
}

func loadLiveConfig() (liveConfig, bool) {
	cfg := liveConfig{
		BaseURL:     os.Getenv("BENCH_BASE_URL"),
		Email:       envOr("BENCH_EMAIL", "demo@rentapp.com"),
		Password:    envOr("BENCH_PASSWORD", "password123"),
		Concurrency: envIntOr("BENCH_CONCURRENCY", 10),
		Requests:    envIntOr("BENCH_REQUESTS", 100),
	}
	return cfg, cfg.BaseURL != ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

// login signs in against the live server and returns the access token
func login(cfg liveConfig) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": cfg.Email, "password": cfg.Password})
	resp, err := http.Post(cfg.BaseURL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("login response has no access token")
	}
	return out.AccessToken, nil
}

func TestLiveEndpoints(t *testing.T) {
	cfg, ok := loadLiveConfig()
	if !ok {
		t.Skip("BENCH_BASE_URL not set")
	}

	token, err := login(cfg)
	require.NoError(t, err, "run `rentapp seed` against the target first")

	paths := []string{
		"/properties",
		"/tenants",
		"/leases?status=active",
		"/payments?status=pending",
		"/payments/summary",
		"/dashboard/stats",
		"/dashboard/recent-activity",
		"/dashboard/financial-summary",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			b := NewAPIBenchmark(cfg.BaseURL, cfg.Concurrency, cfg.Requests, token)
			result := b.RunGET(context.Background(), path)
			t.Log(result.Report())
			assert.Zero(t, result.FailureCount, "success rate %.2f%%", result.SuccessRate())
		})
	}
}

func TestRunAgainstStubServer(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&hits, 1)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		if n%10 == 0 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b := NewAPIBenchmark(srv.URL, 4, 50, "token")
	result := b.RunGET(context.Background(), "/ping")

	assert.EqualValues(t, 50, atomic.LoadInt64(&hits))
	assert.Equal(t, 50, result.TotalRequests)
	assert.Equal(t, 45, result.SuccessCount)
	assert.Equal(t, 5, result.FailureCount)
	assert.Equal(t, map[int]int{200: 45, 429: 5}, result.StatusCodes)
	assert.InDelta(t, 90.0, result.SuccessRate(), 0.001)
	assert.Contains(t, result.Report(), "status 429: 5")
}

func TestRunPOSTEncodesPayload(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	result := NewAPIBenchmark(srv.URL, 1, 1, "").RunPOST(context.Background(), "/payments/record", map[string]interface{}{"amount": 1500})
	assert.Equal(t, 1, result.SuccessCount)
	assert.EqualValues(t, 1500, got["amount"])

	bad := NewAPIBenchmark(srv.URL, 1, 1, "").RunPOST(context.Background(), "/x", func() {})
	require.Len(t, bad.Errors, 1)
	assert.Contains(t, bad.Errors[0], "encode payload")
}

func TestSummarize(t *testing.T) {
	results := []RequestResult{
		{Duration: 30 * time.Millisecond, StatusCode: 200},
		{Duration: 10 * time.Millisecond, StatusCode: 201},
		{Duration: 20 * time.Millisecond, StatusCode: 404},
		{Error: errors.New("connection refused")},
	}

	res := summarize(results, 2*time.Second)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, 2, res.FailureCount)
	assert.Equal(t, 10*time.Millisecond, res.MinTime)
	assert.Equal(t, 30*time.Millisecond, res.MaxTime)
	assert.Equal(t, 20*time.Millisecond, res.AverageTime)
	assert.Equal(t, 30*time.Millisecond, res.P95Time)
	assert.InDelta(t, 2.0, res.RequestsPerSec, 0.001)
	assert.Equal(t, []string{"connection refused"}, res.Errors)

	empty := summarize(nil, 0)
	assert.Zero(t, empty.MinTime)
	assert.Zero(t, empty.RequestsPerSec)
}
