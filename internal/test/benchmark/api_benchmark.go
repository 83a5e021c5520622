// Package benchmark fires concurrent requests at a running API and reports
// latency and status distribution.
package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// APIBenchmark drives one endpoint at a time
type APIBenchmark struct {
	BaseURL     string
	Concurrency int
	Requests    int
	AuthToken   string
	Client      *http.Client
}

// BenchmarkResult summarises one run
type BenchmarkResult struct {
	URL            string        `json:"url"`
	Method         string        `json:"method"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"totalRequests"`
	SuccessCount   int           `json:"successCount"`
	FailureCount   int           `json:"failureCount"`
	TotalTime      time.Duration `json:"totalTime"`
	AverageTime    time.Duration `json:"averageTime"`
	MinTime        time.Duration `json:"minTime"`
	MaxTime        time.Duration `json:"maxTime"`
	P95Time        time.Duration `json:"p95Time"`
	RequestsPerSec float64       `json:"requestsPerSec"`
	StatusCodes    map[int]int   `json:"statusCodes"`
	Errors         []string      `json:"errors"`
}

// RequestResult is the outcome of a single request
type RequestResult struct {
	Duration   time.Duration
	StatusCode int
	Error      error
}

func NewAPIBenchmark(baseURL string, concurrency, requests int, authToken string) *APIBenchmark {
	return &APIBenchmark{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		AuthToken:   authToken,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (b *APIBenchmark) RunGET(ctx context.Context, path string) *BenchmarkResult {
	return b.runTest(ctx, http.MethodGet, b.BaseURL+path, nil)
}

func (b *APIBenchmark) RunPOST(ctx context.Context, path string, payload interface{}) *BenchmarkResult {
	return b.runJSON(ctx, http.MethodPost, path, payload)
}

func (b *APIBenchmark) RunPATCH(ctx context.Context, path string, payload interface{}) *BenchmarkResult {
	return b.runJSON(ctx, http.MethodPatch, path, payload)
}

func (b *APIBenchmark) RunDELETE(ctx context.Context, path string) *BenchmarkResult {
	return b.runTest(ctx, http.MethodDelete, b.BaseURL+path, nil)
}

func (b *APIBenchmark) runJSON(ctx context.Context, method, path string, payload interface{}) *BenchmarkResult {
	url := b.BaseURL + path
	body, err := json.Marshal(payload)
	if err != nil {
		return &BenchmarkResult{
			URL:    url,
			Method: method,
			Errors: []string{fmt.Sprintf("encode payload: %v", err)},
		}
	}
	return b.runTest(ctx, method, url, body)
}

func (b *APIBenchmark) do(ctx context.Context, method, url string, payload []byte) RequestResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return RequestResult{Error: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if b.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+b.AuthToken)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return RequestResult{Error: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return RequestResult{
		Duration:   time.Since(start),
		StatusCode: resp.StatusCode,
	}
}

func (b *APIBenchmark) runTest(ctx context.Context, method, url string, payload []byte) *BenchmarkResult {
	var (
		mu      sync.Mutex
		results = make([]RequestResult, 0, b.Requests)
	)

	g := new(errgroup.Group)
	if b.Concurrency > 0 {
		g.SetLimit(b.Concurrency)
	}

	startTime := time.Now()
	for i := 0; i < b.Requests; i++ {
		g.Go(func() error {
			r := b.do(ctx, method, url, payload)
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	res := summarize(results, time.Since(startTime))
	res.URL = url
	res.Method = method
	res.Concurrency = b.Concurrency
	res.TotalRequests = b.Requests
	return res
}

// summarize folds request outcomes into a result; only 2xx counts as success
func summarize(results []RequestResult, elapsed time.Duration) *BenchmarkResult {
	res := &BenchmarkResult{
		TotalTime:   elapsed,
		StatusCodes: make(map[int]int),
	}

	var durations []time.Duration
	var total time.Duration
	for _, r := range results {
		if r.Error != nil {
			res.FailureCount++
			res.Errors = append(res.Errors, r.Error.Error())
			continue
		}

		durations = append(durations, r.Duration)
		total += r.Duration
		res.StatusCodes[r.StatusCode]++
		if r.StatusCode >= 200 && r.StatusCode < 300 {
			res.SuccessCount++
		} else {
			res.FailureCount++
		}
	}

	if len(durations) > 0 {
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		res.MinTime = durations[0]
		res.MaxTime = durations[len(durations)-1]
		res.AverageTime = total / time.Duration(len(durations))
		res.P95Time = durations[(len(durations)*95-1)/100]
	}
	if elapsed > 0 {
		res.RequestsPerSec = float64(len(results)) / elapsed.Seconds()
	}
	return res
}

// Report renders the result as a short human-readable block
func (r *BenchmarkResult) Report() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s\n", r.Method, r.URL)
	fmt.Fprintf(&buf, "  concurrency=%d requests=%d ok=%d failed=%d\n", r.Concurrency, r.TotalRequests, r.SuccessCount, r.FailureCount)
	fmt.Fprintf(&buf, "  total=%v avg=%v min=%v max=%v p95=%v rps=%.2f\n", r.TotalTime, r.AverageTime, r.MinTime, r.MaxTime, r.P95Time, r.RequestsPerSec)

	codes := make([]int, 0, len(r.StatusCodes))
	for c := range r.StatusCodes {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	for _, c := range codes {
		fmt.Fprintf(&buf, "  status %d: %d\n", c, r.StatusCodes[c])
	}
	if len(r.Errors) > 0 {
		fmt.Fprintf(&buf, "  first error: %s\n", r.Errors[0])
	}
	return buf.String()
}

// SuccessRate is the share of 2xx responses in percent
func (r *BenchmarkResult) SuccessRate() float64 {
	if r.TotalRequests == 0 {
		return 0
	}
	return float64(r.SuccessCount) / float64(r.TotalRequests) * 100
}
