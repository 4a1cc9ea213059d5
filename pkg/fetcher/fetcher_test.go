package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config FetcherConfig
	}{
		{
			name:   "Default Configuration",
			config: FetcherConfig{},
		},
		{
			name: "Custom Configuration",
			config: FetcherConfig{
				RequestsPerSecond: 5,
				Burst:             3,
				Timeout:           10 * time.Second,
				MaxRetries:        3,
				InitialBackoff:    2 * time.Second,
				MaxBackoff:        60 * time.Second,
				UserAgent:         "test-agent",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.config)
			if f.client == nil {
				t.Error("HTTP client is nil")
			}
			if f.limiter == nil {
				t.Error("Rate limiter is nil")
			}
			if f.config.UserAgent == "" {
				t.Error("User agent is empty")
			}
			if f.config.MaxBodyBytes <= 0 {
				t.Error("MaxBodyBytes not defaulted")
			}
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	f := New(FetcherConfig{
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
	})

	tests := []struct {
		name        string
		attempt     int
		minExpected time.Duration
		maxExpected time.Duration
	}{
		{
			name:        "First Attempt",
			attempt:     0,
			minExpected: 800 * time.Millisecond,
			maxExpected: 1200 * time.Millisecond,
		},
		{
			name:        "Second Attempt",
			attempt:     1,
			minExpected: 1600 * time.Millisecond,
			maxExpected: 2400 * time.Millisecond,
		},
		{
			name:        "Max Backoff",
			attempt:     10,
			minExpected: 24 * time.Second,
			maxExpected: 36 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Run multiple times to account for randomness
			for i := 0; i < 10; i++ {
				backoff := f.calculateBackoff(tt.attempt)
				if backoff < tt.minExpected || backoff > tt.maxExpected {
					t.Errorf("Expected backoff between %v and %v, got %v",
						tt.minExpected, tt.maxExpected, backoff)
				}
			}
		})
	}
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name          string
		statusCodes   []int
		responseBody  string
		expectedError bool
		wantRequests  int32
	}{
		{
			name:         "Successful Request",
			statusCodes:  []int{http.StatusOK},
			responseBody: "<p>Hello, World!</p>",
			wantRequests: 1,
		},
		{
			name:         "Rate Limited Then Success",
			statusCodes:  []int{http.StatusTooManyRequests, http.StatusOK},
			responseBody: "Success after retry",
			wantRequests: 2,
		},
		{
			name:          "All Requests Fail",
			statusCodes:   []int{http.StatusInternalServerError, http.StatusInternalServerError},
			expectedError: true,
			wantRequests:  2,
		},
		{
			name:          "Not Found Is Not Retried",
			statusCodes:   []int{http.StatusNotFound},
			expectedError: true,
			wantRequests:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ua := r.Header.Get("User-Agent"); ua == "" {
					t.Error("User-Agent header not set")
				}
				n := atomic.AddInt32(&requests, 1) - 1
				if int(n) >= len(tt.statusCodes) {
					n = int32(len(tt.statusCodes) - 1)
				}
				w.WriteHeader(tt.statusCodes[n])
				if tt.statusCodes[n] == http.StatusOK {
					io.WriteString(w, tt.responseBody)
				}
			}))
			defer server.Close()

			f := New(FetcherConfig{
				MaxRetries:     1,
				InitialBackoff: 10 * time.Millisecond,
			})
			body, err := f.Fetch(context.Background(), server.URL)

			if tt.expectedError {
				if err == nil {
					t.Error("Expected error but got none")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if string(body) != tt.responseBody {
					t.Errorf("Expected body %q, got %q", tt.responseBody, string(body))
				}
			}
			if got := atomic.LoadInt32(&requests); got != tt.wantRequests {
				t.Errorf("Expected %d requests, got %d", tt.wantRequests, got)
			}
		})
	}
}

func TestFetchLimitsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "0123456789")
	}))
	defer server.Close()

	f := New(FetcherConfig{MaxBodyBytes: 4})
	body, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(body) != "0123" {
		t.Errorf("Expected truncated body %q, got %q", "0123", string(body))
	}
}

func TestFetchWithContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		io.WriteString(w, "Delayed response")
	}))
	defer server.Close()

	f := New(FetcherConfig{InitialBackoff: 10 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, server.URL)
	if err != context.DeadlineExceeded {
		t.Errorf("Expected context deadline exceeded error, got: %v", err)
	}
}
