// pkg/analyzer/client.go
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/NivBraz/textanalyzer/internal/models"
)

// DefaultBaseURL is the text-analysis backend used when none is configured.
const DefaultBaseURL = "https://0ldr1q08xd.execute-api.eu-north-1.amazonaws.com/"

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	config     ClientConfig
	log        zerolog.Logger
}

type ClientConfig struct {
	BaseURL string
	// Timeout of zero leaves the HTTP stack default (no timeout).
	Timeout   time.Duration
	UserAgent string
	// RequestsPerSecond of zero disables rate limiting.
	RequestsPerSecond float64
	Burst             int
	// SummarySeparator is placed between the count and the word list
	// of a summary.
	SummarySeparator string
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

func New(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	log := zerolog.Nop()
	if config.Logger != nil {
		log = config.Logger.With().Str("component", "analyzer").Logger()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		limiter:    limiter,
		config:     config,
		log:        log,
	}, nil
}

// FetchWordList returns the server's word list joined by ", ".
func (c *Client) FetchWordList(ctx context.Context, text string) (string, error) {
	resp, err := post[models.WordListResponse](ctx, c, models.OpWordList, text)
	if err != nil {
		return "", err
	}
	return resp.Display(), nil
}

// FetchWordCount returns the word count in decimal.
func (c *Client) FetchWordCount(ctx context.Context, text string) (string, error) {
	resp, err := post[models.WordCountResponse](ctx, c, models.OpWordCount, text)
	if err != nil {
		return "", err
	}
	return resp.Display(), nil
}

// FetchSummary returns "Word Count: N" followed by the configured
// separator and "Word List: a, b".
func (c *Client) FetchSummary(ctx context.Context, text string) (string, error) {
	resp, err := post[models.SummaryResponse](ctx, c, models.OpSummary, text)
	if err != nil {
		return "", err
	}
	return resp.Display(c.config.SummarySeparator), nil
}

// FetchStats returns the server's stat lines joined by ", ".
func (c *Client) FetchStats(ctx context.Context, text string) (string, error) {
	resp, err := post[models.StatsResponse](ctx, c, models.OpStats, text)
	if err != nil {
		return "", err
	}
	return resp.Display(), nil
}

// Fetch runs op against text and returns its display string
func (c *Client) Fetch(ctx context.Context, op models.Operation, text string) (string, error) {
	switch op {
	case models.OpWordList:
		return c.FetchWordList(ctx, text)
	case models.OpWordCount:
		return c.FetchWordCount(ctx, text)
	case models.OpSummary:
		return c.FetchSummary(ctx, text)
	case models.OpStats:
		return c.FetchStats(ctx, text)
	default:
		return "", fmt.Errorf("unknown operation %q", op)
	}
}

// post sends a single request for op and decodes the response into T.
// Every failure is logged exactly once before it is returned.
func post[T any](ctx context.Context, c *Client, op models.Operation, text string) (*T, error) {
	log := c.log.With().
		Str("operation", string(op)).
		Str("request_id", uuid.NewString()).
		Logger()

	body, err := c.roundTrip(ctx, op, text, log)
	if err != nil {
		var aerr *Error
		if !errors.As(err, &aerr) {
			aerr = &Error{Op: op, Kind: KindTransport, Err: err}
		}
		logFailure(log, aerr)
		return nil, aerr
	}

	var out *T
	if err := json.Unmarshal(body, &out); err != nil || out == nil {
		aerr := &Error{Op: op, Kind: KindEmptyBody, Err: err}
		logFailure(log, aerr)
		return nil, aerr
	}
	return out, nil
}

func (c *Client) roundTrip(ctx context.Context, op models.Operation, text string, log zerolog.Logger) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(models.Input{Text: text})
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %w", err)
	}

	endpoint := c.baseURL.JoinPath(op.Path()).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	log.Debug().Str("url", endpoint).RawJSON("body", payload).Msg("Sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	log.Debug().Int("status", resp.StatusCode).Bytes("body", body).Msg("Received response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Op: op, Kind: KindStatus, StatusCode: resp.StatusCode}
	}
	return body, nil
}

func logFailure(log zerolog.Logger, err *Error) {
	switch err.Kind {
	case KindStatus:
		log.Warn().Int("status", err.StatusCode).Msgf("Non-successful response: %d", err.StatusCode)
	case KindEmptyBody:
		log.Warn().AnErr("decode_error", err.Err).Msg("Null response body")
	default:
		log.Warn().Err(err.Err).Msgf("Error: %v", err.Err)
	}
}
