package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/NivBraz/textanalyzer/internal/config"
	"github.com/NivBraz/textanalyzer/internal/models"
	"github.com/NivBraz/textanalyzer/pkg/analyzer"
	"github.com/NivBraz/textanalyzer/pkg/fetcher"
	"github.com/NivBraz/textanalyzer/pkg/parser"
	"github.com/NivBraz/textanalyzer/pkg/screen"
)

// App represents the main application: the analysis client plus the
// output the user sees.
type App struct {
	config   *config.Config
	client   *analyzer.Client
	screen   *screen.Screen
	fetcher  *fetcher.Fetcher
	parser   *parser.Parser
	log      zerolog.Logger
	progress io.Writer
	inFlight sync.WaitGroup
}

type Option func(*options)

type options struct {
	log        zerolog.Logger
	httpClient *http.Client
	progress   io.Writer
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithHTTPClient replaces the HTTP client used for analysis requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithProgressOutput sets where batch progress is drawn.
func WithProgressOutput(w io.Writer) Option {
	return func(o *options) { o.progress = w }
}

// Outcome reports what happened to one press.
type Outcome struct {
	Op      models.Operation
	Seq     uint64
	Text    string
	Applied bool
	Err     error
}

// New creates a new instance of the application
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	o := options{log: zerolog.Nop(), progress: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	policy, err := screen.ParsePolicy(cfg.Screen.Policy)
	if err != nil {
		return nil, err
	}

	client, err := analyzer.New(analyzer.ClientConfig{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           time.Duration(cfg.HTTPClient.Timeout) * time.Second,
		UserAgent:         cfg.HTTPClient.UserAgent,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		SummarySeparator:  cfg.Output.SummarySeparator,
		HTTPClient:        o.httpClient,
		Logger:            &o.log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client: %w", err)
	}

	f := fetcher.New(fetcher.FetcherConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		Timeout:           time.Duration(cfg.HTTPClient.Timeout) * time.Second,
		Logger:            &o.log,
	})

	return &App{
		config:   cfg,
		client:   client,
		screen:   screen.New(policy),
		fetcher:  f,
		parser:   parser.New(),
		log:      o.log,
		progress: o.progress,
	}, nil
}

// Press starts op on text in its own goroutine, the way a button press
// does. A successful response is written to the output subject to the
// screen policy; a failure leaves the output as it was. The returned
// channel receives exactly one Outcome.
func (a *App) Press(ctx context.Context, op models.Operation, text string) <-chan Outcome {
	seq := a.screen.Begin()
	done := make(chan Outcome, 1)

	a.inFlight.Add(1)
	go func() {
		defer a.inFlight.Done()
		defer close(done)

		out := Outcome{Op: op, Seq: seq}
		out.Text, out.Err = a.client.Fetch(ctx, op, text)
		if out.Err == nil {
			out.Applied = a.screen.Commit(seq, out.Text)
			if !out.Applied {
				a.log.Debug().Str("operation", string(op)).Uint64("seq", seq).Msg("Discarded stale response")
			}
		}
		done <- out
	}()

	return done
}

// Wait blocks until every pressed operation has finished.
func (a *App) Wait() {
	a.inFlight.Wait()
}

// Output returns the text currently shown to the user.
func (a *App) Output() string {
	return a.screen.Text()
}

// PageText downloads a web page and returns its visible text.
func (a *App) PageText(ctx context.Context, url string) (string, error) {
	content, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}

	text, err := a.parser.ExtractText(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}
	return text, nil
}

// LoadInputs reads a batch file with one input per line.
func (a *App) LoadInputs(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening inputs file: %w", err)
	}

	inputs, err := a.parser.ParseLines(content)
	if err != nil {
		return nil, fmt.Errorf("error reading inputs file: %w", err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no inputs found in file %s", path)
	}
	return inputs, nil
}

// Run analyses every input with op, at most config.Concurrency at a
// time. Entries keep the order of inputs. The output screen is not
// touched.
func (a *App) Run(ctx context.Context, op models.Operation, inputs []string) (*models.Result, error) {
	startTime := time.Now()

	result := &models.Result{
		Operation: op,
		Entries:   make([]models.Entry, len(inputs)),
	}

	bar := progressbar.NewOptions(len(inputs),
		progressbar.OptionSetWriter(a.progress),
		progressbar.OptionSetDescription(fmt.Sprintf("Running %s...", op)),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, a.config.Concurrency)
	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()

			// Acquire semaphore
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			entry := models.Entry{Input: input}
			text, err := a.client.Fetch(ctx, op, input)
			if err != nil {
				entry.Error = err.Error()
			} else {
				entry.Output = text
			}
			result.Entries[i] = entry

			bar.Add(1)
		}(i, input)
	}
	wg.Wait()
	bar.Finish()

	for _, e := range result.Entries {
		if e.Error != "" {
			result.Stats.Failed++
		} else {
			result.Stats.Succeeded++
		}
	}
	result.Stats.TimeElapsed = int(time.Since(startTime).Milliseconds())

	if result.Stats.Failed > 0 {
		return result, fmt.Errorf("encountered %d errors during processing", result.Stats.Failed)
	}
	return result, nil
}
