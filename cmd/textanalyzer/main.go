package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/NivBraz/textanalyzer/internal/app"
	"github.com/NivBraz/textanalyzer/internal/config"
	"github.com/NivBraz/textanalyzer/internal/models"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <word-list|word-count|summary|stats> [text...]\n\n", os.Args[0])
	fmt.Fprintln(flag.CommandLine.Output(), "Text is taken from the arguments, from -url, or from stdin.")
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	pageURL := flag.String("url", "", "analyse the visible text of this web page")
	inputsFile := flag.String("file", "", "batch mode: analyse each line of this file")
	flag.Usage = usage
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, _ := zerolog.ParseLevel(cfg.Logging.Level)
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	op, err := models.ParseOperation(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid operation")
	}

	// Create context that listens for the interrupt signal from the OS
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, app.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	log.Debug().Str("base_url", cfg.API.BaseURL).Str("operation", string(op)).Msg("Application initialized")

	if *inputsFile != "" {
		os.Exit(runBatch(ctx, application, cfg, log, op, *inputsFile))
	}

	text, err := readInput(ctx, application, *pageURL, flag.Args()[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}

	out := <-application.Press(ctx, op, text)
	application.Wait()
	if out.Err != nil {
		// already logged by the client
		os.Exit(1)
	}
	fmt.Println(application.Output())
}

func readInput(ctx context.Context, a *app.App, pageURL string, args []string) (string, error) {
	switch {
	case pageURL != "":
		return a.PageText(ctx, pageURL)
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("error reading stdin: %w", err)
		}
		return string(data), nil
	}
}

func runBatch(ctx context.Context, a *app.App, cfg *config.Config, log zerolog.Logger, op models.Operation, path string) int {
	inputs, err := a.LoadInputs(path)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load inputs")
		return 1
	}

	results, runErr := a.Run(ctx, op, inputs)
	if runErr != nil {
		log.Warn().Err(runErr).Msg("Errors occurred during the batch run")
	}

	var output []byte
	if cfg.Output.PrettyPrint {
		output, err = json.MarshalIndent(results, "", "    ")
	} else {
		output, err = json.Marshal(results)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal results")
		return 1
	}
	fmt.Println(string(output))

	if runErr != nil {
		return 1
	}
	return 0
}
