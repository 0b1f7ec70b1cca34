package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"

	"github.com/cognicore/korpus/internal/jsonl"
	"github.com/cognicore/korpus/internal/logging"
	"github.com/cognicore/korpus/pkg/korpus"
	"github.com/cognicore/korpus/pkg/korpus/config"
)

func main() {
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", os.Getenv("KORPUS_CONFIG"), "Config file (YAML or TOML)")
		jsonlPath  = flag.String("jsonl", "", "Ingest documents from a JSONL file before starting")
		window     = flag.Int("window", -1, "Concordance window (overrides config)")
		query      = flag.String("query", "", "One-shot concordance query (non-interactive mode)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "korpus:", err)
		os.Exit(1)
	}
	if *window >= 0 {
		cfg.Concordance.Window = *window
	}

	logger := logging.New(cfg.Logging.Level, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger, *jsonlPath, *query, flag.Args()); err != nil {
		logger.Error().Err(err).Msg("korpus failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger, jsonlPath, query string, files []string) error {
	k, err := korpus.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer k.Close()

	if jsonlPath != "" {
		docs, err := jsonl.LoadFromJSONL(jsonlPath, logger)
		if err != nil {
			return err
		}
		if _, err := k.IngestBatch(ctx, docs); err != nil {
			logger.Warn().Err(err).Msg("some documents were skipped")
		}
	}

	r := newREPL(k, os.Stdin, os.Stdout)
	for _, path := range files {
		r.add(ctx, path)
	}

	// One-shot query mode
	if query != "" {
		return r.concordance(query)
	}

	return r.run(ctx)
}
