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
	"github.com/cognicore/korpus/internal/server"
	"github.com/cognicore/korpus/pkg/korpus"
	"github.com/cognicore/korpus/pkg/korpus/config"
)

func main() {
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", os.Getenv("KORPUS_CONFIG"), "Config file (YAML or TOML)")
		addr       = flag.String("addr", "", "Listen address (overrides config)")
		jsonlPath  = flag.String("jsonl", "", "Ingest documents from a JSONL file at startup")
		restore    = flag.Bool("restore", false, "Restore the latest snapshot at startup")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "korpus-server:", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := logging.New(cfg.Logging.Level, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger, *jsonlPath, *restore); err != nil {
		logger.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger, jsonlPath string, restore bool) error {
	k, err := korpus.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer k.Close()

	if restore {
		if _, err := k.LoadSnapshot(ctx, ""); err != nil {
			logger.Warn().Err(err).Msg("no snapshot restored")
		}
	}

	if jsonlPath != "" {
		docs, err := jsonl.LoadFromJSONL(jsonlPath, logger)
		if err != nil {
			return err
		}
		if _, err := k.IngestBatch(ctx, docs); err != nil {
			logger.Warn().Err(err).Msg("some documents were skipped")
		}
	}

	return server.New(k, logger).Run(ctx, cfg.Server.Addr)
}
