package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/korpus/internal/logging"
	"github.com/cognicore/korpus/pkg/korpus/config"
)

func TestRunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	batch := filepath.Join(dir, "docs.jsonl")
	require.NoError(t, os.WriteFile(batch, []byte(`{"id":"a","text":"Hello there."}`+"\n"), 0644))

	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Store = config.Store{Type: "badger", Path: filepath.Join(dir, "badger")}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, logging.Discard(), batch, true) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunBadBatch(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"

	err := run(context.Background(), cfg, logging.Discard(), filepath.Join(t.TempDir(), "none.jsonl"), false)
	assert.Error(t, err)
}
