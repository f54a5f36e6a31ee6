// Package testsupport provides shared fixtures for hopper tests: temporary
// queue roots, seeded job pairs, and ready-to-use configs.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"hopper/internal/config"
	"hopper/internal/queue"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.QueueRoot = filepath.Join(base, "queue")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Worker.PollInterval = 1
	return &cfg
}

// NewStore builds a Store over a fresh temp root with all state directories
// created.
func NewStore(t testing.TB) *queue.Store {
	t.Helper()

	store, err := queue.NewStore(filepath.Join(t.TempDir(), "queue"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// SourcePair writes a primary/metadata source pair under a temp directory
// and returns both paths.
func SourcePair(t testing.TB, primary, metadata []byte) (string, string) {
	t.Helper()

	dir := t.TempDir()
	primaryPath := filepath.Join(dir, "source.pdf")
	metadataPath := filepath.Join(dir, "source.json")
	WriteFile(t, primaryPath, primary)
	WriteFile(t, metadataPath, metadata)
	return primaryPath, metadataPath
}

// SubmitJob seeds one job into the store and returns its state.
func SubmitJob(t testing.TB, store *queue.Store, id string, priority bool) queue.State {
	t.Helper()

	primary, metadata := SourcePair(t, []byte("%PDF-1.7 payload "+id), []byte(`{"source":"`+id+`"}`))
	state, err := store.Submit(id, primary, metadata, priority)
	if err != nil {
		t.Fatalf("Submit %s failed: %v", id, err)
	}
	return state
}

// PairPath resolves an artifact path against the store root, failing the
// test on resolver errors.
func PairPath(t testing.TB, store *queue.Store, id string, state queue.State, kind queue.Kind, locked bool) string {
	t.Helper()

	path, err := queue.ArtifactPath(store.Root(), id, state, kind, locked)
	if err != nil {
		t.Fatalf("ArtifactPath failed: %v", err)
	}
	return path
}
