package main

import (
	"errors"
	"testing"
)

func TestProcessOnceCompletesJob(t *testing.T) {
	env := setupCLITestEnv(t)
	id := seedJob(t, env, false)

	out := mustRunCLI(t, env, "process", "--once")
	requireContains(t, out, "Processed "+id)

	store := openStore(t, env)
	status, err := store.Status(id)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !status.State.Terminal() {
		t.Fatalf("state = %s, want a terminal state", status.State)
	}
}

func TestProcessOnceEmptyQueueExitsTwo(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "init")

	_, _, err := runCLI(t, env, "process", "--once")
	var exit *exitCodeError
	if !errors.As(err, &exit) {
		t.Fatalf("expected exitCodeError, got %v", err)
	}
	if exit.code != 2 {
		t.Fatalf("exit code = %d, want 2", exit.code)
	}
}
