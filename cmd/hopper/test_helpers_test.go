package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hopper/internal/queue"
	"hopper/internal/testsupport"
)

type cliTestEnv struct {
	queueRoot  string
	logDir     string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		queueRoot:  filepath.Join(base, "queue"),
		logDir:     filepath.Join(base, "logs"),
		configPath: filepath.Join(base, "config.toml"),
	}
	writeTestConfig(t, env)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()

	content := fmt.Sprintf(`[paths]
queue_root = %q
log_dir = %q
api_bind = "127.0.0.1:0"

[worker]
poll_interval = 1

[processing]
min_free_gib = 0
`, env.queueRoot, env.logDir)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()

	out, stderr, err := runCLI(t, env, args...)
	if err != nil {
		t.Fatalf("hopper %s: %v (stderr: %s)", strings.Join(args, " "), err, stderr)
	}
	return out
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q does not contain %q", haystack, needle)
	}
}

// seedJob initializes the queue and submits one job through the CLI,
// returning its generated ID.
func seedJob(t *testing.T, env *cliTestEnv, priority bool) string {
	t.Helper()

	mustRunCLI(t, env, "init")
	primary, metadata := testsupport.SourcePair(t, []byte("%PDF-1.7 cli"), []byte(`{"src":"cli"}`))
	args := []string{"submit", primary, metadata}
	if priority {
		args = append(args, "--priority")
	}
	out := mustRunCLI(t, env, args...)
	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "Submitted" {
		t.Fatalf("unexpected submit output: %q", out)
	}
	return fields[1]
}

func openStore(t *testing.T, env *cliTestEnv) *queue.Store {
	t.Helper()

	store, err := queue.NewStore(env.queueRoot)
	if err != nil {
		t.Fatalf("queue.NewStore: %v", err)
	}
	return store
}
