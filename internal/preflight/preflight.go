package preflight

import (
	"path/filepath"

	"hopper/internal/config"
	"hopper/internal/queue"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all readiness checks for the given config: the queue root,
// every state directory beneath it, the log directory, and free space.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Queue root", cfg.Paths.QueueRoot)}
	for _, state := range queue.AllStates() {
		name := "State directory " + string(state)
		results = append(results, CheckDirectoryAccess(name, filepath.Join(cfg.Paths.QueueRoot, string(state))))
	}
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckFreeSpace(cfg.Paths.QueueRoot, cfg.Processing.MinFreeGiB))
	return results
}

// AllPassed reports whether every check in results passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// Failures returns only the failed checks.
func Failures(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
