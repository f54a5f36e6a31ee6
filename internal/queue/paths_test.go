package queue_test

import (
	"errors"
	"strings"
	"testing"

	"hopper/internal/queue"
)

func TestArtifactPathShapes(t *testing.T) {
	cases := []struct {
		name   string
		kind   queue.Kind
		locked bool
		want   string
	}{
		{"primary unlocked", queue.KindPrimary, false, "/root/jobs/job-1.pdf.job"},
		{"primary locked", queue.KindPrimary, true, "/root/jobs/job-1.pdf.job.lock"},
		{"metadata unlocked", queue.KindMetadata, false, "/root/jobs/job-1.metadata.job"},
		{"metadata locked", queue.KindMetadata, true, "/root/jobs/job-1.metadata.job.lock"},
		{"report ignores lock", queue.KindReport, true, "/root/jobs/job-1.report.html"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := queue.ArtifactPath("/root", "job-1", queue.StateJobs, tc.kind, tc.locked)
			if err != nil {
				t.Fatalf("ArtifactPath failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ArtifactPath = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestArtifactPathInvalidInputs(t *testing.T) {
	cases := []struct {
		name  string
		root  string
		id    string
		state queue.State
		kind  queue.Kind
	}{
		{"empty root", "", "job-1", queue.StateJobs, queue.KindPrimary},
		{"empty id", "/root", "", queue.StateJobs, queue.KindPrimary},
		{"separator in id", "/root", "a/b", queue.StateJobs, queue.KindPrimary},
		{"backslash in id", "/root", `a\b`, queue.StateJobs, queue.KindPrimary},
		{"traversal in id", "/root", "..evil", queue.StateJobs, queue.KindPrimary},
		{"unknown state", "/root", "job-1", queue.State("limbo"), queue.KindPrimary},
		{"unknown kind", "/root", "job-1", queue.StateJobs, queue.Kind("thumbnail")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := queue.ArtifactPath(tc.root, tc.id, tc.state, tc.kind, false)
			if !errors.Is(err, queue.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestArtifactPathRejectsOverlongPath(t *testing.T) {
	id := strings.Repeat("x", 5000)
	_, err := queue.ArtifactPath("/root", id, queue.StateJobs, queue.KindPrimary, false)
	if !errors.Is(err, queue.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for overlong path, got %v", err)
	}
}

func TestPairPaths(t *testing.T) {
	primary, metadata, err := queue.PairPaths("/root", "job-1", queue.StatePriority, true)
	if err != nil {
		t.Fatalf("PairPaths failed: %v", err)
	}
	if primary != "/root/priority_jobs/job-1.pdf.job.lock" {
		t.Fatalf("unexpected primary path %q", primary)
	}
	if metadata != "/root/priority_jobs/job-1.metadata.job.lock" {
		t.Fatalf("unexpected metadata path %q", metadata)
	}
}

func TestParseState(t *testing.T) {
	for _, state := range queue.AllStates() {
		parsed, ok := queue.ParseState(" " + strings.ToUpper(string(state)) + " ")
		if !ok || parsed != state {
			t.Fatalf("ParseState(%q) = %q, %v", state, parsed, ok)
		}
	}
	if _, ok := queue.ParseState("limbo"); ok {
		t.Fatal("expected ParseState to reject unknown state")
	}
	if _, ok := queue.ParseState(""); ok {
		t.Fatal("expected ParseState to reject empty state")
	}
}
