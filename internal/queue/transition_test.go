package queue_test

import (
	"errors"
	"os"
	"testing"

	"hopper/internal/queue"
	"hopper/internal/testsupport"
)

func claimOne(t *testing.T, store *queue.Store) (string, queue.State) {
	t.Helper()
	id, state, err := store.ClaimNext(false)
	if err != nil {
		t.Fatalf("ClaimNext failed: %v", err)
	}
	return id, state
}

func mustBeAbsent(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected %s to be absent, stat err = %v", path, err)
	}
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func TestReleaseRestoresUnlockedPair(t *testing.T) {
	store := testsupport.NewStore(t)
	testsupport.SubmitJob(t, store, "job-1", false)
	id, state := claimOne(t, store)

	if err := store.Release(id, state); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	for _, kind := range []queue.Kind{queue.KindPrimary, queue.KindMetadata} {
		mustExist(t, testsupport.PairPath(t, store, id, state, kind, false))
		mustBeAbsent(t, testsupport.PairPath(t, store, id, state, kind, true))
	}

	// A released job is claimable again.
	again, _, err := store.ClaimNext(false)
	if err != nil {
		t.Fatalf("reclaim failed: %v", err)
	}
	if again != id {
		t.Fatalf("reclaimed %q, want %q", again, id)
	}
}

func TestReleaseUnclaimedJobIsNotFound(t *testing.T) {
	store := testsupport.NewStore(t)
	testsupport.SubmitJob(t, store, "job-1", false)
	if err := store.Release("job-1", queue.StateJobs); !errors.Is(err, queue.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReleaseRollsBackWhenMetadataMissing(t *testing.T) {
	store := testsupport.NewStore(t)
	testsupport.SubmitJob(t, store, "job-1", false)
	id, state := claimOne(t, store)

	// Simulate the crash window: destroy the locked metadata file.
	lockedMetadata := testsupport.PairPath(t, store, id, state, queue.KindMetadata, true)
	if err := os.Remove(lockedMetadata); err != nil {
		t.Fatalf("remove locked metadata: %v", err)
	}

	err := store.Release(id, state)
	if !errors.Is(err, queue.ErrIO) {
		t.Fatalf("expected ErrIO for inconsistent pair, got %v", err)
	}
	// The primary must have been rolled back to its locked name.
	mustExist(t, testsupport.PairPath(t, store, id, state, queue.KindPrimary, true))
	mustBeAbsent(t, testsupport.PairPath(t, store, id, state, queue.KindPrimary, false))
}

func TestFinalizeMovesPairToTerminalState(t *testing.T) {
	store := testsupport.NewStore(t)
	testsupport.SubmitJob(t, store, "job-1", false)
	id, state := claimOne(t, store)

	if err := store.Finalize(id, state, queue.StateComplete); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	for _, kind := range []queue.Kind{queue.KindPrimary, queue.KindMetadata} {
		mustExist(t, testsupport.PairPath(t, store, id, queue.StateComplete, kind, false))
		mustBeAbsent(t, testsupport.PairPath(t, store, id, state, kind, false))
		mustBeAbsent(t, testsupport.PairPath(t, store, id, state, kind, true))
	}

	status, err := store.Status(id)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.State != queue.StateComplete || status.Locked {
		t.Fatalf("Status = %+v, want unlocked complete", status)
	}
}

func TestFinalizeToErrorState(t *testing.T) {
	store := testsupport.NewStore(t)
	testsupport.SubmitJob(t, store, "job-1", true)
	id, state, err := store.ClaimNext(true)
	if err != nil {
		t.Fatalf("ClaimNext failed: %v", err)
	}
	if err := store.Finalize(id, state, queue.StateError); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	mustExist(t, testsupport.PairPath(t, store, id, queue.StateError, queue.KindPrimary, false))
}

func TestFinalizeRejectsSameState(t *testing.T) {
	store := testsupport.NewStore(t)
	err := store.Finalize("job-1", queue.StateJobs, queue.StateJobs)
	if !errors.Is(err, queue.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestMoveTransitionsUnlockedPair(t *testing.T) {
	store := testsupport.NewStore(t)
	testsupport.SubmitJob(t, store, "job-1", false)

	if err := store.Move("job-1", queue.StateJobs, queue.StateError); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	mustExist(t, testsupport.PairPath(t, store, "job-1", queue.StateError, queue.KindPrimary, false))
	mustBeAbsent(t, testsupport.PairPath(t, store, "job-1", queue.StateJobs, queue.KindPrimary, false))

	// Requeue for retry, the administrative use case.
	if err := store.Move("job-1", queue.StateError, queue.StateJobs); err != nil {
		t.Fatalf("requeue Move failed: %v", err)
	}
	if _, _, err := store.ClaimNext(false); err != nil {
		t.Fatalf("claim after requeue failed: %v", err)
	}
}

func TestMoveDoesNotTouchLockedJobs(t *testing.T) {
	store := testsupport.NewStore(t)
	testsupport.SubmitJob(t, store, "job-1", false)
	id, state := claimOne(t, store)

	if err := store.Move(id, state, queue.StateComplete); !errors.Is(err, queue.ErrNotFound) {
		t.Fatalf("expected ErrNotFound moving a locked job, got %v", err)
	}
	// Locked pair intact.
	mustExist(t, testsupport.PairPath(t, store, id, state, queue.KindPrimary, true))
	mustExist(t, testsupport.PairPath(t, store, id, state, queue.KindMetadata, true))
}

func TestSubmitClaimFinalizeRoundTrip(t *testing.T) {
	store := testsupport.NewStore(t)
	testsupport.SubmitJob(t, store, "job-1", false)

	id, state := claimOne(t, store)
	if err := store.Finalize(id, state, queue.StateComplete); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	entries, err := os.ReadDir(store.Root() + "/complete")
	if err != nil {
		t.Fatalf("read complete dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected exactly two files in complete, got %d", len(entries))
	}
	for _, dir := range []string{"jobs", "priority_jobs"} {
		entries, err := os.ReadDir(store.Root() + "/" + dir)
		if err != nil {
			t.Fatalf("read %s dir: %v", dir, err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected %s to be empty, got %d entries", dir, len(entries))
		}
	}
}
