package queue

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// ClaimNext scans for a valid unclaimed job pair and transitions it to
// locked in place. preferPriority chooses which directory is scanned first;
// the other is scanned only when the first pass finds nothing. Returns the
// claimed identifier and its state, or ErrNotFound when both passes exhaust.
//
// Candidates are taken in directory enumeration order, which is
// unspecified: claim order across jobs is a documented non-guarantee.
func (s *Store) ClaimNext(preferPriority bool) (string, State, error) {
	order := []State{StateJobs, StatePriority}
	if preferPriority {
		order = []State{StatePriority, StateJobs}
	}
	for _, state := range order {
		id, err := s.claimFrom(state)
		if err == nil {
			return id, state, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", "", err
		}
	}
	return "", "", wrapErr(ErrNotFound, "claim", "no claimable job", nil)
}

// claimFrom performs one directory pass of the claim protocol.
func (s *Store) claimFrom(state State) (string, error) {
	dir := filepath.Join(s.root, string(state))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// A missing state directory scans as empty.
			return "", wrapErr(ErrNotFound, "claim", "state directory absent", nil)
		}
		return "", wrapErr(ErrIO, "claim", "scan "+string(state), err)
	}

	for _, entry := range entries {
		id, ok := idFromName(entry.Name(), KindPrimary, false)
		if ok && !entry.IsDir() {
			claimed, err := s.claimPair(state, id)
			if err != nil {
				return "", err
			}
			if claimed {
				return id, nil
			}
			// Orphan or lost race: keep scanning.
		}
	}
	return "", wrapErr(ErrNotFound, "claim", "no claimable job in "+string(state), nil)
}

// claimPair attempts the two-step lock of one candidate. A false return with
// nil error means the candidate was skipped (orphan, or another claimant won
// the rename race) and the scan should continue.
func (s *Store) claimPair(state State, id string) (bool, error) {
	primary, metadata, err := PairPaths(s.root, id, state, false)
	if err != nil {
		return false, err
	}
	primaryLocked, metadataLocked, err := PairPaths(s.root, id, state, true)
	if err != nil {
		return false, err
	}

	// A primary with no unlocked metadata sibling is a tolerated orphan,
	// never a fatal condition during a scan.
	if _, err := os.Stat(metadata); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, wrapErr(ErrIO, "claim", "probe metadata sibling", err)
	}

	if err := os.Rename(primary, primaryLocked); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Another claimant renamed it first. Valid outcome.
			return false, nil
		}
		return false, wrapErr(ErrIO, "claim", "lock primary artifact", err)
	}

	if err := os.Rename(metadata, metadataLocked); err != nil {
		// Roll the primary back so the pair is never left half-locked.
		_ = os.Rename(primaryLocked, primary)
		if errors.Is(err, fs.ErrNotExist) {
			return false, wrapErr(ErrIO, "claim", "metadata sibling vanished mid-claim: inconsistent pair", err)
		}
		return false, wrapErr(ErrIO, "claim", "lock metadata sidecar", err)
	}
	return true, nil
}
