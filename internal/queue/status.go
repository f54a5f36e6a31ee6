package queue

import (
	"errors"
	"io/fs"
	"os"
)

// JobStatus reports where a job currently lives and whether it is claimed.
type JobStatus struct {
	State  State
	Locked bool
}

// Status probes every state and lock combination for the identifier. A
// primary artifact whose metadata sibling is absent is surfaced as an
// ErrIO inconsistent pair, never guessed to be a valid job.
func (s *Store) Status(id string) (JobStatus, error) {
	if err := ValidateID(id); err != nil {
		return JobStatus{}, err
	}
	for _, state := range allStates {
		for _, locked := range []bool{false, true} {
			primary, metadata, err := PairPaths(s.root, id, state, locked)
			if err != nil {
				return JobStatus{}, err
			}
			if _, err := os.Stat(primary); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return JobStatus{}, wrapErr(ErrIO, "status", "probe primary artifact", err)
			}
			if _, err := os.Stat(metadata); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return JobStatus{}, wrapErr(ErrIO, "status",
						"primary present without metadata sidecar in "+string(state)+": inconsistent pair", nil)
				}
				return JobStatus{}, wrapErr(ErrIO, "status", "probe metadata sidecar", err)
			}
			return JobStatus{State: state, Locked: locked}, nil
		}
	}
	return JobStatus{}, wrapErr(ErrNotFound, "status", "job "+id+" not present in any state", nil)
}
