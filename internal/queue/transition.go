package queue

import (
	"errors"
	"io/fs"
	"os"
)

// pairEndpoint names one side of a pair transition.
type pairEndpoint struct {
	state  State
	locked bool
}

// pairRename is the single two-phase transition used by Release, Finalize,
// and Move: rename the primary, then the metadata, and roll the primary back
// when the metadata rename fails. Keeping the rollback branch here means no
// call site can forget it.
func (s *Store) pairRename(op, id string, from, to pairEndpoint) error {
	fromPrimary, fromMetadata, err := PairPaths(s.root, id, from.state, from.locked)
	if err != nil {
		return err
	}
	toPrimary, toMetadata, err := PairPaths(s.root, id, to.state, to.locked)
	if err != nil {
		return err
	}

	if err := os.Rename(fromPrimary, toPrimary); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return wrapErr(ErrNotFound, op, "job not present in "+string(from.state), err)
		}
		return wrapErr(ErrIO, op, "move primary artifact", err)
	}

	if err := os.Rename(fromMetadata, toMetadata); err != nil {
		_ = os.Rename(toPrimary, fromPrimary)
		if errors.Is(err, fs.ErrNotExist) {
			return wrapErr(ErrIO, op, "metadata sidecar missing: inconsistent pair", err)
		}
		return wrapErr(ErrIO, op, "move metadata sidecar", err)
	}
	return nil
}

// Release reverses a claim: both locked files return to their unlocked names
// in the same state.
func (s *Store) Release(id string, state State) error {
	return s.pairRename("release", id,
		pairEndpoint{state: state, locked: true},
		pairEndpoint{state: state, locked: false},
	)
}

// Finalize commits a processing outcome: the locked pair in fromState moves
// to the unlocked pair in toState. Callers conventionally finalize into
// StateComplete or StateError.
func (s *Store) Finalize(id string, fromState, toState State) error {
	if fromState == toState {
		return invalidf("finalize", "source and destination state are both %q", string(fromState))
	}
	return s.pairRename("finalize", id,
		pairEndpoint{state: fromState, locked: true},
		pairEndpoint{state: toState, locked: false},
	)
}

// Move transitions an unlocked pair between states without touching lock
// status. Intended for manual requeue and retry tooling.
func (s *Store) Move(id string, fromState, toState State) error {
	if fromState == toState {
		return invalidf("move", "source and destination state are both %q", string(fromState))
	}
	return s.pairRename("move", id,
		pairEndpoint{state: fromState, locked: false},
		pairEndpoint{state: toState, locked: false},
	)
}
