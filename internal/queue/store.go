package queue

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"hopper/internal/fileutil"
)

// Store operates on one queue root. It holds no directory state of its own;
// every method re-reads the filesystem because other processes mutate it
// concurrently.
type Store struct {
	root string
}

// NewStore constructs a Store for the given root directory. The root is not
// created or inspected here; call Init before first use.
func NewStore(root string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, invalidf("new store", "queue root is empty")
	}
	return &Store{root: filepath.Clean(root)}, nil
}

// Root returns the queue root directory.
func (s *Store) Root() string {
	return s.root
}

// Init creates the four state directories. Idempotent: pre-existing
// directories are not an error.
func (s *Store) Init() error {
	for _, state := range allStates {
		dir := filepath.Join(s.root, string(state))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return wrapErr(ErrIO, "init", "create state directory "+string(state), err)
		}
	}
	return nil
}

// Submit copies the two source files into the target state directory under
// the job identifier. Atomic in effect: when the metadata copy fails the
// already-copied primary is removed before the error is reported, so a
// partial job is never left claimable.
func (s *Store) Submit(id, primarySrc, metadataSrc string, priority bool) (State, error) {
	state := StateJobs
	if priority {
		state = StatePriority
	}
	primaryDst, metadataDst, err := PairPaths(s.root, id, state, false)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(primarySrc) == "" || strings.TrimSpace(metadataSrc) == "" {
		return "", invalidf("submit", "source paths are required")
	}

	if err := fileutil.CopyChunked(primarySrc, primaryDst); err != nil {
		return "", wrapCopyErr("submit", "copy primary artifact", err)
	}
	if err := fileutil.CopyChunked(metadataSrc, metadataDst); err != nil {
		_ = os.Remove(primaryDst)
		return "", wrapCopyErr("submit", "copy metadata sidecar", err)
	}
	return state, nil
}

func wrapCopyErr(op, detail string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return wrapErr(ErrNotFound, op, detail+": source missing", err)
	}
	return wrapErr(ErrIO, op, detail, err)
}
