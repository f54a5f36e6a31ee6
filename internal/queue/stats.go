package queue

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// StateStats aggregates one state directory.
type StateStats struct {
	// Jobs counts valid unlocked pairs.
	Jobs int
	// LockedJobs counts valid locked pairs.
	LockedJobs int
	// Orphans counts primary or metadata files whose sibling is absent,
	// in either lock condition. Reports are never orphans.
	Orphans int
	// Reports counts derived report artifacts.
	Reports int
	// Bytes sums the sizes of every regular file in the directory.
	Bytes int64
}

// Stats is the read-only audit view over the whole queue root.
type Stats struct {
	States map[State]StateStats
	// Oldest and Newest are modification-time extremes across every file
	// in every state directory; zero when the queue is empty.
	Oldest time.Time
	Newest time.Time
}

// Total sums a field across all states.
func (st *Stats) Total(pick func(StateStats) int) int {
	total := 0
	for _, s := range st.States {
		total += pick(s)
	}
	return total
}

// CollectStats walks all four state directories counting valid pairs, locked
// pairs, orphans, and bytes, plus modification-time extremes. It has no side
// effects and takes no locks; counts can be momentarily stale under
// concurrent claimants, which is acceptable for an audit view.
func (s *Store) CollectStats() (*Stats, error) {
	stats := &Stats{States: make(map[State]StateStats, len(allStates))}
	for _, state := range allStates {
		perState, err := s.collectState(state, stats)
		if err != nil {
			return nil, err
		}
		stats.States[state] = perState
	}
	return stats, nil
}

func (s *Store) collectState(state State, stats *Stats) (StateStats, error) {
	var out StateStats
	dir := filepath.Join(s.root, string(state))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return out, wrapErr(ErrIO, "stats", "scan "+string(state), err)
	}

	type pairSides struct{ primary, metadata bool }
	pairs := map[bool]map[string]*pairSides{false: {}, true: {}}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue // removed mid-scan by a concurrent process
			}
			return out, wrapErr(ErrIO, "stats", "stat "+name, err)
		}
		out.Bytes += info.Size()
		mtime := info.ModTime()
		if stats.Oldest.IsZero() || mtime.Before(stats.Oldest) {
			stats.Oldest = mtime
		}
		if stats.Newest.IsZero() || mtime.After(stats.Newest) {
			stats.Newest = mtime
		}

		matched := false
		for _, locked := range []bool{false, true} {
			if id, ok := idFromName(name, KindPrimary, locked); ok {
				side := sidesFor(pairs[locked], id)
				side.primary = true
				matched = true
				break
			}
			if id, ok := idFromName(name, KindMetadata, locked); ok {
				side := sidesFor(pairs[locked], id)
				side.metadata = true
				matched = true
				break
			}
		}
		if !matched {
			if _, ok := idFromName(name, KindReport, false); ok {
				out.Reports++
			}
			// Anything else contributes bytes only.
		}
	}

	for locked, byID := range pairs {
		for _, sides := range byID {
			switch {
			case sides.primary && sides.metadata && locked:
				out.LockedJobs++
			case sides.primary && sides.metadata:
				out.Jobs++
			default:
				out.Orphans++
			}
		}
	}
	return out, nil
}

func sidesFor[V any](byID map[string]*V, id string) *V {
	side, ok := byID[id]
	if !ok {
		side = new(V)
		byID[id] = side
	}
	return side
}
