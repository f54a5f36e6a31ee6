package api

import (
	"hopper/internal/queue"
)

// FromJobStatus converts a queue status probe into its DTO.
func FromJobStatus(id string, status queue.JobStatus) JobStatus {
	return JobStatus{
		ID:     id,
		State:  string(status.State),
		Locked: status.Locked,
	}
}

// FromStats converts the aggregate stats view into its DTO.
func FromStats(stats *queue.Stats) Stats {
	out := Stats{States: make(map[string]StateStats, len(stats.States))}
	for state, perState := range stats.States {
		out.States[string(state)] = StateStats{
			Jobs:       perState.Jobs,
			LockedJobs: perState.LockedJobs,
			Orphans:    perState.Orphans,
			Reports:    perState.Reports,
			Bytes:      perState.Bytes,
		}
		out.TotalJobs += perState.Jobs
		out.TotalLocked += perState.LockedJobs
		out.TotalOrphans += perState.Orphans
		out.TotalBytes += perState.Bytes
	}
	if !stats.Oldest.IsZero() {
		out.Oldest = stats.Oldest.Format(dateTimeFormat)
	}
	if !stats.Newest.IsZero() {
		out.Newest = stats.Newest.Format(dateTimeFormat)
	}
	return out
}

// FromError converts a queue failure into the uniform error envelope.
func FromError(err error) Error {
	return Error{
		Error:  queue.KindLabel(err),
		Detail: queue.Detail(err),
	}
}
