package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// SubmitRequest enqueues a new job from two source files readable by the
// server process. An empty ID asks the server to generate one.
type SubmitRequest struct {
	ID           string `json:"id,omitempty"`
	PrimaryPath  string `json:"primaryPath"`
	MetadataPath string `json:"metadataPath"`
	Priority     bool   `json:"priority"`
}

// SubmitResponse reports where the new job landed.
type SubmitResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// ClaimRequest selects the scan order for a claim attempt.
type ClaimRequest struct {
	PreferPriority bool `json:"preferPriority"`
}

// ClaimResponse identifies the claimed job.
type ClaimResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// ReleaseRequest unlocks a claimed job in place.
type ReleaseRequest struct {
	State string `json:"state"`
}

// TransitionRequest names the endpoints of a finalize or move.
type TransitionRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// JobStatus reports a single job's location and lock condition.
type JobStatus struct {
	ID     string `json:"id"`
	State  string `json:"state"`
	Locked bool   `json:"locked"`
}

// StateStats mirrors one state directory's aggregate counts.
type StateStats struct {
	Jobs       int   `json:"jobs"`
	LockedJobs int   `json:"lockedJobs"`
	Orphans    int   `json:"orphans"`
	Reports    int   `json:"reports"`
	Bytes      int64 `json:"bytes"`
}

// Stats is the aggregate audit view across all states.
type Stats struct {
	States      map[string]StateStats `json:"states"`
	TotalJobs   int                   `json:"totalJobs"`
	TotalLocked int                   `json:"totalLocked"`
	TotalOrphans int                  `json:"totalOrphans"`
	TotalBytes  int64                 `json:"totalBytes"`
	Oldest      string                `json:"oldest,omitempty"`
	Newest      string                `json:"newest,omitempty"`
}

// Error is the uniform error envelope: a stable kind plus an operator-level
// detail string that never carries internal paths.
type Error struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}
