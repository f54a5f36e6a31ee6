package queue

import (
	"path/filepath"
	"strings"
)

// Kind discriminates the artifact files that can accompany a job. Adding a
// kind here extends the resolver without touching claim or transition logic.
type Kind string

const (
	// KindPrimary is the document payload itself.
	KindPrimary Kind = "pdf"
	// KindMetadata is the structured sidecar describing the payload.
	KindMetadata Kind = "metadata"
	// KindReport is a derived human-readable artifact. It is not part of
	// the atomic pair and carries no lock semantics.
	KindReport Kind = "report"
)

const (
	jobExt     = ".job"
	lockSuffix = ".lock"
	reportExt  = ".report.html"

	// maxPathLen bounds every resolved path. Formatting past it would have
	// silently truncated in the original tooling; here it is a hard error.
	maxPathLen = 4096
)

// ValidateID rejects identifiers that could escape the state directories.
// Identifiers are caller-supplied and must be usable as a bare basename.
func ValidateID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return invalidf("validate id", "identifier is empty")
	case strings.ContainsAny(id, `/\`):
		return invalidf("validate id", "identifier %q contains a path separator", id)
	case strings.Contains(id, ".."):
		return invalidf("validate id", "identifier %q contains a traversal sequence", id)
	case id == ".":
		return invalidf("validate id", "identifier %q is reserved", id)
	}
	return nil
}

// ArtifactPath resolves the absolute path of one artifact file for a job in
// the given state. Pure computation, no I/O. KindReport ignores locked
// because reports have no lock semantics.
func ArtifactPath(root, id string, state State, kind Kind, locked bool) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", invalidf("resolve path", "queue root is empty")
	}
	if err := ValidateID(id); err != nil {
		return "", err
	}
	if !state.valid() {
		return "", invalidf("resolve path", "unknown state %q", string(state))
	}

	var name string
	switch kind {
	case KindPrimary, KindMetadata:
		name = id + "." + string(kind) + jobExt
		if locked {
			name += lockSuffix
		}
	case KindReport:
		name = id + reportExt
	default:
		return "", invalidf("resolve path", "unknown artifact kind %q", string(kind))
	}

	path := filepath.Join(root, string(state), name)
	if len(path) > maxPathLen {
		return "", invalidf("resolve path", "path for %q exceeds %d bytes", id, maxPathLen)
	}
	return path, nil
}

// PairPaths resolves the primary and metadata paths of a job pair.
func PairPaths(root, id string, state State, locked bool) (primary, metadata string, err error) {
	primary, err = ArtifactPath(root, id, state, KindPrimary, locked)
	if err != nil {
		return "", "", err
	}
	metadata, err = ArtifactPath(root, id, state, KindMetadata, locked)
	if err != nil {
		return "", "", err
	}
	return primary, metadata, nil
}

func kindName(kind Kind, locked bool) string {
	name := "." + string(kind) + jobExt
	if locked {
		name += lockSuffix
	}
	return name
}

// idFromName extracts the job identifier from a directory entry matching the
// given kind and lock flag; ok is false when the name is not such an entry.
// The lock flag is meaningless for KindReport.
func idFromName(name string, kind Kind, locked bool) (string, bool) {
	suffix := kindName(kind, locked)
	if kind == KindReport {
		suffix = reportExt
	}
	if !strings.HasSuffix(name, suffix) {
		return "", false
	}
	id := strings.TrimSuffix(name, suffix)
	if id == "" {
		return "", false
	}
	return id, true
}
