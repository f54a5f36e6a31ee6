package queue

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers classifying every failure this package can return.
// Callers branch with errors.Is; the markers map onto process exit codes
// and HTTP statuses at the edges.
var (
	// ErrInvalidArgument reports caller mistakes: malformed identifiers,
	// unknown states, empty required fields, over-long paths. Never worth
	// retrying unchanged.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound reports the absence of a matching job or source file. A
	// normal outcome for polling claimants, not an anomaly.
	ErrNotFound = errors.New("not found")

	// ErrIO reports filesystem failures: permissions, disk errors,
	// unexpected rename results, inconsistent pairs.
	ErrIO = errors.New("io failure")
)

// OpError tags a queue failure with its classification marker and the
// operation that produced it while preserving the underlying cause.
type OpError struct {
	marker error
	op     string
	detail string
	cause  error
}

func wrapErr(marker error, op, detail string, cause error) error {
	if marker == nil {
		marker = ErrIO
	}
	return &OpError{marker: marker, op: op, detail: detail, cause: cause}
}

func (e *OpError) Error() string {
	msg := e.marker.Error() + ": " + e.Detail()
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap exposes both the classification marker and the cause so errors.Is
// matches either chain.
func (e *OpError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.marker, e.cause}
	}
	return []error{e.marker}
}

// Detail returns the operation-level description without the wrapped cause.
// Transport layers use it to avoid leaking internal paths and OS error text.
func (e *OpError) Detail() string {
	parts := make([]string, 0, 2)
	if e.op != "" {
		parts = append(parts, e.op)
	}
	if e.detail != "" {
		parts = append(parts, e.detail)
	}
	if len(parts) == 0 {
		return "queue failure"
	}
	return strings.Join(parts, ": ")
}

// Detail extracts the operation-level description from err, falling back to
// the full error text when err did not originate here.
func Detail(err error) string {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Detail()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// KindLabel names the classification of err for structured output.
func KindLabel(err error) string {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "internal"
	}
}

func invalidf(op, format string, args ...any) error {
	return wrapErr(ErrInvalidArgument, op, fmt.Sprintf(format, args...), nil)
}
