package innertube

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates the remote entity no longer exists. What to do with
// locally cached copies is up to the caller.
var ErrNotFound = errors.New("entity not found")

// TransportError wraps a network or remote-side failure. The core never
// retries; retry and backoff policy belong to whoever owns the transport.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("innertube %s: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError indicates a required field was absent from an otherwise OK
// response. This usually means the remote payload shape drifted, so it must
// surface loudly instead of degrading to a zero value.
type DecodeError struct {
	Entity string
	Field  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: missing required field %q", e.Entity, e.Field)
}

// PlaybackUnresolvableError is returned when every resolver path for a track
// has been exhausted.
type PlaybackUnresolvableError struct {
	TrackID string
	Reasons []string
}

func (e *PlaybackUnresolvableError) Error() string {
	if len(e.Reasons) == 0 {
		return fmt.Sprintf("playback unresolvable for %s", e.TrackID)
	}

	return fmt.Sprintf("playback unresolvable for %s: %s", e.TrackID, strings.Join(e.Reasons, "; "))
}

// notFoundMessage reports whether a remote error message describes a deleted
// or otherwise missing entity. The service has no structured code for this,
// only prose.
func notFoundMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, pattern := range []string{
		"not found",
		"does not exist",
		"has been removed",
		"unavailable",
		"deleted",
	} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	return false
}
