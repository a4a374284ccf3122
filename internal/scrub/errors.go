package scrub

import (
	"errors"
	"fmt"
)

var (
	// ErrShortHeader is matched by a HeaderError when the input ended before
	// the fixed header length was copied.
	ErrShortHeader = errors.New("scrub: input shorter than header")
	// ErrMarkerNotFound is matched by a HeaderError when the input ended
	// before the header marker was seen.
	ErrMarkerNotFound = errors.New("scrub: header marker not found")
	// ErrInvariant is matched by every InvariantError.
	ErrInvariant = errors.New("scrub: matcher invariant violated")
)

// HeaderError reports an input that ended inside the verbatim header.
type HeaderError struct {
	Want   int64  // configured skip length
	Got    int64  // bytes copied before EOF
	Marker string // non-empty when the marker was never seen
}

func (e *HeaderError) Error() string {
	if e.Marker != "" {
		return fmt.Sprintf("scrub: header marker %q not found after %d bytes", e.Marker, e.Got)
	}
	return fmt.Sprintf("scrub: short header: read %d of %d bytes", e.Got, e.Want)
}

func (e *HeaderError) Is(target error) bool {
	if e.Marker != "" {
		return target == ErrMarkerNotFound
	}
	return target == ErrShortHeader
}

// InvariantError means the matcher reached a counter value the pattern table
// makes impossible. It indicates a defect, not bad input.
type InvariantError struct {
	Offset     int64 // absolute input offset of the offending byte
	Byte       byte
	State      State
	MatchCount int
	ValueLen   int
	SetLen     int
	Buffer     []byte
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf(
		"scrub: unexpected matcher state at offset %d (byte %q, state %s): match_count=%d value_len=%d set_len=%d buffer=%q",
		e.Offset, e.Byte, e.State, e.MatchCount, e.ValueLen, e.SetLen, e.Buffer,
	)
}

func (e *InvariantError) Is(target error) bool { return target == ErrInvariant }
