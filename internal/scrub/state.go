package scrub

import "fmt"

// State is the mode of a Scrubber.
type State uint8

const (
	// StateAwaitingBracket copies bytes until the first '(' opens a tree.
	StateAwaitingBracket State = iota
	// StateStart passes bytes through with no candidate match pending.
	StateStart
	// StateSearching holds a candidate match in the buffer.
	StateSearching
	// StateSkipValue drops a key=value annotation up to and including ','.
	StateSkipValue
	// StateSkipSet drops a key.set={...} annotation up to '}'.
	StateSkipSet
)

func (s State) String() string {
	switch s {
	case StateAwaitingBracket:
		return "awaiting_bracket"
	case StateStart:
		return "start"
	case StateSearching:
		return "searching"
	case StateSkipValue:
		return "skip_value"
	case StateSkipSet:
		return "skip_set"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}
