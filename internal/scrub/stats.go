package scrub

// Stats summarises one run.
type Stats struct {
	HeaderBytes   int64  `json:"header_bytes"`
	BytesIn       int64  `json:"bytes_in"`
	BytesOut      int64  `json:"bytes_out"`
	ValuesRemoved int    `json:"values_removed"`
	SetsRemoved   int    `json:"sets_removed"`
	NearMisses    int    `json:"near_misses"`
	EndState      State  `json:"-"`
	EndStateName  string `json:"end_state"`

	// PendingBytes is the size of the candidate match held when input ended.
	// Those bytes are dropped unless Options.FlushPending is set.
	PendingBytes   int  `json:"pending_bytes"`
	PendingFlushed bool `json:"pending_flushed"`
}

// Removed is the total number of annotations dropped.
func (s Stats) Removed() int { return s.ValuesRemoved + s.SetsRemoved }

// Truncated reports whether input ended in the middle of a candidate match
// or an annotation value.
func (s Stats) Truncated() bool {
	switch s.EndState {
	case StateSearching, StateSkipValue, StateSkipSet:
		return true
	default:
		return false
	}
}
