package scrub

import "fmt"

// DefaultHeaderSkip is the length of the alignment preamble in the tree files
// the tool was first written for.
const DefaultHeaderSkip = 48412

// Header describes the leading part of the input that is copied verbatim.
// Skip bytes are copied first; if Marker is set, copying then continues
// through the end of its first occurrence.
type Header struct {
	Skip   int64
	Marker string
}

func (h Header) validate() error {
	if h.Skip < 0 {
		return fmt.Errorf("scrub: negative header skip %d", h.Skip)
	}
	return nil
}

// markerMatcher finds a literal in a byte stream without lookback
// (Knuth-Morris-Pratt).
type markerMatcher struct {
	pat  []byte
	fail []int
	k    int
}

func newMarkerMatcher(marker string) *markerMatcher {
	pat := []byte(marker)
	fail := make([]int, len(pat))
	for i, k := 1, 0; i < len(pat); i++ {
		for k > 0 && pat[i] != pat[k] {
			k = fail[k-1]
		}
		if pat[i] == pat[k] {
			k++
		}
		fail[i] = k
	}
	return &markerMatcher{pat: pat, fail: fail}
}

// feed reports whether c completes the marker.
func (m *markerMatcher) feed(c byte) bool {
	for m.k > 0 && c != m.pat[m.k] {
		m.k = m.fail[m.k-1]
	}
	if c == m.pat[m.k] {
		m.k++
	}
	if m.k == len(m.pat) {
		m.k = m.fail[m.k-1]
		return true
	}
	return false
}

// headerPass tracks progress through the header for chunked callers.
type headerPass struct {
	h        Header
	skipLeft int64
	marker   *markerMatcher
	found    bool
	copied   int64
}

func newHeaderPass(h Header) *headerPass {
	hp := &headerPass{h: h, skipLeft: h.Skip}
	if h.Marker != "" {
		hp.marker = newMarkerMatcher(h.Marker)
	}
	return hp
}

func (hp *headerPass) done() bool {
	return hp.skipLeft == 0 && (hp.marker == nil || hp.found)
}

// take returns how many leading bytes of p belong to the header.
func (hp *headerPass) take(p []byte) int {
	n := 0
	if hp.skipLeft > 0 {
		k := min(int64(len(p)), hp.skipLeft)
		hp.skipLeft -= k
		hp.copied += k
		n = int(k)
		if hp.skipLeft > 0 {
			return n
		}
	}
	if hp.marker == nil || hp.found {
		return n
	}
	for n < len(p) {
		c := p[n]
		n++
		if hp.feedMarker(c) {
			break
		}
	}
	return n
}

// feedMarker accounts one byte copied after the fixed skip and reports
// whether it completed the marker.
func (hp *headerPass) feedMarker(c byte) bool {
	hp.copied++
	if hp.marker.feed(c) {
		hp.found = true
	}
	return hp.found
}

// eofErr is the error for input that ended before the header did.
func (hp *headerPass) eofErr() error {
	if hp.skipLeft > 0 {
		return &HeaderError{Want: hp.h.Skip, Got: hp.copied}
	}
	if hp.marker != nil && !hp.found {
		return &HeaderError{Want: hp.h.Skip, Got: hp.copied, Marker: hp.h.Marker}
	}
	return nil
}
