package scrub

import "errors"

// ErrInvalidPatterns is returned when Set does not extend Value.
var ErrInvalidPatterns = errors.New("scrub: set pattern must extend value pattern")

// Scrubber is the byte-at-a-time state machine. It is owned by a single run
// and is not safe for concurrent use.
type Scrubber struct {
	pat   Patterns
	state State
	buf   []byte
	n     int   // confirmed bytes of the candidate in buf
	off   int64 // absolute offset of the next byte
	stats Stats
}

// NewScrubber returns a Scrubber in StateAwaitingBracket.
func NewScrubber(p Patterns) (*Scrubber, error) {
	if !p.valid() {
		return nil, ErrInvalidPatterns
	}
	return &Scrubber{
		pat: p,
		// one spare slot for the byte that breaks a full Set candidate
		buf: make([]byte, len(p.Set)+1),
	}, nil
}

// State returns the current mode.
func (s *Scrubber) State() State { return s.state }

// Pending returns the bytes of the candidate match currently held back.
// The slice aliases internal storage.
func (s *Scrubber) Pending() []byte {
	if s.state != StateSearching {
		return nil
	}
	return s.buf[:s.n]
}

// Reset returns the machine to its initial state. offset is the absolute
// input position of the next byte passed to Step.
func (s *Scrubber) Reset(offset int64) {
	s.state = StateAwaitingBracket
	s.n = 0
	s.off = offset
	s.stats = Stats{}
}

// Step consumes one byte and appends whatever must be written to out.
// The only error is an *InvariantError.
func (s *Scrubber) Step(c byte, out []byte) ([]byte, error) {
	off := s.off
	s.off++

	switch s.state {
	case StateAwaitingBracket:
		out = append(out, c)
		if c == '(' {
			s.state = StateStart
		}
	case StateStart:
		if c == s.pat.Value[0] {
			s.buf[0] = c
			s.n = 1
			s.state = StateSearching
		} else {
			out = append(out, c)
		}
	case StateSkipValue:
		if c == ',' {
			s.state = StateStart
		}
	case StateSkipSet:
		if c == '}' {
			s.state = StateSkipValue
		}
	case StateSearching:
		return s.search(c, off, out)
	default:
		return out, s.invariant(c, off)
	}
	return out, nil
}

func (s *Scrubber) search(c byte, off int64, out []byte) ([]byte, error) {
	valueLen, setLen := len(s.pat.Value), len(s.pat.Set)

	switch {
	case s.n < valueLen:
		if c != s.pat.Value[s.n] {
			return s.flush(c, out), nil
		}
		s.buf[s.n] = c
		s.n++
	case s.n == valueLen && c == '=':
		s.state = StateSkipValue
		s.n = 0
		s.stats.ValuesRemoved++
	case s.n >= valueLen && s.n < setLen:
		if c != s.pat.Set[s.n] {
			return s.flush(c, out), nil
		}
		s.buf[s.n] = c
		s.n++
	case s.n == setLen:
		if c != '=' {
			return s.flush(c, out), nil
		}
		s.state = StateSkipSet
		s.n = 0
		s.stats.SetsRemoved++
	default:
		return out, s.invariant(c, off)
	}
	return out, nil
}

// flush replays a failed candidate together with the byte that broke it.
func (s *Scrubber) flush(c byte, out []byte) []byte {
	s.buf[s.n] = c
	out = append(out, s.buf[:s.n+1]...)
	s.n = 0
	s.state = StateStart
	s.stats.NearMisses++
	return out
}

func (s *Scrubber) invariant(c byte, off int64) error {
	held := s.n
	if held > len(s.buf) {
		held = len(s.buf)
	}
	return &InvariantError{
		Offset:     off,
		Byte:       c,
		State:      s.state,
		MatchCount: s.n,
		ValueLen:   len(s.pat.Value),
		SetLen:     len(s.pat.Set),
		Buffer:     append([]byte(nil), s.buf[:held]...),
	}
}

// Finish records the end-of-input state. When flush is true a pending
// candidate match is appended to out, otherwise it is dropped.
func (s *Scrubber) Finish(out []byte, flush bool) []byte {
	s.stats.EndState = s.state
	s.stats.EndStateName = s.state.String()
	if pending := s.Pending(); len(pending) > 0 {
		s.stats.PendingBytes = len(pending)
		if flush {
			out = append(out, pending...)
			s.stats.PendingFlushed = true
		}
	}
	return out
}

// Stats returns the matcher counters. Byte totals are filled in by the
// driver.
func (s *Scrubber) Stats() Stats { return s.stats }
