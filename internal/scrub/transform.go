package scrub

import "golang.org/x/text/transform"

var _ transform.Transformer = (*Transformer)(nil)

// Transformer runs the scrubber as a transform.Transformer so it can sit in
// an io.Reader or io.Writer chain (transform.NewReader, transform.NewWriter).
// It produces the same bytes as Run for any chunking of the input.
type Transformer struct {
	opts     Options
	s        *Scrubber
	hp       *headerPass
	body     int64
	written  int64
	finished bool
}

// NewTransformer validates opts and returns a Transformer ready for use.
func NewTransformer(opts Options) (*Transformer, error) {
	if err := opts.Header.validate(); err != nil {
		return nil, err
	}
	s, err := NewScrubber(opts.Patterns)
	if err != nil {
		return nil, err
	}
	t := &Transformer{opts: opts, s: s}
	t.Reset()
	return t, nil
}

// Reset implements transform.Transformer.
func (t *Transformer) Reset() {
	t.hp = newHeaderPass(t.opts.Header)
	t.s.Reset(0)
	t.body = 0
	t.written = 0
	t.finished = false
}

// Transform implements transform.Transformer.
func (t *Transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	defer func() { t.written += int64(nDst) }()

	if !t.hp.done() {
		n := t.hp.take(src[:min(len(src), len(dst))])
		copy(dst, src[:n])
		nDst, nSrc = n, n
		if !t.hp.done() {
			switch {
			case nSrc < len(src):
				return nDst, nSrc, transform.ErrShortDst
			case atEOF:
				return nDst, nSrc, t.hp.eofErr()
			default:
				return nDst, nSrc, nil
			}
		}
		t.s.Reset(t.hp.copied)
	}

	// worst case for one byte is a flush of a full Set candidate
	room := len(t.opts.Patterns.Set) + 1
	for nSrc < len(src) {
		if len(dst)-nDst < room {
			return nDst, nSrc, transform.ErrShortDst
		}
		out, serr := t.s.Step(src[nSrc], dst[nDst:nDst:len(dst)])
		if serr != nil {
			return nDst, nSrc, serr
		}
		nSrc++
		t.body++
		nDst += len(out)
	}

	if atEOF && !t.finished {
		if t.opts.FlushPending && len(dst)-nDst < len(t.s.Pending()) {
			return nDst, nSrc, transform.ErrShortDst
		}
		out := t.s.Finish(dst[nDst:nDst:len(dst)], t.opts.FlushPending)
		nDst += len(out)
		t.finished = true
	}
	return nDst, nSrc, nil
}

// Stats returns the counters for the input transformed since the last Reset.
func (t *Transformer) Stats() Stats {
	st := t.s.Stats()
	st.HeaderBytes = t.hp.copied
	st.BytesIn = t.hp.copied + t.body
	st.BytesOut = t.written
	if !t.finished {
		st.EndState = t.s.State()
		st.EndStateName = st.EndState.String()
	}
	return st
}
