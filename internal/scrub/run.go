package scrub

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

const (
	readBufferSize  = 64 * 1024
	writeBufferSize = 64 * 1024
)

// Options configures a run.
type Options struct {
	Patterns Patterns
	Header   Header

	// FlushPending writes a candidate match that is still open at end of
	// input instead of dropping it.
	FlushPending bool
}

// DefaultOptions returns the settings the tool ships with.
func DefaultOptions() Options {
	return Options{
		Patterns: DefaultPatterns(),
		Header:   Header{Skip: DefaultHeaderSkip},
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// Run streams r to w, copying the header verbatim and removing annotations
// from the rest. Read and write errors end the run immediately; whatever was
// already buffered is still flushed to w.
func Run(r io.Reader, w io.Writer, opts Options) (Stats, error) {
	if err := opts.Header.validate(); err != nil {
		return Stats{}, err
	}
	s, err := NewScrubber(opts.Patterns)
	if err != nil {
		return Stats{}, err
	}

	br := bufio.NewReaderSize(r, readBufferSize)
	cw := &countingWriter{w: w}
	bw := bufio.NewWriterSize(cw, writeBufferSize)

	var body int64
	hp := newHeaderPass(opts.Header)
	result := func(err error) (Stats, error) {
		if ferr := bw.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("scrub: write output: %w", ferr)
		}
		st := s.Stats()
		st.HeaderBytes = hp.copied
		st.BytesIn = hp.copied + body
		st.BytesOut = cw.n
		st.EndState = s.State()
		st.EndStateName = st.EndState.String()
		return st, err
	}

	n, err := io.CopyN(bw, br, opts.Header.Skip)
	hp.skipLeft -= n
	hp.copied += n
	if err != nil {
		if errors.Is(err, io.EOF) {
			return result(hp.eofErr())
		}
		return result(fmt.Errorf("scrub: copy header: %w", err))
	}
	for !hp.done() {
		c, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return result(hp.eofErr())
			}
			return result(fmt.Errorf("scrub: read header: %w", err))
		}
		if err := bw.WriteByte(c); err != nil {
			return result(fmt.Errorf("scrub: write header: %w", err))
		}
		hp.feedMarker(c)
	}

	s.Reset(hp.copied)
	out := make([]byte, 0, len(opts.Patterns.Set)+1)
	for {
		c, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return result(fmt.Errorf("scrub: read input: %w", err))
		}
		body++

		out, err = s.Step(c, out[:0])
		if err != nil {
			return result(err)
		}
		if len(out) == 0 {
			continue
		}
		if _, err := bw.Write(out); err != nil {
			return result(fmt.Errorf("scrub: write output: %w", err))
		}
	}

	out = s.Finish(out[:0], opts.FlushPending)
	if len(out) > 0 {
		if _, err := bw.Write(out); err != nil {
			return result(fmt.Errorf("scrub: write output: %w", err))
		}
	}
	return result(nil)
}
