// Package treefile opens the input and output streams of a scrub run.
package treefile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"syscall"
)

// Stdio is the path that selects stdin for input and stdout for output.
const Stdio = "-"

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Open opens path for sequential reading. Stdio selects stdin, which is
// not closed by the returned Closer.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdio {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open input: %s is a directory", path)
	}
	adviseSequential(f)
	return f, nil
}

// Create creates or truncates path. Stdio selects stdout, which is not
// closed by the returned Closer.
func Create(path string) (io.WriteCloser, error) {
	if path == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

// SameFile reports whether in and out name the same existing file, in which
// case creating out would truncate the input before it is read.
func SameFile(in, out string) (bool, error) {
	if in == Stdio || out == Stdio {
		return false, nil
	}
	si, err := os.Stat(in)
	if err != nil {
		return false, err
	}
	so, err := os.Stat(out)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return os.SameFile(si, so), nil
}

// IsBrokenPipe reports whether err comes from a reader that went away, as
// when output is piped into head.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
