package scrub

import (
	"errors"
	"fmt"
)

const (
	// DefaultKey is the annotation key written by BEAST for the masked
	// region list.
	DefaultKey = "Eight_loc_Rec_regions_removed"

	// SetSuffix turns the region list key into its set-valued companion.
	SetSuffix = ".set"

	// MaxKeyLen bounds the annotation key. A Transformer needs room for a
	// full Set candidate in every destination buffer, and transform.Reader
	// uses 4 KiB buffers.
	MaxKeyLen = 1024
)

// ErrEmptyKey is returned by NewPatterns for an empty annotation key.
var ErrEmptyKey = errors.New("scrub: annotation key is empty")

// ErrKeyTooLong is returned by NewPatterns for a key over MaxKeyLen bytes.
var ErrKeyTooLong = fmt.Errorf("scrub: annotation key longer than %d bytes", MaxKeyLen)

// Patterns is the pair of markers the scrubber removes. Set always begins
// with the bytes of Value, which is what lets a single buffer track both
// candidates.
type Patterns struct {
	Value []byte // key=value form, removed through the next ','
	Set   []byte // key.set={...} form, removed through '}' and the next ','
}

// NewPatterns builds the pattern table for an annotation key.
func NewPatterns(key string) (Patterns, error) {
	if key == "" {
		return Patterns{}, ErrEmptyKey
	}
	if len(key) > MaxKeyLen {
		return Patterns{}, ErrKeyTooLong
	}
	return Patterns{
		Value: []byte(key),
		Set:   []byte(key + SetSuffix),
	}, nil
}

// DefaultPatterns returns the table for DefaultKey.
func DefaultPatterns() Patterns {
	p, _ := NewPatterns(DefaultKey)
	return p
}

func (p Patterns) valid() bool {
	if len(p.Value) == 0 || len(p.Value) > MaxKeyLen || len(p.Value) >= len(p.Set) {
		return false
	}
	for i, c := range p.Value {
		if p.Set[i] != c {
			return false
		}
	}
	return true
}
