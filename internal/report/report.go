// Package report describes the outcome of a scrub run in JSON.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/samcharles93/cleantree/internal/scrub"
)

// Report is written by `cleantree --report` and returned by the
// /v1/scrub/report endpoint.
type Report struct {
	ID            string      `json:"id"`
	Input         string      `json:"input,omitempty"`
	Output        string      `json:"output,omitempty"`
	AnnotationKey string      `json:"annotation_key"`
	HeaderSkip    int64       `json:"header_skip"`
	HeaderMarker  string      `json:"header_marker,omitempty"`
	FlushPending  bool        `json:"flush_pending"`
	Stats         scrub.Stats `json:"stats"`
	Truncated     bool        `json:"truncated"`
	StartedAt     time.Time   `json:"started_at"`
	DurationMS    float64     `json:"duration_ms"`
	Error         string      `json:"error,omitempty"`
}

// NewID returns a run identifier.
func NewID() string {
	return "scrub_" + uuid.NewString()
}

// New starts a report for a run with the given options.
func New(id string, opts scrub.Options) *Report {
	return &Report{
		ID:            id,
		AnnotationKey: string(opts.Patterns.Value),
		HeaderSkip:    opts.Header.Skip,
		HeaderMarker:  opts.Header.Marker,
		FlushPending:  opts.FlushPending,
		StartedAt:     time.Now().UTC(),
	}
}

// Finish records the result of the run.
func (r *Report) Finish(st scrub.Stats, err error, elapsed time.Duration) {
	r.Stats = st
	r.Truncated = st.Truncated()
	r.DurationMS = float64(elapsed.Microseconds()) / 1000
	if err != nil {
		r.Error = err.Error()
	}
}

// Marshal encodes the report as indented JSON.
func (r *Report) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteFile writes the report to path, replacing any existing file.
func WriteFile(path string, r *Report) error {
	data, err := r.Marshal()
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
