package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cleantree/internal/logger"
	"github.com/samcharles93/cleantree/internal/report"
	"github.com/samcharles93/cleantree/internal/scrub"
	"github.com/samcharles93/cleantree/internal/treefile"
)

type scrubJob struct {
	input  string
	output string
	report string
	opts   scrub.Options
}

func scrubAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 2 {
		_ = cli.ShowAppHelp(cmd)
		return cli.Exit(fmt.Sprintf("error: expected INPUT and OUTPUT, got %d argument(s)", cmd.NArg()), 1)
	}
	opts, err := scrubOptions()
	if err != nil {
		return cli.Exit("error: "+err.Error(), 1)
	}
	job := scrubJob{
		input:  cmd.Args().Get(0),
		output: cmd.Args().Get(1),
		report: reportPath,
		opts:   opts,
	}
	if _, err := runScrub(ctx, job); err != nil {
		return cli.Exit("error: "+err.Error(), 1)
	}
	return nil
}

// runScrub copies job.input to job.output through the scrubber. Partial
// output is left in place on failure.
func runScrub(ctx context.Context, job scrubJob) (scrub.Stats, error) {
	id := report.NewID()
	log := logger.FromContext(ctx).With("id", id)

	same, err := treefile.SameFile(job.input, job.output)
	if err != nil {
		return scrub.Stats{}, err
	}
	if same {
		return scrub.Stats{}, fmt.Errorf("input and output are the same file: %s", job.input)
	}

	in, err := treefile.Open(job.input)
	if err != nil {
		return scrub.Stats{}, err
	}
	defer func() { _ = in.Close() }()

	out, err := treefile.Create(job.output)
	if err != nil {
		return scrub.Stats{}, err
	}

	log.Debug("scrubbing",
		"input", job.input,
		"output", job.output,
		"key", string(job.opts.Patterns.Value),
		"header_skip", job.opts.Header.Skip,
		"header_marker", job.opts.Header.Marker,
	)
	start := time.Now()
	st, err := scrub.Run(in, out, job.opts)
	if cerr := out.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	elapsed := time.Since(start)

	if treefile.IsBrokenPipe(err) {
		log.Debug("output closed by reader", "bytes_out", st.BytesOut)
		err = nil
	}

	var inv *scrub.InvariantError
	if errors.As(err, &inv) {
		log.Error("matcher invariant violated",
			"offset", inv.Offset,
			"byte", string(inv.Byte),
			"state", inv.State.String(),
			"match_count", inv.MatchCount,
			"value_len", inv.ValueLen,
			"set_len", inv.SetLen,
			"buffer", string(inv.Buffer),
		)
	}
	if err != nil {
		err = fmt.Errorf("%s -> %s: %w", job.input, job.output, err)
	}

	if job.report != "" {
		rep := report.New(id, job.opts)
		rep.Input = job.input
		rep.Output = job.output
		rep.StartedAt = start.UTC()
		rep.Finish(st, err, elapsed)
		if werr := report.WriteFile(job.report, rep); werr != nil {
			if err == nil {
				return st, fmt.Errorf("%s: %w", job.report, werr)
			}
			log.Warn("report not written", "path", job.report, "error", werr)
		}
	}
	if err != nil {
		return st, err
	}

	if st.Truncated() {
		log.Warn("input ended inside an annotation",
			"end_state", st.EndStateName,
			"pending_bytes", st.PendingBytes,
			"pending_flushed", st.PendingFlushed,
		)
	}
	log.Info("scrubbed",
		"input", job.input,
		"output", job.output,
		"header_bytes", st.HeaderBytes,
		"bytes_in", st.BytesIn,
		"bytes_out", st.BytesOut,
		"values_removed", st.ValuesRemoved,
		"sets_removed", st.SetsRemoved,
		"near_misses", st.NearMisses,
		"duration", elapsed,
	)
	return st, nil
}
