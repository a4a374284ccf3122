package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cleantree/internal/config"
	"github.com/samcharles93/cleantree/internal/logger"
	"github.com/samcharles93/cleantree/internal/report"
	"github.com/samcharles93/cleantree/internal/scrub"
)

const (
	testHeader = "#NEXUS\nBegin trees;\n"
	testTree   = testHeader +
		`tree STATE_0 = ((a[&Eight_loc_Rec_regions_removed="ACGT",rate=1]:0.5,` +
		`b[&Eight_loc_Rec_regions_removed.set={1,2},rate=2]:0.25));` + "\nEnd;\n"
	testClean = testHeader + `tree STATE_0 = ((a[&rate=1]:0.5,b[&rate=2]:0.25));` + "\nEnd;\n"
)

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.trees")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func testOptions() scrub.Options {
	return scrub.Options{
		Patterns: scrub.DefaultPatterns(),
		Header:   scrub.Header{Skip: int64(len(testHeader))},
	}
}

// runApp runs the full command with stdout and stderr captured. The user's
// config file is never read.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvPath, filepath.Join(t.TempDir(), "missing.yaml"))

	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}
	err := app.Run(context.Background(), append([]string{"cleantree"}, args...))
	return stdout.String(), stderr.String(), err
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

func TestRunScrub(t *testing.T) {
	in := writeInput(t, testTree)
	out := filepath.Join(t.TempDir(), "out.trees")
	ctx := logger.WithContext(context.Background(), logger.Discard())

	st, err := runScrub(ctx, scrubJob{input: in, output: out, opts: testOptions()})
	if err != nil {
		t.Fatalf("runScrub: %v", err)
	}
	if got := readFile(t, out); got != testClean {
		t.Fatalf("output mismatch:\ngot  %q\nwant %q", got, testClean)
	}
	if st.ValuesRemoved != 1 || st.SetsRemoved != 1 {
		t.Fatalf("removed: values=%d sets=%d, want 1 and 1", st.ValuesRemoved, st.SetsRemoved)
	}
	if st.HeaderBytes != int64(len(testHeader)) {
		t.Fatalf("header bytes: got %d want %d", st.HeaderBytes, len(testHeader))
	}
	if st.BytesOut != int64(len(testClean)) {
		t.Fatalf("bytes out: got %d want %d", st.BytesOut, len(testClean))
	}
}

func TestRunScrubErrors(t *testing.T) {
	ctx := logger.WithContext(context.Background(), logger.Discard())

	t.Run("same file", func(t *testing.T) {
		in := writeInput(t, testTree)
		_, err := runScrub(ctx, scrubJob{input: in, output: in, opts: testOptions()})
		if err == nil || !strings.Contains(err.Error(), "same file") {
			t.Fatalf("expected same file error, got %v", err)
		}
		if got := readFile(t, in); got != testTree {
			t.Fatalf("input was modified")
		}
	})

	t.Run("missing input", func(t *testing.T) {
		in := filepath.Join(t.TempDir(), "nope.trees")
		out := filepath.Join(t.TempDir(), "out.trees")
		_, err := runScrub(ctx, scrubJob{input: in, output: out, opts: testOptions()})
		if err == nil || !strings.Contains(err.Error(), in) {
			t.Fatalf("expected error naming %s, got %v", in, err)
		}
	})

	t.Run("short header", func(t *testing.T) {
		in := writeInput(t, "#NEXUS")
		out := filepath.Join(t.TempDir(), "out.trees")
		_, err := runScrub(ctx, scrubJob{input: in, output: out, opts: testOptions()})
		if !errors.Is(err, scrub.ErrShortHeader) {
			t.Fatalf("expected ErrShortHeader, got %v", err)
		}
		if !strings.Contains(err.Error(), in) {
			t.Fatalf("error should name the input: %v", err)
		}
		// partial output is left in place
		if got := readFile(t, out); got != "#NEXUS" {
			t.Fatalf("partial output: got %q", got)
		}
	})
}

func TestRunScrubReport(t *testing.T) {
	in := writeInput(t, testTree)
	dir := t.TempDir()
	out := filepath.Join(dir, "out.trees")
	rp := filepath.Join(dir, "report.json")
	ctx := logger.WithContext(context.Background(), logger.Discard())

	if _, err := runScrub(ctx, scrubJob{input: in, output: out, report: rp, opts: testOptions()}); err != nil {
		t.Fatalf("runScrub: %v", err)
	}

	var rep report.Report
	if err := json.Unmarshal([]byte(readFile(t, rp)), &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if !strings.HasPrefix(rep.ID, "scrub_") {
		t.Fatalf("unexpected report id %q", rep.ID)
	}
	if rep.Input != in || rep.Output != out {
		t.Fatalf("paths: got %q -> %q", rep.Input, rep.Output)
	}
	if rep.Stats.ValuesRemoved != 1 || rep.Stats.SetsRemoved != 1 {
		t.Fatalf("report stats: %+v", rep.Stats)
	}
	if rep.Error != "" || rep.Truncated {
		t.Fatalf("unexpected failure in report: error=%q truncated=%v", rep.Error, rep.Truncated)
	}
}

func TestAppScrub(t *testing.T) {
	in := writeInput(t, testTree)
	out := filepath.Join(t.TempDir(), "out.trees")

	_, stderr, err := runApp(t, "--header-skip", "20", "--log-format", "text", in, out)
	if err != nil {
		t.Fatalf("run: %v (stderr=%s)", err, stderr)
	}
	if got := readFile(t, out); got != testClean {
		t.Fatalf("output mismatch:\ngot  %q\nwant %q", got, testClean)
	}
	if !strings.Contains(stderr, "msg=scrubbed") || !strings.Contains(stderr, "values_removed=1") {
		t.Fatalf("expected summary log, got %q", stderr)
	}
}

func TestAppHeaderMarker(t *testing.T) {
	in := writeInput(t, testTree)
	out := filepath.Join(t.TempDir(), "out.trees")

	if _, stderr, err := runApp(t, "--header-marker", "Begin trees;", in, out); err != nil {
		t.Fatalf("run: %v (stderr=%s)", err, stderr)
	}
	if got := readFile(t, out); got != testClean {
		t.Fatalf("output mismatch:\ngot  %q\nwant %q", got, testClean)
	}
}

func TestAppConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "header_marker: \"Begin trees;\"\nlog_format: json\nflush_pending: true\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Run("config applies", func(t *testing.T) {
		in := writeInput(t, testHeader+"(a,Eight_loc")
		out := filepath.Join(dir, "flushed.trees")
		_, stderr, err := runApp(t, "--config", cfgPath, in, out)
		if err != nil {
			t.Fatalf("run: %v (stderr=%s)", err, stderr)
		}
		if got := readFile(t, out); got != testHeader+"(a,Eight_loc" {
			t.Fatalf("pending bytes not flushed: %q", got)
		}
		if !strings.Contains(stderr, `"msg":"scrubbed"`) {
			t.Fatalf("expected json logs, got %q", stderr)
		}
	})

	t.Run("flags win", func(t *testing.T) {
		in := writeInput(t, testHeader+"(a,Eight_loc")
		out := filepath.Join(dir, "dropped.trees")
		_, stderr, err := runApp(t, "--config", cfgPath, "--flush-pending=false", "--log-format", "text", in, out)
		if err != nil {
			t.Fatalf("run: %v (stderr=%s)", err, stderr)
		}
		if got := readFile(t, out); got != testHeader+"(a," {
			t.Fatalf("pending bytes should be dropped: %q", got)
		}
		if !strings.Contains(stderr, "pending_bytes=9") {
			t.Fatalf("expected truncation warning, got %q", stderr)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(bad, []byte("header_skp: 3\n"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		in := writeInput(t, testTree)
		_, _, err := runApp(t, "--config", bad, in, filepath.Join(dir, "x.trees"))
		if err == nil || !strings.Contains(err.Error(), bad) {
			t.Fatalf("expected error naming %s, got %v", bad, err)
		}
	})
}

func TestAppUsageErrors(t *testing.T) {
	in := writeInput(t, testTree)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing output", args: []string{in}, want: "expected INPUT and OUTPUT"},
		{name: "empty key", args: []string{"--key", "", in, in + ".out"}, want: "key"},
		{name: "missing input", args: []string{in + ".nope", in + ".out"}, want: "no such file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runApp(t, tt.args...)
			if exitCode(err) != 1 {
				t.Fatalf("expected exit code 1, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestAppBadLogLevel(t *testing.T) {
	in := writeInput(t, testTree)
	_, _, err := runApp(t, "--log-level", "loud", in, in+".out")
	if err == nil || !strings.Contains(err.Error(), "loud") {
		t.Fatalf("expected log level error, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runApp(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(stdout, "version:") {
		t.Fatalf("unexpected output %q", stdout)
	}
}
