package main

import (
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cleantree/internal/config"
	"github.com/samcharles93/cleantree/internal/scrub"
)

var (
	configPath    string
	headerSkip    int64
	headerMarker  string
	annotationKey string
	flushPending  bool
	reportPath    string
	logLevel      string
	logFormat     string
	debug         bool
)

func scrubFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml",
			Sources:     cli.EnvVars(config.EnvPath),
			Destination: &configPath,
		},
		&cli.Int64Flag{
			Name:        "header-skip",
			Aliases:     []string{"skip"},
			Usage:       "bytes copied verbatim before scrubbing starts",
			Value:       scrub.DefaultHeaderSkip,
			Destination: &headerSkip,
		},
		&cli.StringFlag{
			Name:        "header-marker",
			Aliases:     []string{"marker"},
			Usage:       "copy verbatim through the first occurrence of this text (e.g. \"Begin trees;\")",
			Destination: &headerMarker,
		},
		&cli.StringFlag{
			Name:        "key",
			Usage:       "annotation key to remove",
			Value:       scrub.DefaultKey,
			Destination: &annotationKey,
		},
		&cli.BoolFlag{
			Name:        "flush-pending",
			Usage:       "write a partial match left at end of input instead of dropping it",
			Destination: &flushPending,
		},
		&cli.StringFlag{
			Name:        "report",
			Usage:       "write a JSON run report to this path",
			Destination: &reportPath,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// scrubOptions builds scrubber options from the resolved flag values.
func scrubOptions() (scrub.Options, error) {
	p, err := scrub.NewPatterns(annotationKey)
	if err != nil {
		return scrub.Options{}, err
	}
	return scrub.Options{
		Patterns:     p,
		Header:       scrub.Header{Skip: headerSkip, Marker: headerMarker},
		FlushPending: flushPending,
	}, nil
}
