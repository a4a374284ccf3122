package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cleantree/internal/config"
	"github.com/samcharles93/cleantree/internal/logger"
)

// fileConfig holds the config file loaded by setup, for subcommands that
// have settings of their own.
var fileConfig config.Config

// setup runs before every command: it loads the config file, fills in flags
// the user did not set and installs the logger in the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return ctx, err
	}
	fileConfig = cfg
	applyConfig(cmd, cfg)

	level := logLevel
	if debug {
		level = "debug"
	}
	log, err := logger.Open(cmd.Root().ErrWriter, logFormat, level)
	if err != nil {
		return ctx, err
	}
	if path != "" {
		log.Debug("config", "path", path)
	}
	return logger.WithContext(ctx, log), nil
}

// applyConfig applies config file defaults to flag variables when the
// corresponding flag was not explicitly set.
func applyConfig(c *cli.Command, cfg config.Config) {
	if cfg.HeaderSkip != nil && !c.IsSet("header-skip") {
		headerSkip = *cfg.HeaderSkip
	}
	if cfg.HeaderMarker != "" && !c.IsSet("header-marker") {
		headerMarker = cfg.HeaderMarker
	}
	// a marker on its own ends the header by content alone
	if headerMarker != "" && cfg.HeaderSkip == nil && !c.IsSet("header-skip") {
		headerSkip = 0
	}
	if cfg.AnnotationKey != "" && !c.IsSet("key") {
		annotationKey = cfg.AnnotationKey
	}
	if cfg.FlushPending != nil && !c.IsSet("flush-pending") {
		flushPending = *cfg.FlushPending
	}
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg config.Config, addr *string, maxBody *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxBodyBytes != nil && !c.IsSet("max-body-bytes") {
		*maxBody = *cfg.MaxBodyBytes
	}
}
