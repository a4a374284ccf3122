package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cleantree/internal/api"
	"github.com/samcharles93/cleantree/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		maxBody     int64
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the scrubber over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.Int64Flag{
				Name:        "max-body-bytes",
				Usage:       "largest request body accepted",
				Value:       api.DefaultMaxBodyBytes,
				Destination: &maxBody,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, fileConfig, &addr, &maxBody)

			opts, err := scrubOptions()
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}
			server := api.NewServer(api.Config{
				Options:      opts,
				MaxBodyBytes: maxBody,
				Logger:       log,
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server",
				"address", addr,
				"key", string(opts.Patterns.Value),
				"header_skip", opts.Header.Skip,
				"max_body_bytes", maxBody,
			)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					srv.ErrorLog = logger.StdLogger(log.With("component", "http"), slog.LevelError)
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
