package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/cleantree/internal/version"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:      "cleantree",
		Usage:     "Strip region annotations from BEAST tree files",
		ArgsUsage: "INPUT OUTPUT",
		Description: "Copies INPUT to OUTPUT, keeping the header verbatim and removing every\n" +
			"KEY=\"...\" and KEY.set={...} annotation from the trees. Use - for stdin or stdout.",
		Version: version.String(),
		Flags:   append(scrubFlags(), loggingFlags()...),
		Before:  setup,
		Action:  scrubAction,
		Commands: []*cli.Command{
			serveCmd(),
			versionCmd(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
