package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ColinPollard/ToolPathGen/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Commands report their own errors; cobra prints the rest.
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
