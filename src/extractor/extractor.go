package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/veedubyou/untracker/src/extractor/application"
	"github.com/veedubyou/untracker/src/extractor/internal/engine/openmpt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := application.RunCLI(ctx, os.Args[1:], os.Stdout, os.Stderr, openmpt.Loader{})
	stop()

	os.Exit(code)
}
