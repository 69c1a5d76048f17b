package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("justifai"),
		kong.Description("Summarize legal case documents and predict custody outcomes."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc, err := newRunContext(ctx, cli.Globals, os.Stdin, os.Stdout, os.Stderr)
	kctx.FatalIfErrorf(err)
	defer rc.Close()

	kctx.FatalIfErrorf(kctx.Run(rc))
}
