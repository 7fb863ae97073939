package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"

	"github.com/artur/youtube-downloader/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args,
		cli.WithStdout(colorable.NewColorableStdout()),
		cli.WithStderr(colorable.NewColorableStderr()),
		cli.WithColor(!color.NoColor),
	)
	stop()
	os.Exit(code)
}
