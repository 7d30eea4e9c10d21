// Package main is the entry point for the ninjagen build file generator.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.trai.ch/ninjagen/cmd/ninjagen/commands"
	"go.trai.ch/ninjagen/internal/wiring"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components := wiring.Build()

	cli := commands.New(components.App)
	cli.SetArgs(args)
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
