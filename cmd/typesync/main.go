// Package main is the entry point for the typesync tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/typesync/cmd/typesync/commands"
	"go.trai.ch/typesync/internal/adapters/telemetry"
	"go.trai.ch/typesync/internal/app"
	_ "go.trai.ch/typesync/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, defaultProvider))
}

func defaultProvider(ctx context.Context) (*app.Components, func(), error) {
	c, _, err := graft.ExecuteFor[*app.Components](ctx)
	return c, func() {}, err
}

// jsonSwitch is implemented by loggers that can emit JSON records.
type jsonSwitch interface {
	SetJSON(enable bool)
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		// The logger is not available if initialization failed.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()
	defer func() {
		_ = components.Telemetry.Close()
	}()

	cli := commands.New(components.App, commands.WithJSONLogs(func() {
		if l, ok := components.Logger.(jsonSwitch); ok {
			l.SetJSON(true)
		}
		// Stage lines would interleave with the JSON records.
		components.App.WithTelemetry(telemetry.NewNoop())
	}))
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
