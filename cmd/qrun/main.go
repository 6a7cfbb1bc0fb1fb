// Package main is the entry point for the qrun test harness.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"github.com/mohitmv/qrun/cmd/qrun/commands"
	"github.com/mohitmv/qrun/internal/app"
	"github.com/mohitmv/qrun/internal/core/domain"
	_ "github.com/mohitmv/qrun/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr passed in
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	// Apply options
	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		var exitErr *domain.ExitError
		if errors.As(err, &exitErr) {
			// The child's exit status becomes the harness's own. The
			// status renderer already reported the failure, so there is
			// nothing to log here.
			if exitErr.Status > 0 {
				return exitErr.Status
			}
			// A signal-terminated child reports -1, which has no shell
			// representation.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
