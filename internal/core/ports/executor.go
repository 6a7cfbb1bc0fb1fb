// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Executor defines the interface for running shell commands.
//
// It is the process-invocation boundary of the harness: everything that
// touches the operating system to start a child process goes through it, so
// the pipeline can be exercised with fakes.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the given command line through the shell with stdout and
	// stderr attached to the given writers. Stdin is inherited from the
	// harness process.
	//
	// It returns the command's exit status. A nonzero status is not an
	// error; err is non-nil only when the command could not be invoked at
	// all.
	Execute(ctx context.Context, command string, stdout, stderr io.Writer) (int, error)
}
