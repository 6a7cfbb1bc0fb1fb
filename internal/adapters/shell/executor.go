// Package shell provides the shell executor adapter.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"go.trai.ch/zerr"

	"github.com/mohitmv/qrun/internal/core/domain"
)

// DefaultShell is the command interpreter used to run command lines.
const DefaultShell = "sh"

// Executor implements ports.Executor by handing command lines to the system
// shell. The command is passed verbatim to `sh -c`, so the string the
// harness prints is exactly the string the shell evaluates.
type Executor struct {
	shell string
}

// NewExecutor creates a new shell Executor.
func NewExecutor() *Executor {
	return &Executor{shell: DefaultShell}
}

// NewExecutorWithShell creates an Executor that uses the given interpreter
// instead of the default shell.
func NewExecutorWithShell(shell string) *Executor {
	return &Executor{shell: shell}
}

// Execute runs the command line with stdout and stderr attached to the given
// writers. Stdin is inherited from the harness process so interactive test
// binaries keep working.
//
// The returned int is the command's exit status. A nonzero status is an
// outcome, not an error; err is non-nil only when the interpreter could not
// be invoked at all.
func (e *Executor) Execute(ctx context.Context, command string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, e.shell, "-c", command) //nolint:gosec // command assembled from config
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, zerr.With(zerr.Wrap(err, domain.ErrInterpreterFailed.Error()), "command", command)
	}

	return 0, nil
}
