package shell_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohitmv/qrun/internal/adapters/shell"
	"github.com/mohitmv/qrun/internal/core/domain"
)

func TestExecutor_Execute_Success(t *testing.T) {
	executor := shell.NewExecutor()

	var stdout bytes.Buffer
	status, err := executor.Execute(context.Background(), "echo hello", &stdout, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 0, status)
	assert.Contains(t, stdout.String(), "hello")
}

func TestExecutor_Execute_ShellSemantics(t *testing.T) {
	executor := shell.NewExecutor()

	// The command line is evaluated by the shell, so quoting, variables and
	// multiple words all behave as they would on a terminal.
	var stdout bytes.Buffer
	status, err := executor.Execute(context.Background(), `X=42; echo "value is $X"`, &stdout, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 0, status)
	assert.Contains(t, stdout.String(), "value is 42")
}

func TestExecutor_Execute_StreamRouting(t *testing.T) {
	executor := shell.NewExecutor()

	var stdout, stderr bytes.Buffer
	status, err := executor.Execute(context.Background(), "echo out; echo err >&2", &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, 0, status)
	assert.Contains(t, stdout.String(), "out")
	assert.NotContains(t, stdout.String(), "err")
	assert.Contains(t, stderr.String(), "err")
	assert.NotContains(t, stderr.String(), "out")
}

func TestExecutor_Execute_NonzeroStatus(t *testing.T) {
	tests := []struct {
		name       string
		command    string
		wantStatus int
	}{
		{
			name:       "explicit exit code",
			command:    "exit 42",
			wantStatus: 42,
		},
		{
			name:       "false builtin",
			command:    "false",
			wantStatus: 1,
		},
		{
			name:       "missing command",
			command:    "nonexistent-command-xyz123",
			wantStatus: 127,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor := shell.NewExecutor()

			status, err := executor.Execute(context.Background(), tt.command, io.Discard, io.Discard)

			// A nonzero exit status is an outcome, not an error.
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, status)
		})
	}
}

func TestExecutor_Execute_ContextCancelled(t *testing.T) {
	executor := shell.NewExecutor()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	status, err := executor.Execute(ctx, "sleep 10", io.Discard, io.Discard)

	// The shell is killed, which surfaces as a nonzero status.
	require.NoError(t, err)
	assert.NotEqual(t, 0, status)
}

func TestExecutor_Execute_InterpreterFailure(t *testing.T) {
	executor := shell.NewExecutorWithShell("/no/such/interpreter")

	status, err := executor.Execute(context.Background(), "echo hello", io.Discard, io.Discard)

	require.Error(t, err)
	assert.Equal(t, -1, status)
	// String check for robustness, zerr wrapping does not always satisfy errors.Is.
	assert.Contains(t, err.Error(), domain.ErrInterpreterFailed.Error())
}
