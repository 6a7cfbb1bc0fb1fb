// Package harness implements the compile-and-run pipeline: build the compile
// command from configuration, execute it, and only when it exits zero run the
// produced test binary under time.
package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mohitmv/qrun/internal/core/domain"
	"github.com/mohitmv/qrun/internal/core/ports"
)

// CompileCommand constructs the compile command line: compiler invocation,
// test source, include flag, static library, output flag, in that order.
// Paths are not validated here; a bad path is the compiler's error to report.
func CompileCommand(cfg domain.Config) string {
	return fmt.Sprintf("%s %s -I%s %s -o %s",
		cfg.Compiler, cfg.Source, cfg.IncludeDir, cfg.Library, cfg.Output)
}

// RunCommand constructs the timed invocation of the output binary.
func RunCommand(cfg domain.Config) string {
	return "time " + cfg.Output
}

// JoinedCommand is the full AND-chained command line. It is echoed before the
// run phase so the console transcript reads as one shell command, even though
// the pipeline executes the two phases separately.
func JoinedCommand(cfg domain.Config) string {
	return CompileCommand(cfg) + " && " + RunCommand(cfg)
}

// Harness executes the two-phase pipeline against an injected executor, so
// the orchestration can be tested without a real compiler.
type Harness struct {
	executor ports.Executor
	tracer   ports.Tracer

	stdout io.Writer
	stderr io.Writer
}

// NewHarness creates a Harness. Command echoes go to stdout and both streams
// are inherited by the child processes. Nil writers default to the process's
// own streams.
func NewHarness(executor ports.Executor, tracer ports.Tracer, stdout, stderr io.Writer) *Harness {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Harness{
		executor: executor,
		tracer:   tracer,
		stdout:   stdout,
		stderr:   stderr,
	}
}

// Run executes the pipeline for the given configuration.
//
// The compile phase always runs. The run phase is reached only when the
// compiler exits zero; a nonzero compile exit short-circuits it, mirroring
// shell AND-chaining. A nonzero exit status from either phase is recorded in
// the returned invocation, not returned as an error. The error return is
// reserved for the pipeline itself breaking, such as a missing command
// interpreter.
func (h *Harness) Run(ctx context.Context, cfg domain.Config) (*domain.Invocation, error) {
	inv := &domain.Invocation{StartedAt: time.Now()}

	compileCmd := CompileCommand(cfg)

	compile, err := h.runPhase(ctx, domain.PhaseCompile, compileCmd, compileCmd)
	if err != nil {
		return nil, err
	}
	inv.Compile = compile

	if compile.ExitCode != 0 {
		return inv, nil
	}

	// The echoed line is the joined command, the executed one is only the
	// timed run. The compiler already ran, rerunning the chain would compile
	// twice.
	run, err := h.runPhase(ctx, domain.PhaseRun, JoinedCommand(cfg), RunCommand(cfg))
	if err != nil {
		return nil, err
	}
	inv.Run = run

	return inv, nil
}

// runPhase echoes the command line, executes the phase command, and records
// the outcome on a span.
func (h *Harness) runPhase(ctx context.Context, phase domain.Phase, echo, command string) (*domain.PhaseResult, error) {
	fmt.Fprintln(h.stdout, echo)

	ctx, span := h.tracer.Start(ctx, string(phase))
	defer span.End()

	span.SetAttribute("command", command)

	start := time.Now()
	status, err := h.executor.Execute(ctx, command, h.stdout, h.stderr)
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("exit_code", status)
	if status != 0 {
		span.RecordError(&domain.ExitError{Phase: phase, Status: status})
	}

	return &domain.PhaseResult{
		Phase:    phase,
		Command:  command,
		ExitCode: status,
		Duration: duration,
	}, nil
}
