package domain

import (
	"fmt"
	"time"
)

// Phase identifies one step of the harness pipeline.
type Phase string

const (
	// PhaseCompile is the compilation step.
	PhaseCompile Phase = "compile"
	// PhaseRun is the timed execution of the compiled test binary. It is
	// reached only when the compile phase exits zero.
	PhaseRun Phase = "run"
)

// PhaseResult records the outcome of a single executed phase.
type PhaseResult struct {
	Phase    Phase         `json:"phase"`
	Command  string        `json:"command"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration_ns"`
}

// Invocation is the complete record of one harness invocation.
//
// Compile is always present once the pipeline ran. Run is nil when the
// compile phase failed and the run phase was short-circuited.
type Invocation struct {
	StartedAt time.Time    `json:"started_at"`
	Compile   *PhaseResult `json:"compile"`
	Run       *PhaseResult `json:"run,omitempty"`
}

// Last returns the result of the last executed phase.
func (i *Invocation) Last() *PhaseResult {
	if i.Run != nil {
		return i.Run
	}
	return i.Compile
}

// ExitCode returns the exit status of the last executed phase, which is the
// overall status of the invocation per shell AND-chaining semantics.
func (i *Invocation) ExitCode() int {
	if last := i.Last(); last != nil {
		return last.ExitCode
	}
	return 0
}

// Succeeded reports whether both phases ran and exited zero.
func (i *Invocation) Succeeded() bool {
	return i.Compile != nil && i.Compile.ExitCode == 0 &&
		i.Run != nil && i.Run.ExitCode == 0
}

// ExitError returns an *ExitError for the failing phase, or nil when the
// invocation succeeded.
func (i *Invocation) ExitError() error {
	last := i.Last()
	if last == nil || last.ExitCode == 0 {
		return nil
	}
	return &ExitError{Phase: last.Phase, Status: last.ExitCode}
}

// ExitError carries a child process exit status through the CLI layer so
// main can propagate it verbatim as the harness's own exit code.
type ExitError struct {
	Phase  Phase
	Status int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Phase, e.Status)
}
