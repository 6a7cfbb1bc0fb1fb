// Package status provides a synchronous, line-oriented renderer for phase
// progress. All of its output goes to stderr so stdout stays reserved for
// command echoes and the test binary's own output.
package status

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"github.com/mohitmv/qrun/internal/adapters/detector"
	"github.com/mohitmv/qrun/internal/ui/output"
	"github.com/mohitmv/qrun/internal/ui/style"
)

// Renderer implements ports.Renderer with one chronological line per phase
// event.
type Renderer struct {
	stderr io.Writer
	output *termenv.Output

	mu     sync.Mutex
	phases map[string]*phaseState // spanID -> phase state
}

type phaseState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a Renderer writing to stderr. ModeColor uses the
// terminal's detected capabilities, any other mode is restricted to the ANSI
// profile so the output stays readable in CI logs.
func NewRenderer(stderr io.Writer, mode detector.OutputMode) *Renderer {
	if stderr == nil {
		stderr = os.Stderr
	}

	var out *termenv.Output
	if mode == detector.ModeColor {
		out = output.New(stderr)
	} else {
		out = output.NewANSI(stderr)
	}

	return &Renderer{
		stderr: stderr,
		output: out,
		phases: make(map[string]*phaseState),
	}
}

// OnPhaseStart prints a start line for the phase.
func (r *Renderer) OnPhaseStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.phases[spanID] = &phaseState{
		name:      name,
		startTime: startTime,
	}

	arrow := r.output.String(style.Arrow).
		Foreground(r.output.Color(string(style.Cobalt))).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s\n", arrow, name)
}

// OnPhaseComplete prints the phase outcome with its duration.
func (r *Renderer) OnPhaseComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	phase, ok := r.phases[spanID]
	if !ok {
		return
	}

	duration := endTime.Sub(phase.startTime).Round(time.Millisecond)

	if err != nil {
		symbol := r.output.String(style.Cross).
			Foreground(r.output.Color(string(style.Red))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n",
			symbol, phase.name, duration, err)
	} else {
		symbol := r.output.String(style.Check).
			Foreground(r.output.Color(string(style.Green))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n",
			symbol, phase.name, duration)
	}

	delete(r.phases, spanID)
}
