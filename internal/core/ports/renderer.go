package ports

import "time"

// Renderer is the abstraction for phase progress output.
// It decouples telemetry collection from presentation, so the same span
// stream can drive a colored terminal renderer or plain CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnPhaseStart is called when a pipeline phase begins.
	// spanID: unique identifier for this phase execution
	// name: human-readable phase name
	// startTime: when the phase started
	OnPhaseStart(spanID, name string, startTime time.Time)

	// OnPhaseComplete is called when a pipeline phase finishes.
	// spanID: identifier for the phase
	// endTime: when the phase completed
	// err: nil if the phase exited zero, error otherwise
	OnPhaseComplete(spanID string, endTime time.Time, err error)
}
