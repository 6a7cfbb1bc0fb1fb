// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeColor forces full-color terminal rendering.
	ModeColor
	// ModePlain forces plain ANSI rendering for CI logs.
	ModePlain
)

// DetectEnvironment returns the recommended output mode based on the
// environment. It checks if stderr is a TTY and if CI environment variables
// are set.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModePlain
	}
	return ModeColor
}

// ResolveMode applies a user override flag to auto-detection.
// userFlag should be one of: "auto", "color", "plain", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "color":
		return ModeColor
	case "plain":
		return ModePlain
	case "auto", "":
		return autoDetected
	default:
		return autoDetected
	}
}
