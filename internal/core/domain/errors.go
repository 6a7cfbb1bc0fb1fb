package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidConfig is returned when a configuration value is empty after
	// the defaults were merged.
	ErrInvalidConfig = zerr.New("config value must not be empty")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInterpreterFailed is returned when the command interpreter cannot be
	// invoked at all. Nonzero exits from the interpreter are statuses, not
	// errors.
	ErrInterpreterFailed = zerr.New("failed to invoke command interpreter")

	// ErrHistoryCreateFailed is returned when the history directory cannot be
	// created.
	ErrHistoryCreateFailed = zerr.New("failed to create history directory")

	// ErrHistoryReadFailed is returned when the run history cannot be read.
	ErrHistoryReadFailed = zerr.New("failed to read run history")

	// ErrHistoryWriteFailed is returned when the run history cannot be
	// written.
	ErrHistoryWriteFailed = zerr.New("failed to write run history")

	// ErrHistoryMarshalFailed is returned when a history record cannot be
	// marshaled.
	ErrHistoryMarshalFailed = zerr.New("failed to marshal run history")

	// ErrHistoryUnmarshalFailed is returned when the run history cannot be
	// unmarshaled.
	ErrHistoryUnmarshalFailed = zerr.New("failed to unmarshal run history")

	// ErrWatcherStartFailed is returned when the file system watcher cannot
	// be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")

	// ErrWatcherStopped is returned when the file system watcher stops
	// delivering events while watch mode is still running.
	ErrWatcherStopped = zerr.New("file watcher stopped unexpectedly")
)
