// Package app implements the application layer for qrun.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/mohitmv/qrun/internal/adapters/detector"
	"github.com/mohitmv/qrun/internal/adapters/status"
	"github.com/mohitmv/qrun/internal/adapters/telemetry"
	"github.com/mohitmv/qrun/internal/adapters/watcher"
	"github.com/mohitmv/qrun/internal/core/domain"
	"github.com/mohitmv/qrun/internal/core/ports"
	"github.com/mohitmv/qrun/internal/engine/harness"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	history      ports.HistoryStore
	fsWatcher    ports.Watcher

	stdout io.Writer
	stderr io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	log ports.Logger,
	store ports.HistoryStore,
	fsWatcher ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		history:      store,
		fsWatcher:    fsWatcher,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithStreams overrides the harness's output streams.
// This is primarily used for testing.
func (a *App) WithStreams(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// RunOptions configuration for the Run and Watch methods.
type RunOptions struct {
	// ConfigPath is an explicit config file path that bypasses discovery.
	ConfigPath string
	// Source overrides the configured test source file.
	Source string
	// OutputMode selects the status renderer profile: auto, color, or plain.
	OutputMode string
	// JSON switches log output to JSON.
	JSON bool
}

// jsonCapable is implemented by loggers that can switch to JSON output.
type jsonCapable interface {
	SetJSON(enable bool)
}

// Run executes the compile-and-run pipeline once.
//
// A nonzero exit status from either phase is returned as a *domain.ExitError
// so main can propagate it as qrun's own exit code. Any other error means the
// pipeline itself broke.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	if opts.JSON {
		if sw, ok := a.logger.(jsonCapable); ok {
			sw.SetJSON(true)
		}
	}

	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	inv, err := a.runPipeline(ctx, cfg, opts.OutputMode)
	if err != nil {
		return err
	}

	a.recordInvocation(inv)

	return inv.ExitError()
}

// Watch reruns the pipeline whenever watched file content changes under the
// project root. It blocks until the context is cancelled and returns nil on
// a signal-triggered shutdown.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	root, err := a.configLoader.DiscoverRoot(".")
	if err != nil {
		return zerr.Wrap(err, "failed to resolve watch root")
	}

	// A buffered single-slot channel coalesces triggers that arrive while a
	// run is still in flight.
	runCh := make(chan struct{}, 1)
	cache := watcher.NewContentCache()
	debounce := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		if len(cache.Changed(paths)) == 0 {
			return
		}
		select {
		case runCh <- struct{}{}:
		default:
		}
	})

	if err := a.fsWatcher.Start(ctx, root); err != nil {
		return err
	}
	defer func() {
		_ = a.fsWatcher.Stop()
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for event := range a.fsWatcher.Events() {
			debounce.Add(event.Path)
		}
		// The event stream ends during shutdown. Ending while the context
		// is still live means the watcher died underneath us.
		if ctx.Err() == nil {
			return domain.ErrWatcherStopped
		}
		return nil
	})

	g.Go(func() error {
		a.runAndReport(ctx, opts)

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-runCh:
				a.runAndReport(ctx, opts)
			}
		}
	})

	return g.Wait()
}

// runAndReport runs the pipeline once and reports the outcome without
// terminating the watch loop. Config is reloaded on every trigger so edits
// to qrun.yaml take effect immediately.
func (a *App) runAndReport(ctx context.Context, opts RunOptions) {
	err := a.Run(ctx, opts)
	if ctx.Err() != nil {
		return
	}

	var exitErr *domain.ExitError
	switch {
	case err == nil, errors.As(err, &exitErr):
		// The status renderer already reported the outcome.
		a.logger.Info("watching for changes...")
	default:
		a.logger.Error(err)
	}
}

// loadConfig resolves the effective configuration for one run.
func (a *App) loadConfig(opts RunOptions) (domain.Config, error) {
	var cfg domain.Config
	var err error

	if opts.ConfigPath != "" {
		cfg, err = a.configLoader.LoadFile(opts.ConfigPath)
	} else {
		cfg, err = a.configLoader.Load(".")
	}
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Source != "" {
		cfg.Source = opts.Source
	}

	return cfg, nil
}

// runPipeline wires renderer, telemetry, and harness together and executes
// the two phases.
func (a *App) runPipeline(ctx context.Context, cfg domain.Config, outputMode string) (*domain.Invocation, error) {
	mode := detector.ResolveMode(detector.DetectEnvironment(), outputMode)
	renderer := status.NewRenderer(a.stderr, mode)

	// The bridge forwards span lifecycle events to the renderer, so phase
	// progress lines come straight from the tracer.
	bridge := telemetry.NewBridge(renderer)
	setupOTel(bridge)

	tracer := telemetry.NewOTelTracer("qrun")

	h := harness.NewHarness(a.executor, tracer, a.stdout, a.stderr)
	return h.Run(ctx, cfg)
}

// recordInvocation appends the invocation to the run history. History
// failures are logged, never fatal: the exit status contract wins.
func (a *App) recordInvocation(inv *domain.Invocation) {
	root, err := a.configLoader.DiscoverRoot(".")
	if err != nil {
		a.logger.Info("run history not recorded: " + err.Error())
		return
	}

	if prev, lastErr := a.history.Last(root); lastErr == nil {
		a.logTimingComparison(prev, inv)
	}

	if err := a.history.Append(root, *inv); err != nil {
		a.logger.Info("run history not recorded: " + err.Error())
	}
}

// logTimingComparison logs the test binary's wall-clock time next to the
// previous run's, when both invocations reached the run phase.
func (a *App) logTimingComparison(prev, cur *domain.Invocation) {
	if prev == nil || prev.Run == nil || cur.Run == nil {
		return
	}

	a.logger.Info(fmt.Sprintf("test binary finished in %v (previous run %v)",
		cur.Run.Duration.Round(time.Millisecond),
		prev.Run.Duration.Round(time.Millisecond)))
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)

	otel.SetTracerProvider(tp)
}
