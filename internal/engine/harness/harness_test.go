package harness_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"

	"github.com/mohitmv/qrun/internal/core/domain"
	"github.com/mohitmv/qrun/internal/core/ports"
	"github.com/mohitmv/qrun/internal/core/ports/mocks"
	"github.com/mohitmv/qrun/internal/engine/harness"
)

type harnessTestMocks struct {
	executor *mocks.MockExecutor
	tracer   *mocks.MockTracer
	span     *mocks.MockSpan
}

// setupHarnessTest creates a harness with mocked dependencies and a stdout
// buffer capturing the command echoes.
func setupHarnessTest(t *testing.T) (*harness.Harness, harnessTestMocks, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := harnessTestMocks{
		executor: mocks.NewMockExecutor(ctrl),
		tracer:   mocks.NewMockTracer(ctrl),
	}

	// Default optimistic span mocks to reduce noise in specific tests.
	m.span = mocks.NewMockSpan(ctrl)
	m.span.EXPECT().End().AnyTimes()
	m.span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	m.span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	// Start has variadic signature: Start(ctx, name, ...opts).
	m.tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, m.span
		},
	).AnyTimes()

	var stdout bytes.Buffer
	h := harness.NewHarness(m.executor, m.tracer, &stdout, io.Discard)
	return h, m, &stdout
}

func TestCompileCommand(t *testing.T) {
	cfg := domain.DefaultConfig()

	want := "clang++ -std=c++17 -O3 lazy_map_test.cpp" +
		" -I/usr/local/scaligent/toolchain/local/include" +
		" /usr/local/scaligent/toolchain/local/lib/libgtest.a" +
		" -o /tmp/lazy_map_test"
	assert.Equal(t, want, harness.CompileCommand(cfg))
}

func TestCompileCommand_CustomConfig(t *testing.T) {
	cfg := domain.Config{
		Compiler:   "g++ -std=c++20",
		Source:     "widget_test.cpp",
		IncludeDir: "/opt/gtest/include",
		Library:    "/opt/gtest/lib/libgtest.a",
		Output:     "/tmp/widget_test",
	}

	want := "g++ -std=c++20 widget_test.cpp -I/opt/gtest/include /opt/gtest/lib/libgtest.a -o /tmp/widget_test"
	assert.Equal(t, want, harness.CompileCommand(cfg))
}

func TestRunCommand(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, "time /tmp/lazy_map_test", harness.RunCommand(cfg))
}

func TestJoinedCommand(t *testing.T) {
	cfg := domain.DefaultConfig()

	want := harness.CompileCommand(cfg) + " && time /tmp/lazy_map_test"
	assert.Equal(t, want, harness.JoinedCommand(cfg))
}

func TestHarness_SuccessfulPipeline(t *testing.T) {
	h, m, stdout := setupHarnessTest(t)
	cfg := domain.DefaultConfig()

	compileCall := m.executor.EXPECT().
		Execute(gomock.Any(), harness.CompileCommand(cfg), gomock.Any(), gomock.Any()).
		Return(0, nil).Times(1)
	runCall := m.executor.EXPECT().
		Execute(gomock.Any(), harness.RunCommand(cfg), gomock.Any(), gomock.Any()).
		Return(0, nil).Times(1)
	gomock.InOrder(compileCall, runCall)

	inv, err := h.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, inv)

	assert.True(t, inv.Succeeded())
	assert.Equal(t, 0, inv.ExitCode())

	require.NotNil(t, inv.Compile)
	assert.Equal(t, domain.PhaseCompile, inv.Compile.Phase)
	assert.Equal(t, harness.CompileCommand(cfg), inv.Compile.Command)
	assert.Equal(t, 0, inv.Compile.ExitCode)

	require.NotNil(t, inv.Run)
	assert.Equal(t, domain.PhaseRun, inv.Run.Phase)
	assert.Equal(t, harness.RunCommand(cfg), inv.Run.Command)
	assert.Equal(t, 0, inv.Run.ExitCode)

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, harness.CompileCommand(cfg), lines[0])
	assert.Equal(t, harness.JoinedCommand(cfg), lines[1])
}

func TestHarness_CompileFailureShortCircuitsRun(t *testing.T) {
	h, m, stdout := setupHarnessTest(t)
	cfg := domain.DefaultConfig()

	// No expectation for the run command: any attempt to execute it fails
	// the test.
	m.executor.EXPECT().
		Execute(gomock.Any(), harness.CompileCommand(cfg), gomock.Any(), gomock.Any()).
		Return(1, nil).Times(1)

	inv, err := h.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, inv)

	assert.Equal(t, 1, inv.ExitCode())
	assert.False(t, inv.Succeeded())
	assert.Nil(t, inv.Run)

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, harness.CompileCommand(cfg), lines[0])
	assert.NotContains(t, stdout.String(), "&&")
	assert.NotContains(t, stdout.String(), "time ")
}

func TestHarness_TestBinaryFailurePropagates(t *testing.T) {
	h, m, _ := setupHarnessTest(t)
	cfg := domain.DefaultConfig()

	m.executor.EXPECT().
		Execute(gomock.Any(), harness.CompileCommand(cfg), gomock.Any(), gomock.Any()).
		Return(0, nil).Times(1)
	m.executor.EXPECT().
		Execute(gomock.Any(), harness.RunCommand(cfg), gomock.Any(), gomock.Any()).
		Return(7, nil).Times(1)

	inv, err := h.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, inv)

	assert.Equal(t, 7, inv.ExitCode())
	assert.False(t, inv.Succeeded())
	require.NotNil(t, inv.Run)
	assert.Equal(t, 7, inv.Run.ExitCode)

	var exitErr *domain.ExitError
	require.ErrorAs(t, inv.ExitError(), &exitErr)
	assert.Equal(t, domain.PhaseRun, exitErr.Phase)
	assert.Equal(t, 7, exitErr.Status)
}

func TestHarness_EchoPrecedesExecution(t *testing.T) {
	h, m, stdout := setupHarnessTest(t)
	cfg := domain.DefaultConfig()

	m.executor.EXPECT().
		Execute(gomock.Any(), harness.CompileCommand(cfg), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _, _ io.Writer) (int, error) {
			assert.Contains(t, stdout.String(), harness.CompileCommand(cfg))
			return 0, nil
		}).Times(1)
	m.executor.EXPECT().
		Execute(gomock.Any(), harness.RunCommand(cfg), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _, _ io.Writer) (int, error) {
			assert.Contains(t, stdout.String(), harness.JoinedCommand(cfg))
			return 0, nil
		}).Times(1)

	_, err := h.Run(context.Background(), cfg)
	require.NoError(t, err)
}

func TestHarness_InterpreterFailureAborts(t *testing.T) {
	h, m, _ := setupHarnessTest(t)
	cfg := domain.DefaultConfig()

	m.executor.EXPECT().
		Execute(gomock.Any(), harness.CompileCommand(cfg), gomock.Any(), gomock.Any()).
		Return(-1, zerr.New("failed to invoke command interpreter")).Times(1)

	inv, err := h.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, inv)
	assert.Contains(t, err.Error(), "failed to invoke command interpreter")
}

func TestHarness_InterpreterFailureInRunPhase(t *testing.T) {
	h, m, _ := setupHarnessTest(t)
	cfg := domain.DefaultConfig()

	m.executor.EXPECT().
		Execute(gomock.Any(), harness.CompileCommand(cfg), gomock.Any(), gomock.Any()).
		Return(0, nil).Times(1)
	m.executor.EXPECT().
		Execute(gomock.Any(), harness.RunCommand(cfg), gomock.Any(), gomock.Any()).
		Return(-1, zerr.New("failed to invoke command interpreter")).Times(1)

	inv, err := h.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, inv)
}

func TestHarness_ChildStreamsInherited(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	tracer := mocks.NewMockTracer(ctrl)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()

	var stdout, stderr bytes.Buffer
	h := harness.NewHarness(executor, tracer, &stdout, &stderr)
	cfg := domain.DefaultConfig()

	executor.EXPECT().
		Execute(gomock.Any(), harness.CompileCommand(cfg), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _, errW io.Writer) (int, error) {
			fmt.Fprintln(errW, "lazy_map_test.cpp:10: warning: unused variable")
			return 0, nil
		}).Times(1)
	executor.EXPECT().
		Execute(gomock.Any(), harness.RunCommand(cfg), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, outW, errW io.Writer) (int, error) {
			fmt.Fprintln(outW, "[==========] Running 12 tests.")
			fmt.Fprintln(errW, "real\t0m0.31s")
			return 0, nil
		}).Times(1)

	_, err := h.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "[==========] Running 12 tests.")
	assert.Contains(t, stderr.String(), "unused variable")
	assert.Contains(t, stderr.String(), "real\t0m0.31s")

	// The test binary's output lands after the echoed run command line.
	echoIdx := strings.Index(stdout.String(), harness.JoinedCommand(cfg))
	outIdx := strings.Index(stdout.String(), "[==========]")
	assert.Less(t, echoIdx, outIdx)
}

func TestHarness_IdempotentCommandConstruction(t *testing.T) {
	h, m, stdout := setupHarnessTest(t)
	cfg := domain.DefaultConfig()

	m.executor.EXPECT().
		Execute(gomock.Any(), harness.CompileCommand(cfg), gomock.Any(), gomock.Any()).
		Return(0, nil).Times(2)
	m.executor.EXPECT().
		Execute(gomock.Any(), harness.RunCommand(cfg), gomock.Any(), gomock.Any()).
		Return(0, nil).Times(2)

	_, err := h.Run(context.Background(), cfg)
	require.NoError(t, err)
	first := stdout.String()

	stdout.Reset()
	_, err = h.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first, stdout.String())
}

func TestHarness_SpanLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	tracer := mocks.NewMockTracer(ctrl)
	cfg := domain.DefaultConfig()

	compileSpan := mocks.NewMockSpan(ctrl)
	runSpan := mocks.NewMockSpan(ctrl)

	tracer.EXPECT().Start(gomock.Any(), "compile").DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, compileSpan
		},
	).Times(1)
	tracer.EXPECT().Start(gomock.Any(), "run").DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, runSpan
		},
	).Times(1)

	compileSpan.EXPECT().SetAttribute("command", harness.CompileCommand(cfg)).Times(1)
	compileSpan.EXPECT().SetAttribute("exit_code", 0).Times(1)
	compileSpan.EXPECT().End().Times(1)

	runSpan.EXPECT().SetAttribute("command", harness.RunCommand(cfg)).Times(1)
	runSpan.EXPECT().SetAttribute("exit_code", 3).Times(1)
	runSpan.EXPECT().RecordError(gomock.Any()).Do(func(err error) {
		var exitErr *domain.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, domain.PhaseRun, exitErr.Phase)
		assert.Equal(t, 3, exitErr.Status)
	}).Times(1)
	runSpan.EXPECT().End().Times(1)

	executor.EXPECT().
		Execute(gomock.Any(), harness.CompileCommand(cfg), gomock.Any(), gomock.Any()).
		Return(0, nil).Times(1)
	executor.EXPECT().
		Execute(gomock.Any(), harness.RunCommand(cfg), gomock.Any(), gomock.Any()).
		Return(3, nil).Times(1)

	h := harness.NewHarness(executor, tracer, io.Discard, io.Discard)

	inv, err := h.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, inv.ExitCode())
}
