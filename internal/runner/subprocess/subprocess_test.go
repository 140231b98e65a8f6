package subprocess_test

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/code-runner/internal/runner"
	"github.com/sakif/code-runner/internal/runner/subprocess"
)

// These tests spawn a real python3 process. Skip when the interpreter
// is not installed (e.g. minimal CI images).
func newTestRunner(t *testing.T) *subprocess.Runner {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not found in PATH")
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return subprocess.New(subprocess.DefaultConfig(), logger)
}

func TestRun(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	t.Run("successful execution", func(t *testing.T) {
		res, err := r.Run(ctx, runner.Request{
			Code:    `print("hello")`,
			Timeout: 10 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.False(t, res.TimedOut)
		assert.Contains(t, res.Stdout, "hello")
		assert.Empty(t, res.Stderr)
		assert.Greater(t, res.Duration, time.Duration(0))
	})

	t.Run("stdin is passed through", func(t *testing.T) {
		res, err := r.Run(ctx, runner.Request{
			Code:    `name = input()` + "\n" + `print("hi " + name)`,
			Stdin:   "sam\n",
			Timeout: 10 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Contains(t, res.Stdout, "hi sam")
	})

	t.Run("nonzero exit is a result, not an error", func(t *testing.T) {
		res, err := r.Run(ctx, runner.Request{
			Code:    `1/0`,
			Timeout: 10 * time.Second,
		})
		require.NoError(t, err)
		assert.NotEqual(t, 0, res.ExitCode)
		assert.False(t, res.TimedOut)
		assert.Contains(t, res.Stderr, "ZeroDivisionError")
	})

	t.Run("exit code 0 wins even with stderr output", func(t *testing.T) {
		res, err := r.Run(ctx, runner.Request{
			Code:    `import sys; sys.stderr.write("warning\n")`,
			Timeout: 10 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, res.ExitCode)
		assert.Contains(t, res.Stderr, "warning")
	})

	t.Run("infinite loop hits the deadline", func(t *testing.T) {
		res, err := r.Run(ctx, runner.Request{
			Code:    `while True: pass`,
			Timeout: 1 * time.Second,
		})
		require.NoError(t, err)
		assert.True(t, res.TimedOut)
		assert.GreaterOrEqual(t, res.Duration, 1*time.Second)
	})

	t.Run("blocked input hits the deadline", func(t *testing.T) {
		res, err := r.Run(ctx, runner.Request{
			Code:    `x = input()`,
			Timeout: 1 * time.Second,
		})
		require.NoError(t, err)
		assert.True(t, res.TimedOut)
	})
}

func TestRun_DispatchFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	r := subprocess.New(subprocess.Config{PythonBin: "definitely-not-a-python"}, logger)

	res, err := r.Run(context.Background(), runner.Request{
		Code:    `print("never runs")`,
		Timeout: 5 * time.Second,
	})
	assert.Error(t, err)
	assert.Nil(t, res)
}
