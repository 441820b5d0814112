package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/apperrors"
)

// ExecResult captures the raw output of a re-executed artifact. Output is
// returned verbatim; the caller does no further analysis on it.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner re-executes a matched artifact as an external process.
type Runner interface {
	Run(ctx context.Context, name string) (ExecResult, error)
}

// ExecRunner runs artifacts from an Inventory with a hard wall-clock limit.
type ExecRunner struct {
	inv     *Inventory
	timeout time.Duration
	logger  *zap.Logger
}

var _ Runner = (*ExecRunner)(nil)

// NewExecRunner builds a runner over inv. A non-positive timeout falls back
// to 30 seconds.
func NewExecRunner(inv *Inventory, timeout time.Duration, logger *zap.Logger) *ExecRunner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ExecRunner{inv: inv, timeout: timeout, logger: logger.Named("tool_runner")}
}

// Run executes the named artifact, killing it when the timeout elapses.
// A nonzero exit is not an error; the exit code travels in the result.
func (r *ExecRunner) Run(ctx context.Context, name string) (ExecResult, error) {
	artifact, ok := r.inv.Artifact(name)
	if !ok {
		return ExecResult{}, fmt.Errorf("artifact %q: %w", name, apperrors.ErrNoToolMatch)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, artifact.Path)
	cmd.Dir = r.inv.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		return result, fmt.Errorf("artifact %q timed out after %s", name, r.timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			r.logger.Warn("artifact exited nonzero",
				zap.String("artifact", name),
				zap.Int("exit_code", result.ExitCode),
				zap.Duration("elapsed", elapsed))
			return result, nil
		}
		return result, fmt.Errorf("running artifact %q: %w", name, err)
	}

	r.logger.Debug("artifact executed",
		zap.String("artifact", name), zap.Duration("elapsed", elapsed))
	return result, nil
}
