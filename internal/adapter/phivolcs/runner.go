package phivolcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// maxOutputBytes caps captured script stdout. A run that exceeds it aborts
// with ErrOutputTooLarge instead of truncating silently.
const maxOutputBytes = 10 << 20

// ErrOutputTooLarge marks a script run whose stdout exceeded maxOutputBytes.
var ErrOutputTooLarge = errors.New("regional catalog script output exceeded 10 MB")

// ScriptInvoker runs the scraper with positional arguments and returns its
// raw stdout. Implementations do no parsing; that stays in DecodeEnvelope
// so both execution strategies share one validation path.
type ScriptInvoker interface {
	Invoke(ctx context.Context, args []string) ([]byte, error)
}

// LocalRunner invokes the scraper script through an interpreter subprocess.
type LocalRunner struct {
	interpreter string
	scriptPath  string
	searchPath  string
	logger      *slog.Logger
}

// NewLocalRunner creates a subprocess invoker. searchPath, when non-empty,
// is appended to PYTHONPATH so the scraper's dependencies resolve in
// deployments that vendor them outside the default site-packages.
func NewLocalRunner(interpreter, scriptPath, searchPath string, logger *slog.Logger) *LocalRunner {
	return &LocalRunner{
		interpreter: interpreter,
		scriptPath:  scriptPath,
		searchPath:  searchPath,
		logger:      logger,
	}
}

// Invoke runs the script to completion and returns its stdout. Each call
// owns its buffers; concurrent invocations never share output. There is no
// separate timeout here: the caller's context carries the request budget.
func (r *LocalRunner) Invoke(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.interpreter, append([]string{r.scriptPath}, args...)...)
	cmd.Env = r.environ()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", filepath.Base(r.scriptPath), err)
	}

	out, readErr := io.ReadAll(io.LimitReader(stdout, maxOutputBytes+1))
	if len(out) > maxOutputBytes {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, ErrOutputTooLarge
	}

	waitErr := cmd.Wait()
	if stderr.Len() > 0 {
		// The script reports fetch progress on stderr.
		r.logger.Debug("script stderr", "script", filepath.Base(r.scriptPath), "output", stderr.String())
	}
	if readErr != nil {
		return nil, fmt.Errorf("read script output: %w", readErr)
	}
	if waitErr != nil {
		return nil, fmt.Errorf("run %s: %w: %s", filepath.Base(r.scriptPath), waitErr, firstLine(stderr.Bytes()))
	}
	return out, nil
}

func (r *LocalRunner) environ() []string {
	env := os.Environ()
	if r.searchPath != "" {
		env = append(env, "PYTHONPATH="+r.searchPath)
	}
	return env
}

func firstLine(b []byte) []byte {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i]
	}
	return b
}
