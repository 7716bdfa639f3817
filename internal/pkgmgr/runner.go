// Package pkgmgr drives the external tools the installer depends on:
// Composer, the host's Node package manager and `php artisan`.
package pkgmgr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rshade/cmskit/internal/logging"
)

// ErrCommandFailed is wrapped by every subprocess failure.
var ErrCommandFailed = errors.New("external command failed")

// Runner executes external commands in a working directory.
type Runner interface {
	// Run executes name with args in dir, streaming output to the runner's writers.
	Run(ctx context.Context, dir, name string, args ...string) error
	// Output executes name with args in dir and returns its standard output.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner that streams subprocess output to out and errOut.
func NewExecRunner(out, errOut io.Writer) *ExecRunner {
	return &ExecRunner{Stdout: out, Stderr: errOut}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "pkgmgr").
		Str("operation", "run").
		Str("dir", dir).
		Str("command", commandLine(name, args)).
		Msg("running external command")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCommandFailed, commandLine(name, args), err)
	}
	return nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s: %w (%s)", ErrCommandFailed, commandLine(name, args), err, msg)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCommandFailed, commandLine(name, args), err)
	}
	return out, nil
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
