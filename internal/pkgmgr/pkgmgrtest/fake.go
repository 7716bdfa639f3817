// Package pkgmgrtest provides a recording pkgmgr.Runner for tests.
package pkgmgrtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rshade/cmskit/internal/pkgmgr"
)

// Call is one recorded invocation.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner records invocations and fails those whose command line starts with
// one of the configured prefixes.
type Runner struct {
	mu      sync.Mutex
	calls   []Call
	failOn  []string
	outputs map[string][]byte
	// OnRun, if set, is called for every successful Run.
	OnRun func(c Call)
}

// New returns an empty recording runner.
func New() *Runner {
	return &Runner{outputs: map[string][]byte{}}
}

// FailOn makes every command line with the given prefix fail.
func (r *Runner) FailOn(prefix string) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn = append(r.failOn, prefix)
	return r
}

// SetOutput registers the stdout returned by Output for a command line.
func (r *Runner) SetOutput(commandLine string, out string) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs[commandLine] = []byte(out)
	return r
}

// Calls returns the command lines recorded so far.
func (r *Runner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.String())
	}
	return out
}

// Run implements pkgmgr.Runner.
func (r *Runner) Run(_ context.Context, dir, name string, args ...string) error {
	c := r.record(dir, name, args)
	if err := r.failure(c); err != nil {
		return err
	}
	if r.OnRun != nil {
		r.OnRun(c)
	}
	return nil
}

// Output implements pkgmgr.Runner.
func (r *Runner) Output(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	c := r.record(dir, name, args)
	if err := r.failure(c); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outputs[c.String()], nil
}

func (r *Runner) record(dir, name string, args []string) Call {
	c := Call{Dir: dir, Name: name, Args: append([]string(nil), args...)}
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
	return c
}

func (r *Runner) failure(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := c.String()
	for _, p := range r.failOn {
		if strings.HasPrefix(line, p) {
			return fmt.Errorf("%w: %s: exit status 1", pkgmgr.ErrCommandFailed, line)
		}
	}
	return nil
}

var _ pkgmgr.Runner = (*Runner)(nil)
