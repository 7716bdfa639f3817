package installer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cmskit/internal/installer"
)

type recordingReporter struct {
	lines []string
}

func (r *recordingReporter) Info(message string) {
	r.lines = append(r.lines, "info: "+message)
}

func (r *recordingReporter) Progress(step, total int, message string) {
	r.lines = append(r.lines, fmt.Sprintf("(step %d/%d) %s", step, total, message))
}

func (r *recordingReporter) Success(message string) {
	r.lines = append(r.lines, "success: "+message)
}

func (r *recordingReporter) Failure(message string) {
	r.lines = append(r.lines, "error: "+message)
}

func succeed(ran *[]string, name string) installer.Action {
	return func(context.Context) (bool, error) {
		*ran = append(*ran, name)
		return true, nil
	}
}

func TestRun_AllStepsSucceed(t *testing.T) {
	t.Parallel()

	var ran []string
	rep := &recordingReporter{}
	code := installer.New(rep).Run(t.Context(), []installer.Step{
		{Message: "first", Action: succeed(&ran, "first")},
		{Message: "second", Action: succeed(&ran, "second")},
	})

	assert.Equal(t, installer.ExitSuccess, code)
	assert.Equal(t, []string{"first", "second"}, ran)
	assert.Equal(t, []string{
		"info: Starting CMS installation...",
		"(step 1/2) first",
		"(step 2/2) second",
		"success: CMS installation successful!",
	}, rep.lines)
}

func TestRun_FailFast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		action  installer.Action
		wantMsg string
	}{
		{
			name:    "returns false",
			action:  func(context.Context) (bool, error) { return false, nil },
			wantMsg: "error: CMS installation failed: installation step failed: second",
		},
		{
			name:    "returns error",
			action:  func(context.Context) (bool, error) { return false, errors.New("disk full") },
			wantMsg: "error: CMS installation failed: disk full",
		},
		{
			name:    "error wins over true",
			action:  func(context.Context) (bool, error) { return true, errors.New("partial") },
			wantMsg: "error: CMS installation failed: partial",
		},
		{
			name:    "panics",
			action:  func(context.Context) (bool, error) { panic("boom") },
			wantMsg: "error: CMS installation failed: second: panic: boom",
		},
		{
			name:    "nil action",
			action:  nil,
			wantMsg: "error: CMS installation failed: second: no action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ran []string
			rep := &recordingReporter{}
			code := installer.New(rep).Run(t.Context(), []installer.Step{
				{Message: "first", Action: succeed(&ran, "first")},
				{Message: "second", Action: tt.action},
				{Message: "third", Action: succeed(&ran, "third")},
			})

			assert.Equal(t, installer.ExitFailure, code)
			assert.Equal(t, []string{"first"}, ran, "steps after the failure never run")
			require.NotEmpty(t, rep.lines)
			assert.Equal(t, tt.wantMsg, rep.lines[len(rep.lines)-1])
			assert.NotContains(t, rep.lines, "(step 3/3) third")
		})
	}
}

func TestRun_NoSteps(t *testing.T) {
	t.Parallel()

	rep := &recordingReporter{}
	code := installer.New(rep).Run(t.Context(), nil)
	assert.Equal(t, installer.ExitSuccess, code)
	assert.Equal(t, "success: CMS installation successful!", rep.lines[len(rep.lines)-1])
}

func TestRun_ErrorIsWrapped(t *testing.T) {
	t.Parallel()

	rep := &recordingReporter{}
	o := installer.New(rep)
	o.Name = "Installation"
	code := o.Run(t.Context(), []installer.Step{
		{Message: "only", Action: func(context.Context) (bool, error) { return false, nil }},
	})

	assert.Equal(t, installer.ExitFailure, code)
	assert.Equal(t, "info: Starting Installation...", rep.lines[0])
	assert.Contains(t, rep.lines[len(rep.lines)-1], "Installation failed")
}
