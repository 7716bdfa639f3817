package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/cmskit/internal/hostapp"
	"github.com/rshade/cmskit/internal/logging"
	"github.com/rshade/cmskit/internal/pkgmgr"
)

// StepStatus represents the outcome of a single doctor check.
type StepStatus int

const (
	// StepSuccess indicates the check passed.
	StepSuccess StepStatus = iota
	// StepWarning indicates a non-fatal issue.
	StepWarning
	// StepSkipped indicates the check was not applicable.
	StepSkipped
	// StepError indicates the check failed.
	StepError
)

// StepResult describes the outcome of a single check.
type StepResult struct {
	Name     string
	Status   StepStatus
	Message  string
	Critical bool
	Err      error
}

// DoctorOptions holds the configuration for the doctor command, derived from CLI flags.
type DoctorOptions struct {
	NonInteractive bool
	Composer       string
}

// DoctorResult is the aggregate outcome of all checks.
type DoctorResult struct {
	Steps       []StepResult
	HasErrors   bool
	HasWarnings bool
}

// minPHPVersion is the oldest PHP release the scaffold supports.
const minPHPVersion = ">= 8.2"

// maxConcurrentProbes bounds the number of tool probes running at once.
const maxConcurrentProbes = 4

//nolint:gochecknoglobals // Compiled once.
var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// hostFileChecks lists the host files the installer reads or edits.
//
//nolint:gochecknoglobals // Fixed table.
var hostFileChecks = []struct {
	rel      string
	critical bool
}{
	{"artisan", true},
	{"routes/web.php", true},
	{"vite.config.js", true},
	{"package.json", false},
	{"composer.json", false},
}

// formatStatus returns a status marker appropriate for the output mode.
func formatStatus(status StepStatus, nonInteractive bool) string {
	if nonInteractive {
		switch status {
		case StepSuccess:
			return "[OK]"
		case StepWarning:
			return "[WARN]"
		case StepSkipped:
			return "[SKIP]"
		case StepError:
			return "[ERR]"
		default:
			return "[??]"
		}
	}

	switch status {
	case StepSuccess:
		return "\u2713" // ✓
	case StepWarning:
		return "!"
	case StepSkipped:
		return "-"
	case StepError:
		return "\u2717" // ✗
	default:
		return "?"
	}
}

// NewDoctorCmd creates the doctor command that checks the host application
// and the external tools before an installation.
func NewDoctorCmd() *cobra.Command {
	var opts DoctorOptions

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the Laravel application and required tools",
		Long: `Checks that the files the installer edits exist in the Laravel application
and that php, composer and the project's Node package manager can be run.

Nothing is modified.`,
		Example: `  # Check the application in the current directory
  cmskit doctor

  # Plain markers for CI logs
  cmskit doctor --non-interactive --path ./app`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NonInteractive, "non-interactive", false,
		"Disable TTY-dependent output (status symbols)")
	cmd.Flags().StringVar(&opts.Composer, "composer", "",
		"Composer binary to check (default from config)")

	return cmd
}

// runDoctor runs every check and fails only if a critical check fails.
func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	if !opts.NonInteractive && !isTerminal(os.Stdin) {
		opts.NonInteractive = true
	}

	hc, err := newHostContext(cmd)
	if err != nil {
		return err
	}

	result := &DoctorResult{}
	result.Steps = append(result.Steps, checkHostFiles(hc)...)
	result.Steps = append(result.Steps, probeTools(ctx, hc, opts.Composer)...)

	warnings := 0
	for _, s := range result.Steps {
		cmd.Printf("%s %s\n", formatStatus(s.Status, opts.NonInteractive), s.Message)
		log.Debug().
			Ctx(ctx).
			Str("component", "doctor").
			Str("check", s.Name).
			Int("status", int(s.Status)).
			Bool("critical", s.Critical).
			Err(s.Err).
			Msg(s.Message)
		if s.Status == StepError && s.Critical {
			result.HasErrors = true
		}
		if s.Status == StepWarning {
			result.HasWarnings = true
			warnings++
		}
	}

	cmd.Println()
	if result.HasErrors {
		log.Error().
			Ctx(ctx).
			Str("component", "doctor").
			Str("base_path", hc.BasePath).
			Msg("doctor found critical problems")
		cmd.Println("Problems found. Fix the errors above before running 'cmskit install'.")
		return exitError(1, "doctor found critical problems")
	}
	if result.HasWarnings {
		cmd.Printf("%d warning(s); the installation can proceed but may skip those steps.\n", warnings)
	}
	cmd.Printf("Ready to install into %s\n", hc.BasePath)
	return nil
}

func checkHostFiles(hc *hostapp.Context) []StepResult {
	results := make([]StepResult, 0, len(hostFileChecks))
	for _, c := range hostFileChecks {
		if hc.Exists(c.rel) {
			results = append(results, StepResult{
				Name:     "Host file",
				Status:   StepSuccess,
				Message:  fmt.Sprintf("Found %s", c.rel),
				Critical: c.critical,
			})
			continue
		}

		status := StepWarning
		if c.critical {
			status = StepError
		}
		results = append(results, StepResult{
			Name:     "Host file",
			Status:   status,
			Message:  fmt.Sprintf("Missing %s in %s", c.rel, hc.BasePath),
			Critical: c.critical,
		})
	}
	return results
}

type toolProbe struct {
	name       string
	bin        string
	args       []string
	constraint string
	critical   bool
}

// probeTools runs the version probes concurrently. Results keep probe order.
func probeTools(ctx context.Context, hc *hostapp.Context, composer string) []StepResult {
	php := hc.Config.Install.PHPBinary
	composerName, composerArgs := hc.Composer(composer).Command("--version", nil, false)
	manager := pkgmgr.DetectNodeManager(hc.BasePath)

	probes := []toolProbe{
		{name: "PHP", bin: php, args: []string{"--version"}, constraint: minPHPVersion, critical: true},
		{name: "Composer", bin: composerName, args: composerArgs, critical: true},
	}
	skipNode := !hc.Exists("package.json")
	if !skipNode {
		probes = append(probes, toolProbe{name: manager, bin: manager, args: []string{"--version"}})
	}

	results := make([]StepResult, len(probes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProbes)
	for i, p := range probes {
		g.Go(func() error {
			results[i] = probe(gctx, hc.Runner, hc.BasePath, p)
			return nil
		})
	}
	_ = g.Wait()

	if skipNode {
		results = append(results, StepResult{
			Name:    manager,
			Status:  StepSkipped,
			Message: fmt.Sprintf("Skipped %s check (no package.json)", manager),
		})
	}
	return results
}

func probe(ctx context.Context, r pkgmgr.Runner, dir string, p toolProbe) StepResult {
	status := StepWarning
	if p.critical {
		status = StepError
	}

	out, err := r.Output(ctx, dir, p.bin, p.args...)
	if err != nil {
		logging.FromContext(ctx).Debug().
			Ctx(ctx).
			Str("component", "doctor").
			Str("tool", p.name).
			Err(err).
			Msg("tool probe failed")
		return StepResult{
			Name:     p.name,
			Status:   status,
			Message:  fmt.Sprintf("%s not available (%s)", p.name, p.bin),
			Critical: p.critical,
			Err:      err,
		}
	}

	v, err := parseToolVersion(string(out))
	if err != nil {
		return StepResult{
			Name:     p.name,
			Status:   StepWarning,
			Message:  fmt.Sprintf("%s found but could not determine version", p.name),
			Critical: p.critical,
			Err:      err,
		}
	}

	if p.constraint != "" {
		c, cErr := semver.NewConstraint(p.constraint)
		if cErr == nil && !c.Check(v) {
			return StepResult{
				Name:     p.name,
				Status:   status,
				Message:  fmt.Sprintf("%s %s does not satisfy %s", p.name, v, p.constraint),
				Critical: p.critical,
			}
		}
	}

	return StepResult{
		Name:     p.name,
		Status:   StepSuccess,
		Message:  fmt.Sprintf("%s %s detected", p.name, v),
		Critical: p.critical,
	}
}

// parseToolVersion extracts the first version number from a --version banner.
func parseToolVersion(out string) (*semver.Version, error) {
	match := versionPattern.FindString(strings.TrimSpace(out))
	if match == "" {
		return nil, errors.New("no version in output")
	}
	return semver.NewVersion(match)
}
