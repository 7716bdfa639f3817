package installer

import (
	"fmt"
	"strings"

	"github.com/rshade/cmskit/internal/config"
)

// Options are resolved once before the run and never change during it.
type Options struct {
	// Pest selects Pest over PHPUnit.
	Pest bool
	// Backup preserves host files before they are overwritten.
	Backup bool
	// Composer is "global" or a path to composer.phar.
	Composer string
}

// DefaultOptions are the answers used by `cmskit defaults`.
func DefaultOptions() Options {
	return Options{Pest: true, Backup: false, Composer: config.DefaultComposer}
}

// Choice is one answer of a prompt.
type Choice struct {
	Value string
	Label string
}

// Prompt describes a question asked when an option was not given.
type Prompt struct {
	Name     string
	Question string
	Choices  []Choice
	Default  string
}

// PestPrompt asks for the test framework.
func PestPrompt() Prompt {
	return Prompt{
		Name:     "pest",
		Question: "Which testing framework do you prefer?",
		Choices:  []Choice{{Value: "1", Label: "Pest"}, {Value: "0", Label: "PHPUnit"}},
		Default:  "1",
	}
}

// BackupPrompt asks whether host files are backed up.
func BackupPrompt() Prompt {
	return Prompt{
		Name:     "backup",
		Question: "Would you like to backup the original files?",
		Choices:  []Choice{{Value: "1", Label: "Yes"}, {Value: "0", Label: "No"}},
		Default:  "0",
	}
}

// Match returns the choice whose value or label equals answer, ignoring case.
func (p Prompt) Match(answer string) (Choice, bool) {
	answer = strings.TrimSpace(answer)
	for _, c := range p.Choices {
		if strings.EqualFold(c.Value, answer) || strings.EqualFold(c.Label, answer) {
			return c, true
		}
	}
	return Choice{}, false
}

// DefaultChoice returns the prompt's default answer.
func (p Prompt) DefaultChoice() Choice {
	c, _ := p.Match(p.Default)
	return c
}

// ParseChoice interprets a positional yes/no argument.
func ParseChoice(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "y", "yes", "true", "pest":
		return true, nil
	case "0", "n", "no", "false", "phpunit":
		return false, nil
	default:
		return false, fmt.Errorf("invalid choice %q: expected 1 or 0", s)
	}
}
