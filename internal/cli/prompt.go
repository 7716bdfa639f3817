package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/cmskit/internal/installer"
	"github.com/rshade/cmskit/internal/tui"
)

// Asker answers one prompt.
type Asker func(ctx context.Context, p installer.Prompt) (installer.Choice, error)

// LineAsker returns an Asker that reads answers line by line from reader.
// An empty line takes the default. On EOF the default is taken as well, so
// piped or closed stdin never blocks the installation.
func LineAsker(writer io.Writer, reader io.Reader) Asker {
	scanner := bufio.NewScanner(reader)

	return func(_ context.Context, p installer.Prompt) (installer.Choice, error) {
		for {
			fmt.Fprintf(writer, "? %s\n", p.Question)
			for _, c := range p.Choices {
				suffix := ""
				if c.Value == p.Default {
					suffix = " (default)"
				}
				fmt.Fprintf(writer, "  [%s] %s%s\n", c.Value, c.Label, suffix)
			}
			fmt.Fprint(writer, "> ")

			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return installer.Choice{}, fmt.Errorf("reading answer: %w", err)
				}
				fmt.Fprintln(writer)
				return p.DefaultChoice(), nil
			}

			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				return p.DefaultChoice(), nil
			}
			if c, ok := p.Match(input); ok {
				return c, nil
			}
			fmt.Fprintf(writer, "Invalid choice %q.\n", input)
		}
	}
}

// SelectAsker returns an Asker backed by the interactive terminal list.
func SelectAsker(writer io.Writer, reader io.Reader) Asker {
	return func(ctx context.Context, p installer.Prompt) (installer.Choice, error) {
		options := make([]tui.Option, 0, len(p.Choices))
		for _, c := range p.Choices {
			options = append(options, tui.Option{Value: c.Value, Label: c.Label})
		}
		o, err := tui.RunSelect(ctx, reader, writer, p.Question, options, p.Default)
		if err != nil {
			return installer.Choice{}, err
		}
		return installer.Choice{Value: o.Value, Label: o.Label}, nil
	}
}

// askerFor picks the terminal list when the command talks to a real
// terminal and plain line input otherwise.
func askerFor(cmd *cobra.Command) Asker {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && f == os.Stdin && tui.IsTTY() {
		return SelectAsker(cmd.OutOrStdout(), in)
	}
	return LineAsker(cmd.OutOrStdout(), in)
}

// ResolveOptions fills pest and backup from positional args, asking for any
// that are missing. It never prompts for an answer that was given.
func ResolveOptions(ctx context.Context, args []string, composer string, ask Asker) (installer.Options, error) {
	opts := installer.Options{Composer: composer}

	prompts := []struct {
		prompt installer.Prompt
		target *bool
	}{
		{installer.PestPrompt(), &opts.Pest},
		{installer.BackupPrompt(), &opts.Backup},
	}

	for i, p := range prompts {
		if i < len(args) {
			v, err := installer.ParseChoice(args[i])
			if err != nil {
				return opts, fmt.Errorf("%s: %w", p.prompt.Name, err)
			}
			*p.target = v
			continue
		}

		choice, err := ask(ctx, p.prompt)
		if err != nil {
			return opts, err
		}
		v, err := installer.ParseChoice(choice.Value)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", p.prompt.Name, err)
		}
		*p.target = v
	}

	return opts, nil
}
