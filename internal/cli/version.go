package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/rshade/cmskit/pkg/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("cmskit %s (commit %s, built %s, %s)\n",
				version.GetVersion(), version.GetGitCommit(), version.GetBuildDate(), runtime.Version())
		},
	}
}
