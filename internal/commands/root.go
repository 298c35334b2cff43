package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tcboard-dev/tcboard/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tcboard",
		Short:   "Credit-card portfolio dashboard recomputation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newPurgeCommand())
	rootCmd.AddCommand(newScenarioCommand())

	return rootCmd
}
