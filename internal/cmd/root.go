package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// DefaultConfigPath is where modeldiff looks for its configuration when
// --config is not given. A missing file means defaults.
const DefaultConfigPath = ".modeldiff.yaml"

// NewRootCommand creates and returns the root cobra command for modeldiff
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modeldiff",
		Short: "Version-aware structural model comparison",
		Long: `Modeldiff compares two revisions of a structural building model and
separates genuine engineering changes from differences that only exist
because the revisions were exported under different schema versions.

It matches elements by ID across renamed and reorganized types, classifies
every attribute difference, checks cross-section equivalence within
tolerance, and summarizes the result per element type.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", DefaultConfigPath, "Path to configuration file")
	cmd.PersistentFlags().String("log-level", "", "Log verbosity (debug, info, warn, error)")

	// Add subcommands
	cmd.AddCommand(NewCompareCommand())
	cmd.AddCommand(NewSectionsCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
