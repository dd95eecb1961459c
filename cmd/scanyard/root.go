package scanyard

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register the built-in checks.
	_ "github.com/scanyard/scanyard/internal/checks"
)

var (
	flagJSON    bool
	flagVerbose bool
	flagConfig  string

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the Scanyard CLI.
var rootCmd = &cobra.Command{
	Use:           "scanyard",
	Short:         "Scan git repositories for tech debt",
	Long:          "Scanyard clones a repository, runs static-analysis checks against it inside an isolated container, and reports the issues it finds.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the Scanyard CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a config file (skips discovery)")
}
