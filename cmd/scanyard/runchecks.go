package scanyard

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scanyard/scanyard/internal/engine"
	"github.com/scanyard/scanyard/internal/issue"
	"github.com/scanyard/scanyard/internal/logging"
	"github.com/scanyard/scanyard/internal/orchestrator"
)

var (
	flagRunChecksRepo   string
	flagRunChecksOutput string
)

func init() {
	cmd := &cobra.Command{
		Use:   "run-checks",
		Short: "Run all checks and write the results artifact",
		Long: "run-checks is the scanner image's entrypoint. It reads the mounted " +
			"repository, runs every registered check, and writes the results " +
			"artifact. Check failures are logged and skipped; only a failure to " +
			"write the artifact exits non-zero.",
		RunE: runRunChecks,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagRunChecksRepo, "repo", orchestrator.ContainerRepoPath, "repository path to scan")
	cmd.Flags().StringVar(&flagRunChecksOutput, "output", filepath.Join(orchestrator.ContainerOutputPath, issue.ArtifactName), "results artifact path")
}

func runRunChecks(cmd *cobra.Command, _ []string) error {
	log := logging.New(flagVerbose)
	if _, err := engine.Default(log).Run(cmd.Context(), flagRunChecksRepo, flagRunChecksOutput); err != nil {
		log.Error("scan run failed", "error", err)
		os.Exit(1)
	}
	return nil
}
