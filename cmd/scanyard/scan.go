package scanyard

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scanyard/scanyard/internal/gitfetch"
	"github.com/scanyard/scanyard/internal/logging"
	"github.com/scanyard/scanyard/internal/orchestrator"
	"github.com/scanyard/scanyard/internal/report"
	"github.com/scanyard/scanyard/internal/runtime"
)

var (
	flagScanImage     string
	flagScanTimeout   int
	flagScanWorkspace string
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan <git-url>",
		Short: "Clone a repository and scan it in an isolated container",
		Args:  cobra.ExactArgs(1),
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagScanImage, "image", "", "scanner image to run")
	cmd.Flags().IntVar(&flagScanTimeout, "timeout", 0, "scan timeout in seconds (0 = default)")
	cmd.Flags().StringVar(&flagScanWorkspace, "workspace-dir", "", "directory for job workspaces (default: system temp)")
}

func runScan(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(flagScanImage, flagScanTimeout, 0, "", "", flagScanWorkspace)
	if err != nil {
		return err
	}
	log := logging.New(flagVerbose)

	rt, err := runtime.NewDockerRuntime()
	if err != nil {
		return fmt.Errorf("connect to container runtime: %w", err)
	}
	defer rt.Close()

	var opts []orchestrator.Option
	if s.workspaceDir != "" {
		opts = append(opts, orchestrator.WithBaseDir(s.workspaceDir))
	}
	orch := orchestrator.New(gitfetch.NewGitFetcher(), rt, log, opts...)

	start := time.Now()
	result, err := orch.RunScan(cmd.Context(), args[0], s.image, s.timeout)
	if err != nil {
		return err
	}
	if result.Warning != "" {
		fmt.Fprintln(os.Stderr, "warning:", result.Warning)
	}

	if flagJSON {
		return report.PrintJSON(os.Stdout, result)
	}
	report.PrintTable(os.Stdout, result.Issues, report.PrintOptions{Duration: time.Since(start)})
	return nil
}
