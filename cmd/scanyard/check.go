package scanyard

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/scanyard/scanyard/internal/engine"
	"github.com/scanyard/scanyard/internal/logging"
	"github.com/scanyard/scanyard/internal/report"
)

var flagCheckFailOnIssues bool

func init() {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Run all checks against a local repository, without a container",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().BoolVar(&flagCheckFailOnIssues, "fail-on-issues", false, "exit 1 when any issue is found")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	log := logging.New(flagVerbose)
	start := time.Now()
	issues := engine.Default(log).RunAll(cmd.Context(), abs)

	if flagJSON {
		if err := report.PrintJSON(os.Stdout, issues); err != nil {
			return err
		}
	} else {
		report.PrintTable(os.Stdout, issues, report.PrintOptions{Duration: time.Since(start)})
	}

	if flagCheckFailOnIssues && len(issues) > 0 {
		os.Exit(1)
	}
	return nil
}
