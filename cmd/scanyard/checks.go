package scanyard

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scanyard/scanyard/internal/check"
	"github.com/scanyard/scanyard/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List the registered checks in execution order",
		RunE:  runChecks,
	}
	rootCmd.AddCommand(cmd)
}

func runChecks(*cobra.Command, []string) error {
	ids := check.IDs()
	if flagJSON {
		return report.PrintJSON(os.Stdout, ids)
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
