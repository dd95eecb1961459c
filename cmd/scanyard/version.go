package scanyard

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the scanyard version",
		Run: func(*cobra.Command, []string) {
			fmt.Println("scanyard", version)
		},
	}
	rootCmd.AddCommand(cmd)
}
