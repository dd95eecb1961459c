package core_test

import (
	"context"
	"fmt"
	"os"

	"github.com/scanyard/scanyard/pkg/core"
)

// ExampleRunChecks demonstrates how to scan a directory in-process.
func ExampleRunChecks() {
	// 1. Run every built-in check against the current directory
	issues := core.RunChecks(context.Background(), ".")

	// 2. Process the issues
	if len(issues) == 0 {
		fmt.Println("No issues found.")
	} else {
		fmt.Printf("Found %d issues.\n", len(issues))
		// Helper to write JSON output to stdout
		_ = core.MarshalIssues(os.Stdout, issues)
	}
}
