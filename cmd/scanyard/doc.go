// Package scanyard provides the command-line interface for the Scanyard
// tool. It configures subcommands (scan, serve, check, etc.), parses flags,
// and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/scanyard/scanyard/cmd/scanyard"
//	func main() { scanyard.Execute() }
package scanyard
