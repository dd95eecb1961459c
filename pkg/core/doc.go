// Package core provides a small, stable facade over Scanyard's internal
// check engine for external integrations. It deliberately re-exports a
// narrow API surface so third-party tools can depend on a stable import
// path without exposing internal implementation packages.
//
// Example:
//
//	issues := core.RunChecks(context.Background(), ".")
//	_ = core.MarshalIssues(os.Stdout, issues)
package core
