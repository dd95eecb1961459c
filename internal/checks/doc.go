// Package checks holds the built-in analysis checks. Each check registers
// itself with the check registry in init(); importing this package (usually
// blank) is what makes the built-ins available to the engine.
//
// Within a package, file init functions run in file-name order, so the
// built-in execution order is: churn, complexity, coverage, stale_comment,
// style.
package checks
