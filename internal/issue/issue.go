package issue

import "fmt"

// Kind is the category of a finding. The set is open-ended: a new check
// introduces a new kind without any change here.
type Kind string

const (
	KindStyle        Kind = "style"
	KindComplexity   Kind = "complexity"
	KindStaleComment Kind = "stale_comment"
	KindChurn        Kind = "churn"
	KindCoverage     Kind = "coverage"
)

// RepoLevelPath is the sentinel file path for findings that apply to the
// repository as a whole rather than a single file.
const RepoLevelPath = "."

// Issue is one normalized finding. Every field is always populated; Line is
// 1 for file- or repo-level findings and never below 1.
//
// The JSON field names are the wire contract between the check runner inside
// the scanner container and the orchestrator outside it. They must not change
// independently on either side.
type Issue struct {
	Kind    Kind   `json:"type"`
	File    string `json:"file"`
	Line    int    `json:"line"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validate reports whether the issue satisfies the record invariant:
// no empty fields and a line number of at least 1.
func (i Issue) Validate() error {
	if i.Kind == "" {
		return fmt.Errorf("issue missing type")
	}
	if i.File == "" {
		return fmt.Errorf("issue missing file")
	}
	if i.Line < 1 {
		return fmt.Errorf("issue line %d out of range (must be >= 1)", i.Line)
	}
	if i.Code == "" {
		return fmt.Errorf("issue missing code")
	}
	if i.Message == "" {
		return fmt.Errorf("issue missing message")
	}
	return nil
}
