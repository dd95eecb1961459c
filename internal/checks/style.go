package checks

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/scanyard/scanyard/internal/check"
	"github.com/scanyard/scanyard/internal/issue"
)

const styleMaxLineLen = 160

func init() { check.Register(styleCheck{}) }

// styleCheck applies cheap, language-agnostic hygiene rules to every text
// file. It stands in for a full lint pass; heavier rule engines live in
// their own checks.
type styleCheck struct{}

func (styleCheck) ID() string { return "style" }

func (styleCheck) Run(ctx context.Context, repoPath string) ([]issue.Issue, error) {
	var issues []issue.Issue
	err := walkTextFiles(ctx, repoPath, func(rel string, data []byte) {
		sc := bufio.NewScanner(bytes.NewReader(data))
		sc.Buffer(make([]byte, 0, 64*1024), maxFileBytes)
		line := 0
		for sc.Scan() {
			line++
			t := sc.Text()
			if t != strings.TrimRight(t, " \t") {
				issues = append(issues, issue.Issue{
					Kind:    issue.KindStyle,
					File:    rel,
					Line:    line,
					Code:    "TRAILING_WS",
					Message: "Line has trailing whitespace.",
				})
			}
			if n := len(t); n > styleMaxLineLen {
				issues = append(issues, issue.Issue{
					Kind:    issue.KindStyle,
					File:    rel,
					Line:    line,
					Code:    "LONG_LINE",
					Message: fmt.Sprintf("Line is %d characters long (limit %d).", n, styleMaxLineLen),
				})
			}
		}
	})
	if err != nil {
		return issues, err
	}
	return issues, nil
}
