package checks

import (
	"bufio"
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/scanyard/scanyard/internal/check"
	"github.com/scanyard/scanyard/internal/issue"
)

// stalePattern matches lines carrying a TODO/FIXME/XXX marker followed by a
// colon. The leading .* lets the marker sit behind any comment syntax.
var stalePattern = regexp.MustCompile(`(?i)^.*(TODO|FIXME|XXX):(.*)$`)

func init() { check.Register(staleCommentCheck{}) }

// staleCommentCheck scans every text file line by line for deferred-work
// markers. One issue per matching line, at that physical line number.
type staleCommentCheck struct{}

func (staleCommentCheck) ID() string { return "stale_comment" }

func (staleCommentCheck) Run(ctx context.Context, repoPath string) ([]issue.Issue, error) {
	var issues []issue.Issue
	err := walkTextFiles(ctx, repoPath, func(rel string, data []byte) {
		sc := bufio.NewScanner(bytes.NewReader(data))
		sc.Buffer(make([]byte, 0, 64*1024), maxFileBytes)
		line := 0
		for sc.Scan() {
			line++
			m := stalePattern.FindStringSubmatch(sc.Text())
			if m == nil {
				continue
			}
			keyword := strings.ToUpper(m[1])
			msg := strings.TrimSpace(m[2])
			if msg == "" {
				msg = "stale " + keyword + " marker with no description"
			}
			issues = append(issues, issue.Issue{
				Kind:    issue.KindStaleComment,
				File:    rel,
				Line:    line,
				Code:    "FOUND_" + keyword,
				Message: msg,
			})
		}
	})
	if err != nil {
		return issues, err
	}
	return issues, nil
}
