// Package report renders scan results for terminals and pipelines: a table
// view for humans and an indented JSON view for tooling.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/scanyard/scanyard/internal/issue"
)

type PrintOptions struct {
	Duration time.Duration
}

// PrintTable writes the issues as a bordered table, sorted by file then line,
// followed by a summary footer.
func PrintTable(w io.Writer, issues []issue.Issue, opts PrintOptions) {
	sorted := make([]issue.Issue, len(issues))
	copy(sorted, issues)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].File == sorted[j].File {
			return sorted[i].Line < sorted[j].Line
		}
		return sorted[i].File < sorted[j].File
	})

	if len(sorted) == 0 {
		fmt.Fprintln(w, "No issues found ✅")
	} else {
		table := tablewriter.NewTable(w)
		table.Header("TYPE", "FILE", "LINE", "CODE", "MESSAGE")
		for _, is := range sorted {
			_ = table.Append([]string{string(is.Kind), is.File, strconv.Itoa(is.Line), is.Code, is.Message})
		}
		_ = table.Render()
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Issues: %d%s\n", len(sorted), kindBreakdown(sorted))
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func kindBreakdown(issues []issue.Issue) string {
	if len(issues) == 0 {
		return ""
	}
	counts := map[issue.Kind]int{}
	for _, is := range issues {
		counts[is.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	out := " ("
	for i, k := range kinds {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s: %d", k, counts[issue.Kind(k)])
	}
	return out + ")"
}
