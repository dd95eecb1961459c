package checks

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/scanyard/scanyard/internal/check"
	"github.com/scanyard/scanyard/internal/issue"
)

const complexityThreshold = 10

func init() { check.Register(complexityCheck{}) }

// complexityCheck parses every Go source file and flags functions whose
// cyclomatic complexity exceeds the threshold. Files that fail to parse are
// skipped: the repository under scan is arbitrary and may well be broken.
type complexityCheck struct{}

func (complexityCheck) ID() string { return "complexity" }

func (complexityCheck) Run(ctx context.Context, repoPath string) ([]issue.Issue, error) {
	var issues []issue.Issue
	err := filepath.WalkDir(repoPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(p, ".go") {
			return nil
		}
		rel, rerr := filepath.Rel(repoPath, p)
		if rerr != nil || excluded(rel) {
			return nil
		}
		issues = append(issues, analyzeGoFile(p, filepath.ToSlash(rel))...)
		return nil
	})
	if err != nil {
		return issues, err
	}
	return issues, nil
}

func analyzeGoFile(path, rel string) []issue.Issue {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil
	}
	var issues []issue.Issue
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		score := cyclomatic(fn.Body)
		if score <= complexityThreshold {
			continue
		}
		issues = append(issues, issue.Issue{
			Kind:    issue.KindComplexity,
			File:    rel,
			Line:    fset.Position(fn.Pos()).Line,
			Code:    fmt.Sprintf("Complexity-%d", score),
			Message: fmt.Sprintf("%s has a cyclomatic complexity of %d", funcName(fn), score),
		})
	}
	return issues
}

func funcName(fn *ast.FuncDecl) string {
	if fn.Recv != nil && len(fn.Recv.List) == 1 {
		return fmt.Sprintf("(%s).%s", recvTypeName(fn.Recv.List[0].Type), fn.Name.Name)
	}
	return fn.Name.Name
}

func recvTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return "*" + recvTypeName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return recvTypeName(t.X)
	case *ast.IndexListExpr:
		return recvTypeName(t.X)
	default:
		return "?"
	}
}

// cyclomatic is 1 plus the number of decision points: if, for, range,
// non-default case and comm clauses, and short-circuit operators.
func cyclomatic(body *ast.BlockStmt) int {
	score := 1
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.IfStmt, *ast.ForStmt, *ast.RangeStmt:
			score++
		case *ast.CaseClause:
			if n.List != nil {
				score++
			}
		case *ast.CommClause:
			if n.Comm != nil {
				score++
			}
		case *ast.BinaryExpr:
			if n.Op == token.LAND || n.Op == token.LOR {
				score++
			}
		}
		return true
	})
	return score
}
