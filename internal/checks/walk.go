package checks

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// maxFileBytes caps how much of a single file a line-oriented check will
// read. Oversized files are skipped rather than truncated.
const maxFileBytes = 1 << 20

// binaryExt is the extension denylist for line-oriented checks. It mirrors
// the artifact types a repository commonly vendors but never wants scanned
// line by line.
var binaryExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".zip": true, ".tar": true, ".gz": true, ".ico": true,
	".pdf": true, ".svg": true,
}

// excludeGlobs are path patterns never handed to line-oriented checks.
// Dependency trees dominate file counts and are not the scanned project's
// own debt.
var excludeGlobs = []string{
	"**/node_modules/**",
	"**/vendor/**",
	"**/.git/**",
}

func excluded(rel string) bool {
	slashed := filepath.ToSlash(rel)
	for _, g := range excludeGlobs {
		if ok, _ := doublestar.Match(g, slashed); ok {
			return true
		}
	}
	return false
}

// walkTextFiles traverses the repository working tree and invokes handle for
// every readable, non-binary, non-oversized file. Unreadable files are
// skipped: checks must tolerate adversarial repository content.
func walkTextFiles(ctx context.Context, root string, handle func(rel string, data []byte)) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
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
		rel, rerr := filepath.Rel(root, p)
		if rerr != nil {
			return nil
		}
		if excluded(rel) {
			return nil
		}
		if binaryExt[strings.ToLower(filepath.Ext(rel))] {
			return nil
		}
		info, ierr := d.Info()
		if ierr != nil || info.Size() > maxFileBytes {
			return nil
		}
		b, rerr2 := os.ReadFile(p)
		if rerr2 != nil {
			return nil
		}
		if looksBinary(b) {
			return nil
		}
		handle(filepath.ToSlash(rel), b)
		return nil
	})
}

// looksBinary sniffs a prefix for NUL bytes, which text files never contain.
func looksBinary(b []byte) bool {
	const sniff = 800
	n := min(len(b), sniff)
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}
