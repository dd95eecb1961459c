package issue

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ArtifactName is the fixed file name of the result artifact inside the
// output directory shared between the scanner container and the host.
const ArtifactName = "results.json"

// MarshalArtifact writes issues as an indented JSON array. A nil slice is
// written as [], never null, so consumers can always decode an array.
func MarshalArtifact(w io.Writer, issues []Issue) error {
	if issues == nil {
		issues = []Issue{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(issues)
}

// UnmarshalArtifact decodes an issue array and validates every record.
func UnmarshalArtifact(r io.Reader) ([]Issue, error) {
	var issues []Issue
	if err := json.NewDecoder(r).Decode(&issues); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	for n, it := range issues {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("artifact element %d: %w", n, err)
		}
	}
	return issues, nil
}

// WriteArtifact writes the artifact to path, creating parent directories.
func WriteArtifact(path string, issues []Issue) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()
	if err := MarshalArtifact(f, issues); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// ReadArtifact reads and validates the artifact at path.
func ReadArtifact(path string) ([]Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return UnmarshalArtifact(f)
}
