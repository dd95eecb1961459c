package issue

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	good := Issue{Kind: KindChurn, File: "main.go", Line: 1, Code: "HIGH_CHURN", Message: "hot file"}
	require.NoError(t, good.Validate())

	cases := map[string]Issue{
		"missing type":    {File: "a", Line: 1, Code: "C", Message: "m"},
		"missing file":    {Kind: KindStyle, Line: 1, Code: "C", Message: "m"},
		"zero line":       {Kind: KindStyle, File: "a", Line: 0, Code: "C", Message: "m"},
		"negative line":   {Kind: KindStyle, File: "a", Line: -3, Code: "C", Message: "m"},
		"missing code":    {Kind: KindStyle, File: "a", Line: 1, Message: "m"},
		"missing message": {Kind: KindStyle, File: "a", Line: 1, Code: "C"},
	}
	for name, it := range cases {
		require.Error(t, it.Validate(), name)
	}
}

func TestMarshalArtifact_NilIsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarshalArtifact(&buf, nil))
	require.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", ArtifactName)
	in := []Issue{
		{Kind: KindComplexity, File: "pkg/a.go", Line: 42, Code: "Complexity-15", Message: "foo has a cyclomatic complexity of 15"},
		{Kind: KindCoverage, File: "coverage.json", Line: 1, Code: "LOW_COVERAGE", Message: "Test coverage is 65.50%, which is below the 80% threshold."},
	}
	require.NoError(t, WriteArtifact(path, in))

	out, err := ReadArtifact(path)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestUnmarshalArtifact_RejectsInvalidRecords(t *testing.T) {
	// line 0 violates the record invariant
	bad := `[{"type":"style","file":"a.go","line":0,"code":"X","message":"m"}]`
	_, err := UnmarshalArtifact(strings.NewReader(bad))
	require.Error(t, err)
	require.Contains(t, err.Error(), "element 0")
}

func TestUnmarshalArtifact_RejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ArtifactName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := ReadArtifact(path)
	require.Error(t, err)
}
