package core

import (
	"bytes"
	"context"
	"testing"
)

func TestRunChecks_Smoke(t *testing.T) {
	issues := RunChecks(context.Background(), t.TempDir())
	if issues == nil {
		t.Fatal("expected a non-nil issue slice, even when empty")
	}

	ids := CheckIDs()
	if len(ids) == 0 {
		t.Fatal("expected non-empty check IDs")
	}
}

func TestIssueJSONRoundTrip(t *testing.T) {
	in := []Issue{{Kind: "style", File: "a.go", Line: 3, Code: "TRAILING_WS", Message: "Line has trailing whitespace."}}

	var buf bytes.Buffer
	if err := MarshalIssues(&buf, in); err != nil {
		t.Fatalf("MarshalIssues: %v", err)
	}
	out, err := UnmarshalIssues(&buf)
	if err != nil {
		t.Fatalf("UnmarshalIssues: %v", err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Fatalf("round trip mismatch: %#v", out)
	}
}
