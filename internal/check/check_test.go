package check

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scanyard/scanyard/internal/issue"
)

type stubCheck struct{ id string }

func (s stubCheck) ID() string { return s.id }
func (s stubCheck) Run(context.Context, string) ([]issue.Issue, error) {
	return nil, nil
}

func TestRegisterPreservesOrder(t *testing.T) {
	Register(stubCheck{id: "zz-test-first"})
	Register(stubCheck{id: "aa-test-second"})

	ids := IDs()
	var got []string
	for _, id := range ids {
		if id == "zz-test-first" || id == "aa-test-second" {
			got = append(got, id)
		}
	}
	require.Equal(t, []string{"zz-test-first", "aa-test-second"}, got,
		"registration order must be preserved, not sorted")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(stubCheck{id: "dup-test"})
	require.Panics(t, func() { Register(stubCheck{id: "dup-test"}) })
}

func TestAllReturnsCopy(t *testing.T) {
	Register(stubCheck{id: "copy-test"})
	a := All()
	a[0] = stubCheck{id: "mutated"}
	b := All()
	require.NotEqual(t, "mutated", b[0].ID())
}
