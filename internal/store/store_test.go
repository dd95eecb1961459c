package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	var s Store = Noop{}
	require.False(t, s.Available())

	id, err := s.PersistScan(context.Background(), "https://example.com/r.git", 3)
	require.NoError(t, err)
	require.Empty(t, id)

	require.NoError(t, s.ArchiveIssues(context.Background(), "x", nil))

	recs, err := s.RecentScans(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, recs)
}
