package runlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRunLog_CompleteLifecycle(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	id, err := l.Start(ctx, "ngvc")
	require.NoError(t, err)
	require.NoError(t, l.Complete(ctx, id, 42, 12))

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ngvc", entries[0].Retailer)
	assert.Equal(t, StatusComplete, entries[0].Status)
	assert.Equal(t, 42, entries[0].ProductCount)
	assert.Equal(t, 12, entries[0].PeriodCount)
	assert.NotNil(t, entries[0].CompletedAt)
}

func TestRunLog_FailLifecycle(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	id, err := l.Start(ctx, "tvs")
	require.NoError(t, err)
	require.NoError(t, l.Fail(ctx, id, "no snapshot files found"))

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusFailed, entries[0].Status)
	assert.Equal(t, "no snapshot files found", entries[0].Error)
}

func TestRunLog_RecentOrderAndLimit(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	for _, r := range []string{"ngvc", "sprouts", "iherb"} {
		id, err := l.Start(ctx, r)
		require.NoError(t, err)
		require.NoError(t, l.Complete(ctx, id, 1, 1))
	}

	entries, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "iherb", entries[0].Retailer)
	assert.Equal(t, "sprouts", entries[1].Retailer)
}
