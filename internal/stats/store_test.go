// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/catechism-bot/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "lookups.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lookups.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, types.Lookup{ID: "1", Outcome: types.OutcomeFound}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTop(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	lookups := []types.Lookup{
		{ID: "27", Outcome: types.OutcomeFound, Source: "discord", At: base},
		{ID: "27", Outcome: types.OutcomeFound, Source: "http", At: base.Add(time.Minute)},
		{ID: "27", Outcome: types.OutcomeNotLoaded, Source: "discord", At: base.Add(2 * time.Minute)},
		{ID: "1", Outcome: types.OutcomeFound, Source: "discord", At: base},
		{ID: "9999", Outcome: types.OutcomeNotFound, Source: "discord", At: base},
	}
	for _, l := range lookups {
		require.NoError(t, s.Record(ctx, l))
	}

	top, err := s.Top(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, "27", top[0].ID)
	assert.Equal(t, 3, top[0].Count)
	assert.Equal(t, 2, top[0].Found)
	assert.True(t, base.Add(2*time.Minute).Equal(top[0].LastSeen))

	assert.Equal(t, "1", top[1].ID)
	assert.Equal(t, "9999", top[2].ID)
	assert.Equal(t, 0, top[2].Found)

	limited, err := s.Top(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestTop_Empty(t *testing.T) {
	s := openTestStore(t)
	top, err := s.Top(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestRecord_DefaultsTimestamp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, types.Lookup{ID: "5", Outcome: types.OutcomeFound}))
	top, err := s.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.WithinDuration(t, time.Now(), top[0].LastSeen, time.Minute)
}
