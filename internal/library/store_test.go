// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_LookupMiss(t *testing.T) {
	s := openStore(t)
	text, ok, err := s.Lookup(context.Background(), "https://arxiv.org/pdf/1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestStore_StoreAndReplace(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	url := "https://arxiv.org/pdf/2301.07041"

	require.NoError(t, s.Store(ctx, url, "first", 2))
	require.NoError(t, s.Store(ctx, url, "second", 3))

	text, ok, err := s.Lookup(ctx, url)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", text)

	e, ok, err := s.Get(ctx, url)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, e.Pages)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_Prune(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return old }
	require.NoError(t, s.Store(ctx, "old", "text", 1))

	s.now = func() time.Time { return old.AddDate(1, 0, 0) }
	require.NoError(t, s.Store(ctx, "new", "text", 1))

	removed, err := s.Prune(ctx, old.AddDate(0, 6, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, ok, err := s.Lookup(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.Lookup(ctx, "new")
	require.NoError(t, err)
	assert.True(t, ok)
}
