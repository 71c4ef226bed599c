package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type testDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	docs := NewCollection[testDoc](store, "docs")

	_, err := docs.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, docs.Put(ctx, "a", &testDoc{ID: "a", Name: "first"}))
	require.NoError(t, docs.Put(ctx, "b", &testDoc{ID: "b", Name: "second"}))

	got, err := docs.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "first", got.Name)

	// Put is an upsert.
	require.NoError(t, docs.Put(ctx, "a", &testDoc{ID: "a", Name: "updated"}))
	got, err = docs.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "updated", got.Name)

	all, err := docs.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, docs.Delete(ctx, "a"))
	_, err = docs.Get(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an unknown id is not an error.
	require.NoError(t, docs.Delete(ctx, "missing"))
}

func TestMemoryStoreCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	first := NewCollection[testDoc](store, "first")
	second := NewCollection[testDoc](store, "second")

	require.NoError(t, first.Put(ctx, "a", &testDoc{ID: "a"}))

	_, err := second.Get(ctx, "a")
	require.ErrorIs(t, err, ErrNotFound)
}
