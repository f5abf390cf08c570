package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rise-and-shine/storesim/blobstore"
	"github.com/rise-and-shine/storesim/blobstore/memstore"
)

func newItem(path string) *blobstore.Item {
	attrs := orderedmap.New[string, string]()
	attrs.Set(blobstore.AttrContentEncoding, "gzip")
	attrs.Set(blobstore.AttrCacheControl, "no-cache")

	return &blobstore.Item{
		Location:    "memory://" + path,
		ContentType: blobstore.ContentTypeText,
		UploadedAt:  time.Now().UTC(),
		ProviderID:  "memory",
		UploadID:    "upload-1",
		Attributes:  attrs,
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	item := newItem("docs/a.txt")
	payload := []byte("payload bytes")

	require.NoError(t, store.StoreItem(ctx, "docs/a.txt", item))
	require.NoError(t, store.StoreRawData(ctx, "docs/a.txt", payload))

	got, err := store.GetItem(ctx, "docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, item.Location, got.Location)
	assert.Equal(t, item.ContentType, got.ContentType)

	enc, ok := got.Attribute(blobstore.AttrContentEncoding)
	assert.True(t, ok)
	assert.Equal(t, "gzip", enc)

	data, err := store.GetRawData(ctx, "docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestGetRawDataReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, store.StoreRawData(ctx, "p", []byte("abc")))

	data, err := store.GetRawData(ctx, "p")
	require.NoError(t, err)
	data[0] = 'x'

	again, err := store.GetRawData(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	_, err := store.GetItem(ctx, "missing.txt")
	assert.True(t, blobstore.IsNotFound(err))

	_, err = store.GetRawData(ctx, "missing.txt")
	assert.True(t, blobstore.IsNotFound(err))
}

func TestExistsRequiresRecordAndPayload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		storeItem bool
		storeRaw  bool
		expected  bool
	}{
		{name: "neither", expected: false},
		{name: "record only", storeItem: true, expected: false},
		{name: "payload only", storeRaw: true, expected: false},
		{name: "both", storeItem: true, storeRaw: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New()
			if tt.storeItem {
				require.NoError(t, store.StoreItem(ctx, "p", newItem("p")))
			}
			if tt.storeRaw {
				require.NoError(t, store.StoreRawData(ctx, "p", []byte("data")))
			}

			ok, err := store.Exists(ctx, "p")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, store.StoreItem(ctx, "p", newItem("p")))
	require.NoError(t, store.StoreRawData(ctx, "p", []byte("data")))

	require.NoError(t, store.Delete(ctx, "p"))
	require.NoError(t, store.Delete(ctx, "p"))
	require.NoError(t, store.Delete(ctx, "never-stored"))

	ok, err := store.Exists(ctx, "p")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearAndListPaths(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	// Paths containing separators and the sanitization placeholder must come
	// back byte-identical.
	paths := []string{"a/b/c.txt", "with_underscore", `weird:*?"name`}
	for _, p := range paths {
		require.NoError(t, store.StoreItem(ctx, p, newItem(p)))
		require.NoError(t, store.StoreRawData(ctx, p, []byte(p)))
	}

	listed, err := store.ListPaths(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, paths, listed)

	require.NoError(t, store.Clear(ctx))

	listed, err = store.ListPaths(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestProviderID(t *testing.T) {
	assert.Equal(t, "memory", memstore.New().ProviderID())
	assert.Equal(t, "mem-2", memstore.New(memstore.WithProviderID("mem-2")).ProviderID())
}

func TestOverwriteIsNotAnError(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, store.StoreItem(ctx, "p", newItem("p")))

	second := newItem("p")
	second.ContentType = blobstore.ContentTypeJSON
	require.NoError(t, store.StoreItem(ctx, "p", second))

	got, err := store.GetItem(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, blobstore.ContentTypeJSON, got.ContentType)
}
