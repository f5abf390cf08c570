package datastore_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/storesim/blobstore/memstore"
	"github.com/rise-and-shine/storesim/datastore"
)

func TestRegistry(t *testing.T) {
	reg := datastore.NewRegistry()
	ds := datastore.New(memstore.New())

	require.NoError(t, reg.Register("primary", ds))

	got, err := reg.Lookup("primary")
	require.NoError(t, err)
	assert.Same(t, ds, got)

	err = reg.Register("primary", datastore.New(memstore.New()))
	assert.True(t, errx.IsCodeIn(err, datastore.CodeDuplicateStore))

	_, err = reg.Lookup("unknown")
	assert.True(t, errx.IsCodeIn(err, datastore.CodeStoreNotFound))

	require.NoError(t, reg.Register("secondary", datastore.New(memstore.New())))
	assert.Equal(t, []string{"primary", "secondary"}, reg.Names())

	reg.Deregister("primary")
	reg.Deregister("primary")
	assert.Equal(t, []string{"secondary"}, reg.Names())
}
