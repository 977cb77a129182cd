package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerStore_GetMissing(t *testing.T) {
	blob, err := NewLedgerStore().Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, blob)
}

func TestLedgerStore_PutCopiesBlob(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()

	blob := []byte(`{"pools":{}}`)
	require.NoError(t, store.Put(ctx, "k", blob))
	blob[0] = 'x'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"pools":{}}`, string(got))

	got[0] = 'y'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"pools":{}}`, string(again))
}

func TestLedgerStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore()

	require.NoError(t, store.Put(ctx, "a", []byte("1")))
	require.NoError(t, store.Put(ctx, "b", []byte("2")))
	require.NoError(t, store.Put(ctx, "a", []byte("3")))

	a, _ := store.Get(ctx, "a")
	b, _ := store.Get(ctx, "b")
	assert.Equal(t, "3", string(a))
	assert.Equal(t, "2", string(b))
}
