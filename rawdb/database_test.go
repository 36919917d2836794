package rawdb

import (
	"testing"

	"github.com/everFinance/dynft/schema"
	"github.com/stretchr/testify/assert"
)

func TestBoltDBPutGet(t *testing.T) {
	db, err := NewBoltDB(t.TempDir())
	assert.NoError(t, err)
	defer db.Close()

	data := []byte(`{"name":"Fire Dragon","description":"d"}`)
	handle, err := db.Put(data)
	assert.NoError(t, err)
	assert.Equal(t, BlobHandle(data), handle)
	assert.True(t, schema.IsBlobHandle(handle))

	got, err := db.Get(handle)
	assert.NoError(t, err)
	assert.Equal(t, data, got)
	assert.True(t, db.Exist(handle))
}

func TestBoltDBContentAddressed(t *testing.T) {
	db, err := NewBoltDB(t.TempDir())
	assert.NoError(t, err)
	defer db.Close()

	h1, err := db.Put([]byte("same bytes"))
	assert.NoError(t, err)
	h2, err := db.Put([]byte("same bytes"))
	assert.NoError(t, err)
	assert.Equal(t, h1, h2)

	h3, err := db.Put([]byte("other bytes"))
	assert.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestBoltDBMissing(t *testing.T) {
	db, err := NewBoltDB(t.TempDir())
	assert.NoError(t, err)
	defer db.Close()

	_, err = db.Put(nil)
	assert.ErrorIs(t, err, schema.ErrNullData)

	_, err = db.Get(BlobHandle([]byte("never stored")))
	assert.ErrorIs(t, err, schema.ErrNotExist)
	assert.False(t, db.Exist(BlobHandle([]byte("never stored"))))
}
