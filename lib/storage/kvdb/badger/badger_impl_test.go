package badger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tethys/tethyscore/lib/storage/kvdb"
)

func TestBadgerMemory(t *testing.T) {
	db, err := kvdb.CreateKVInstance(&kvdb.KVParameter{
		KVEngineType: kvdb.KVEngineTypeBadger,
		StorageType:  kvdb.StorageTypeMemory,
	})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("c/cid1"), []byte("doc1")))
	batch := db.NewBatch()
	batch.Put([]byte("c/cid2"), []byte("doc2"))
	batch.Put([]byte("cs/cid1/x"), []byte("1"))
	batch.Delete([]byte("c/cid1"))
	require.NoError(t, batch.Write())

	_, err = db.Get([]byte("c/cid1"))
	assert.Equal(t, kvdb.ErrNotFound, err)
	ok, err := db.Has([]byte("c/cid2"))
	assert.NoError(t, err)
	assert.True(t, ok)

	it := db.NewIteratorWithPrefix([]byte("c/"))
	require.True(t, it.Next())
	assert.Equal(t, "c/cid2", string(it.Key()))
	assert.False(t, it.Next())
	assert.NoError(t, it.Error())
	it.Release()

	it = db.NewIteratorWithRange([]byte("c/"), nil)
	assert.True(t, it.Last())
	assert.Equal(t, "1", string(it.Value()))
	assert.True(t, it.Prev())
	assert.Equal(t, "doc2", string(it.Value()))
	it.Release()
}

func TestEngines(t *testing.T) {
	assert.Contains(t, kvdb.Engines(), kvdb.KVEngineTypeBadger)
	_, err := kvdb.CreateKVInstance(&kvdb.KVParameter{KVEngineType: "rocksdb"})
	assert.Error(t, err)
}
