package leveldb

import (
	"math/rand"
	"testing"

	"github.com/tethys/tethyscore/lib/storage/kvdb"
)

const (
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// 产生随机字符串
func RandBytes(n int) []byte {
	b := make([]byte, n)
	for i, cache, remain := n-1, rand.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = rand.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(letterBytes) {
			b[i] = letterBytes[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}
	return b
}

func makeDB(path, storageType string) (kvdb.Database, error) {
	kvParam := &kvdb.KVParameter{
		DBPath:                path,
		KVEngineType:          kvdb.KVEngineTypeLDB,
		StorageType:           storageType,
		MemCacheSize:          128,
		FileHandlersCacheSize: 1024,
	}
	return kvdb.CreateKVInstance(kvParam)
}

func TestLdbSingle(t *testing.T) {
	db, err := makeDB(t.TempDir(), kvdb.StorageTypeSingle)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := db.Put([]byte("us/u1/THY/p1"), []byte("v1")); err != nil {
		t.Fatal(err)
	}
	batch := db.NewBatch()
	batch.Put([]byte("us/u1/THY/p2"), []byte("v2"))
	batch.PutIfAbsent([]byte("us/u1/THY/p2"), []byte("ignored"))
	batch.Put([]byte("us/u2/THY/p3"), []byte("v3"))
	batch.Delete([]byte("us/u1/THY/p1"))
	if !batch.Exist([]byte("us/u2/THY/p3")) || batch.Exist([]byte("us/u1/THY/p1")) {
		t.Error("batch exist mismatch")
	}
	if err := batch.Write(); err != nil {
		t.Fatal(err)
	}

	if _, err := db.Get([]byte("us/u1/THY/p1")); err != kvdb.ErrNotFound {
		t.Errorf("deleted key: %v", err)
	}
	if v, err := db.Get([]byte("us/u1/THY/p2")); err != nil || string(v) != "v2" {
		t.Errorf("get p2: %s %v", v, err)
	}

	it := db.NewIteratorWithPrefix([]byte("us/u1/"))
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Release()
	if len(keys) != 1 || keys[0] != "us/u1/THY/p2" {
		t.Errorf("prefix keys: %v", keys)
	}

	it = db.NewIteratorWithRange([]byte("us/u1/"), []byte("us/u3"))
	if !it.Last() || string(it.Value()) != "v3" {
		t.Errorf("range last: %s", it.Value())
	}
	it.Release()
}

func TestLdbMemory(t *testing.T) {
	db, err := makeDB("", kvdb.StorageTypeMemory)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	db.Put([]byte("w"), []byte("world"))
	if ok, _ := db.Has([]byte("w")); !ok {
		t.Error("memory db lost key")
	}
}

func BenchmarkLdbBatch_Put(b *testing.B) {
	db, err := makeDB("", kvdb.StorageTypeMemory)
	if err != nil {
		b.Errorf("NewKVDBInstance error: %s", err)
		return
	}
	defer db.Close()

	keys := make([][]byte, 5)
	for i := 0; i < b.N; i++ {
		batch := db.NewBatch()
		if i > 0 {
			batch.Delete(keys[1])
			batch.Delete(keys[3])
		}
		for j := 0; j < 5; j++ {
			keys[j] = RandBytes(64)
			batch.Put(keys[j], RandBytes(1024))
		}
		batch.Write()
	}
}

func BenchmarkLdbBatch_Get(b *testing.B) {
	db, err := makeDB("", kvdb.StorageTypeMemory)
	if err != nil {
		b.Errorf("NewKVDBInstance error: %s", err)
		return
	}
	defer db.Close()

	key := RandBytes(64)
	db.Put(key, RandBytes(1024))
	for i := 0; i < b.N; i++ {
		db.Get(key)
	}
}
