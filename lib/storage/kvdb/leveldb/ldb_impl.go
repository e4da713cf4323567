package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/tethys/tethyscore/lib/storage/kvdb"
)

// LDBDatabase define data structure of storage
type LDBDatabase struct {
	fn string
	db *leveldb.DB
}

func init() {
	kvdb.Register(kvdb.KVEngineTypeLDB, NewKVDBInstance)
}

// NewKVDBInstance opens a leveldb by param.StorageType: single or memory.
func NewKVDBInstance(param *kvdb.KVParameter) (kvdb.Database, error) {
	baseDB := new(LDBDatabase)
	if err := baseDB.Open(param.GetDBPath(), param.Options()); err != nil {
		return nil, err
	}
	return baseDB, nil
}

func (ldb *LDBDatabase) Open(path string, options map[string]interface{}) error {
	setDefaultOptions(options)
	if options["storageType"] == kvdb.StorageTypeMemory {
		return ldb.OpenMemory(options)
	}
	return ldb.OpenSingle(path, options)
}

func setDefaultOptions(options map[string]interface{}) {
	if v, ok := options["cache"].(int); !ok || v < 16 {
		options["cache"] = 16
	}
	if v, ok := options["fds"].(int); !ok || v < 16 {
		options["fds"] = 16
	}
}

func (ldb *LDBDatabase) Path() string {
	return ldb.fn
}

func (ldb *LDBDatabase) Put(key []byte, value []byte) error {
	return ldb.db.Put(key, value, nil)
}

func (ldb *LDBDatabase) Get(key []byte) ([]byte, error) {
	value, err := ldb.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, kvdb.ErrNotFound
	}
	return value, err
}

func (ldb *LDBDatabase) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, nil)
}

func (ldb *LDBDatabase) Delete(key []byte) error {
	return ldb.db.Delete(key, nil)
}

func (ldb *LDBDatabase) Close() {
	ldb.db.Close()
}

func (ldb *LDBDatabase) NewIteratorWithRange(start []byte, limit []byte) kvdb.Iterator {
	return &LDBIterator{Iterator: ldb.db.NewIterator(&util.Range{Start: start, Limit: limit}, nil)}
}

func (ldb *LDBDatabase) NewIteratorWithPrefix(prefix []byte) kvdb.Iterator {
	return &LDBIterator{Iterator: ldb.db.NewIterator(util.BytesPrefix(prefix), nil)}
}

func (ldb *LDBDatabase) NewBatch() kvdb.Batch {
	return &LDBBatch{db: ldb.db, b: new(leveldb.Batch), keys: make(map[string]bool)}
}

// LDBIterator wraps the leveldb iterator, Key and Value are copied since
// leveldb reuses its buffers.
type LDBIterator struct {
	iterator.Iterator
}

func (it *LDBIterator) Key() []byte {
	return copyBytes(it.Iterator.Key())
}

func (it *LDBIterator) Value() []byte {
	return copyBytes(it.Iterator.Value())
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

type LDBBatch struct {
	db   *leveldb.DB
	b    *leveldb.Batch
	size int
	keys map[string]bool
}

func (b *LDBBatch) Put(key, value []byte) error {
	b.b.Put(key, value)
	b.size += len(value)
	b.keys[string(key)] = true
	return nil
}

func (b *LDBBatch) Delete(key []byte) error {
	b.b.Delete(key)
	b.size++
	delete(b.keys, string(key))
	return nil
}

// PutIfAbsent 同一batch内key已写入时不再覆盖
func (b *LDBBatch) PutIfAbsent(key, value []byte) error {
	if b.keys[string(key)] {
		return nil
	}
	return b.Put(key, value)
}

func (b *LDBBatch) Exist(key []byte) bool {
	return b.keys[string(key)]
}

func (b *LDBBatch) ValueSize() int {
	return b.size
}

func (b *LDBBatch) Write() error {
	return b.db.Write(b.b, nil)
}

func (b *LDBBatch) Reset() {
	b.b.Reset()
	b.size = 0
	b.keys = make(map[string]bool)
}
