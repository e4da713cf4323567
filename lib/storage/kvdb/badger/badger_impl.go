// Package badger registers a badger backed kvdb engine.
package badger

import (
	"bytes"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/tethys/tethyscore/lib/storage/kvdb"
)

type BadgerDatabase struct {
	path string
	db   *badger.DB
}

func init() {
	kvdb.Register(kvdb.KVEngineTypeBadger, NewKVDBInstance)
}

func NewKVDBInstance(param *kvdb.KVParameter) (kvdb.Database, error) {
	baseDB := new(BadgerDatabase)
	if err := baseDB.Open(param.GetDBPath(), param.Options()); err != nil {
		return nil, err
	}
	return baseDB, nil
}

// Open accepts the "cache" (MB) and "storageType" options.
func (bdb *BadgerDatabase) Open(path string, options map[string]interface{}) error {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if options["storageType"] == kvdb.StorageTypeMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
		path = ""
	}
	if cache, ok := options["cache"].(int); ok && cache > 0 {
		opts = opts.WithBlockCacheSize(int64(cache) << 20)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return errors.Wrap(err, "open badger")
	}
	bdb.path = path
	bdb.db = db
	return nil
}

func (bdb *BadgerDatabase) Put(key []byte, value []byte) error {
	return bdb.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (bdb *BadgerDatabase) Get(key []byte) ([]byte, error) {
	var value []byte
	err := bdb.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, kvdb.ErrNotFound
	}
	return value, err
}

func (bdb *BadgerDatabase) Has(key []byte) (bool, error) {
	_, err := bdb.Get(key)
	if err == kvdb.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (bdb *BadgerDatabase) Delete(key []byte) error {
	return bdb.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (bdb *BadgerDatabase) Close() {
	bdb.db.Close()
}

// NewIteratorWithRange iterates [start, limit), a nil limit means no bound.
func (bdb *BadgerDatabase) NewIteratorWithRange(start []byte, limit []byte) kvdb.Iterator {
	return bdb.snapshot(nil, start, func(k []byte) bool {
		return limit == nil || bytes.Compare(k, limit) < 0
	})
}

func (bdb *BadgerDatabase) NewIteratorWithPrefix(prefix []byte) kvdb.Iterator {
	return bdb.snapshot(prefix, prefix, func(k []byte) bool {
		return bytes.HasPrefix(k, prefix)
	})
}

// badger的迭代器只能单向移动，这里先把结果读出来
func (bdb *BadgerDatabase) snapshot(prefix, seek []byte, keep func([]byte) bool) kvdb.Iterator {
	var keys, values [][]byte
	err := bdb.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(seek); it.Valid(); it.Next() {
			item := it.Item()
			k := item.KeyCopy(nil)
			if !keep(k) {
				break
			}
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			keys = append(keys, k)
			values = append(values, v)
		}
		return nil
	})
	return kvdb.NewSliceIterator(keys, values, err)
}

func (bdb *BadgerDatabase) NewBatch() kvdb.Batch {
	return &BadgerBatch{db: bdb.db, keys: make(map[string]bool)}
}

type batchOp struct {
	key   []byte
	value []byte
	del   bool
}

type BadgerBatch struct {
	db   *badger.DB
	ops  []batchOp
	size int
	keys map[string]bool
}

func (b *BadgerBatch) Put(key, value []byte) error {
	b.ops = append(b.ops, batchOp{key: key, value: value})
	b.size += len(value)
	b.keys[string(key)] = true
	return nil
}

func (b *BadgerBatch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: key, del: true})
	b.size++
	delete(b.keys, string(key))
	return nil
}

func (b *BadgerBatch) PutIfAbsent(key, value []byte) error {
	if b.keys[string(key)] {
		return nil
	}
	return b.Put(key, value)
}

func (b *BadgerBatch) Exist(key []byte) bool {
	return b.keys[string(key)]
}

func (b *BadgerBatch) ValueSize() int {
	return b.size
}

func (b *BadgerBatch) Write() error {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, op := range b.ops {
		var err error
		if op.del {
			err = wb.Delete(op.key)
		} else {
			err = wb.Set(op.key, op.value)
		}
		if err != nil {
			return errors.Wrap(err, "badger batch")
		}
	}
	return wb.Flush()
}

func (b *BadgerBatch) Reset() {
	b.ops = nil
	b.size = 0
	b.keys = make(map[string]bool)
}
