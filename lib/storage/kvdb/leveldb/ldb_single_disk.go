package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// OpenSingle opens an instance of LDB with parameters (ldb path and other options)
func (ldb *LDBDatabase) OpenSingle(path string, options map[string]interface{}) error {
	db, err := leveldb.OpenFile(path, ldbOptions(options))
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		return err
	}
	// (Re)check for errors and abort if opening of the db failed
	if err != nil {
		return err
	}
	ldb.fn = path
	ldb.db = db
	return nil
}

// OpenMemory opens a leveldb on memory storage, nothing survives Close.
func (ldb *LDBDatabase) OpenMemory(options map[string]interface{}) error {
	db, err := leveldb.Open(storage.NewMemStorage(), ldbOptions(options))
	if err != nil {
		return err
	}
	ldb.fn = ""
	ldb.db = db
	return nil
}

func ldbOptions(options map[string]interface{}) *opt.Options {
	cache := options["cache"].(int)
	fds := options["fds"].(int)
	return &opt.Options{
		OpenFilesCacheCapacity: fds,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	}
}
