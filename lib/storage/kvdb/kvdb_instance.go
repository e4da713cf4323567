package kvdb

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Database.Get for a missing key.
var ErrNotFound = errors.New("kvdb: not found")

// KVParameter structure for kv instance parameters
type KVParameter struct {
	DBPath       string
	KVEngineType string
	StorageType  string
	// MB
	MemCacheSize          int
	FileHandlersCacheSize int
}

const (
	KVEngineTypeLDB    = "leveldb"
	KVEngineTypeBadger = "badger"
)

const (
	StorageTypeSingle = "single"
	// 纯内存，进程退出后数据丢失，用于测试和一次性回放
	StorageTypeMemory = "memory"
)

var (
	servsMu  sync.RWMutex
	services = make(map[string]NewStorageFunc)
)

type NewStorageFunc func(*KVParameter) (Database, error)

func Register(name string, f NewStorageFunc) {
	servsMu.Lock()
	defer servsMu.Unlock()

	if f == nil {
		panic("storage: Register new func is nil")
	}
	if _, dup := services[name]; dup {
		panic("storage: Register called twice for func " + name)
	}
	services[name] = f
}

// Engines lists the registered engine names.
func Engines() []string {
	servsMu.RLock()
	defer servsMu.RUnlock()
	list := make([]string, 0, len(services))
	for name := range services {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

func CreateKVInstance(kvParam *KVParameter) (Database, error) {
	if kvParam == nil {
		return nil, errors.New("kv parameter is nil")
	}

	servsMu.RLock()
	f, ok := services[kvParam.KVEngineType]
	servsMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("kv engine %s not registered", kvParam.KVEngineType)
	}

	instance, err := f(kvParam)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s instance", kvParam.KVEngineType)
	}
	return instance, nil
}

// GetDBPath return the value of DBPath
func (param *KVParameter) GetDBPath() string {
	return param.DBPath
}

// GetKVEngineType return the value of KVEngineType
func (param *KVParameter) GetKVEngineType() string {
	return param.KVEngineType
}

// GetStorageType return the value of GetStorageType
func (param *KVParameter) GetStorageType() string {
	return param.StorageType
}

// GetMemCacheSize return the value of MemCacheSize
func (param *KVParameter) GetMemCacheSize() int {
	return param.MemCacheSize
}

// GetFileHandlersCacheSize return the value of FileHandlersCacheSize
func (param *KVParameter) GetFileHandlersCacheSize() int {
	return param.FileHandlersCacheSize
}

// Options converts the parameter into the option map of Database.Open.
func (param *KVParameter) Options() map[string]interface{} {
	return map[string]interface{}{
		"cache":       param.MemCacheSize,
		"fds":         param.FileHandlersCacheSize,
		"storageType": param.StorageType,
	}
}
