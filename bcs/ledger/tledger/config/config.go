package config

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/spf13/viper"

	"github.com/tethys/tethyscore/lib/storage/kvdb"
	"github.com/tethys/tethyscore/lib/utils"
)

type LedgerConf struct {
	// kv storage type: leveldb | badger
	KVEngineType string `yaml:"kvEngineType,omitempty"`
	// single | memory
	StorageType string `yaml:"storageType,omitempty"`
	// 相对于EnvConf.DataDir
	DataPath string `yaml:"dataPath,omitempty"`
	// 如"128MB"
	MemCacheSize          string `yaml:"memCacheSize,omitempty"`
	FileHandlersCacheSize int    `yaml:"fileHandlersCacheSize,omitempty"`
}

func LoadLedgerConf(cfgFile string) (*LedgerConf, error) {
	cfg := GetDefLedgerConf()
	err := cfg.loadConf(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load ledger config failed.err:%s", err)
	}

	return cfg, nil
}

func GetDefLedgerConf() *LedgerConf {
	return &LedgerConf{
		KVEngineType:          kvdb.KVEngineTypeLDB,
		StorageType:           kvdb.StorageTypeSingle,
		DataPath:              "ledger",
		MemCacheSize:          "128MB",
		FileHandlersCacheSize: 1024,
	}
}

// MemCacheMB parses MemCacheSize, binary units ("128MB" is 128 MiB).
func (t *LedgerConf) MemCacheMB() (int, error) {
	size, err := units.RAMInBytes(t.MemCacheSize)
	if err != nil {
		return 0, fmt.Errorf("invalid memCacheSize %q: %v", t.MemCacheSize, err)
	}
	return int(size / units.MiB), nil
}

func (t *LedgerConf) loadConf(cfgFile string) error {
	if cfgFile == "" || !utils.FileIsExist(cfgFile) {
		return fmt.Errorf("config file set error.path:%s", cfgFile)
	}

	viperObj := viper.New()
	viperObj.SetConfigFile(cfgFile)
	err := viperObj.ReadInConfig()
	if err != nil {
		return fmt.Errorf("read config failed.path:%s,err:%v", cfgFile, err)
	}

	if err = viperObj.Unmarshal(t); err != nil {
		return fmt.Errorf("unmatshal config failed.path:%s,err:%v", cfgFile, err)
	}

	return nil
}
