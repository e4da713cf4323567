package config

import (
	"path/filepath"
	"testing"

	"github.com/tethys/tethyscore/lib/utils"
)

func TestLoadLedgerConf(t *testing.T) {
	ledgerCfg, err := LoadLedgerConf(getConfFile())
	if err != nil {
		t.Fatal(err)
	}

	if ledgerCfg.KVEngineType != "badger" || ledgerCfg.StorageType != "memory" || ledgerCfg.DataPath != "ledger" {
		t.Fatalf("unexpected ledger conf: %+v", ledgerCfg)
	}
	mb, err := ledgerCfg.MemCacheMB()
	if err != nil || mb != 1024 {
		t.Errorf("mem cache: %d %v", mb, err)
	}

	ledgerCfg.MemCacheSize = "lots"
	if _, err := ledgerCfg.MemCacheMB(); err == nil {
		t.Error("expected error for bad size")
	}
}

func getConfFile() string {
	dir := utils.GetCurFileDir()
	return filepath.Join(dir, "testdata/ledger.yaml")
}
