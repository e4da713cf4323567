package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/lib/utils"
)

func TestLoadEngineConf(t *testing.T) {
	engCfg, err := LoadEngineConf(getConfFile())
	if err != nil {
		t.Fatal(err)
	}

	if engCfg.MinUserFee != 20 || engCfg.NumWorkers != 2 || engCfg.Parallel || engCfg.AcceptGamma {
		t.Fatalf("unexpected engine conf: %+v", engCfg)
	}
	if engCfg.ContractMissExpire != 5*time.Second {
		t.Errorf("contract miss expire: %v", engCfg.ContractMissExpire)
	}
	// 未配置的项保持默认值
	if engCfg.MaxInputSize != def.MaxInputSize || engCfg.DefaultKeyCurrency != def.DefaultKeyCurrency {
		t.Errorf("defaults lost: %+v", engCfg)
	}

	opts := engCfg.RunnerOptions(nil)
	if opts.MinUserFee != 20 || opts.MaxInputSize != def.MaxInputSize {
		t.Errorf("runner options: %+v", opts)
	}
	if engCfg.VerifierConf().AcceptGamma {
		t.Error("acceptGamma should follow the engine conf")
	}

	if _, err := LoadEngineConf(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func getConfFile() string {
	dir := utils.GetCurFileDir()
	return filepath.Join(dir, "testdata/engine.yaml")
}
