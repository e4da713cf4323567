package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/runner"
	"github.com/tethys/tethyscore/lib/crypto/verifier"
	"github.com/tethys/tethyscore/lib/utils"
)

type EngineConf struct {
	// 最低用户手续费，被拒绝的交易也按此扣费
	MinUserFee int64 `yaml:"minUserFee,omitempty"`
	// input directive最多接受的输入组数
	MaxInputSize int `yaml:"maxInputSize,omitempty"`
	// 并行执行的worker数
	NumWorkers int  `yaml:"numWorkers,omitempty"`
	Parallel   bool `yaml:"parallel,omitempty"`
	// world未设置keyc_name时使用
	DefaultKeyCurrency string `yaml:"defaultKeyCurrency,omitempty"`
	// 合约缓存
	ContractCacheSize  int           `yaml:"contractCacheSize,omitempty"`
	ContractMissExpire time.Duration `yaml:"contractMissExpire,omitempty"`
	// GAMMA签名暂无校验实现，为true时直接通过
	AcceptGamma bool `yaml:"acceptGamma,omitempty"`
}

func LoadEngineConf(cfgFile string) (*EngineConf, error) {
	cfg := GetDefEngineConf()
	err := cfg.loadConf(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load engine config failed.err:%s", err)
	}

	return cfg, nil
}

func GetDefEngineConf() *EngineConf {
	return &EngineConf{
		MinUserFee:         def.MinUserFee,
		MaxInputSize:       def.MaxInputSize,
		NumWorkers:         def.NumWorkers,
		Parallel:           true,
		DefaultKeyCurrency: def.DefaultKeyCurrency,
		ContractCacheSize:  def.ContractCacheSize,
		ContractMissExpire: def.ContractMissExpire,
		AcceptGamma:        verifier.GetDefConfig().AcceptGamma,
	}
}

// RunnerOptions derives the per runner options, all runners share v.
func (t *EngineConf) RunnerOptions(v verifier.Verifier) *runner.Options {
	return &runner.Options{
		MinUserFee:         t.MinUserFee,
		MaxInputSize:       t.MaxInputSize,
		DefaultKeyCurrency: t.DefaultKeyCurrency,
		Verifier:           v,
	}
}

func (t *EngineConf) VerifierConf() *verifier.Config {
	return &verifier.Config{AcceptGamma: t.AcceptGamma}
}

func (t *EngineConf) loadConf(cfgFile string) error {
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
