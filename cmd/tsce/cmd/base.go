package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tethys/tethyscore/bcs/ledger/tledger"
	xconf "github.com/tethys/tethyscore/kernel/common/xconfig"
	"github.com/tethys/tethyscore/lib/logs"
	"github.com/tethys/tethyscore/lib/metrics"
)

type BaseCmd struct {
	// cobra command
	cmd *cobra.Command
}

func (t *BaseCmd) SetCmd(cmd *cobra.Command) {
	t.cmd = cmd
}

func (t *BaseCmd) GetCmd() *cobra.Command {
	return t.cmd
}

// 命令运行环境：配置、日志和账本
type cmdEnv struct {
	envConf *xconf.EnvConf
	log     logs.Logger
	ledger  *tledger.Ledger
}

func setupEnv(envCfgPath string) (*cmdEnv, error) {
	envConf, err := xconf.LoadEnvConf(envCfgPath)
	if err != nil {
		return nil, err
	}

	// 初始化日志
	err = logs.InitLog(envConf.GenConfFilePath(envConf.LogConf), envConf.GenDirAbsPath(envConf.LogDir))
	if err != nil {
		return nil, err
	}
	log := logs.NewLoggerById(uuid.New().String())

	if envConf.MetricSwitch {
		metrics.RegisterMetrics()
	}

	lctx, err := tledger.NewLedgerCtx(envConf, log)
	if err != nil {
		return nil, err
	}
	ledger, err := tledger.OpenLedger(lctx)
	if err != nil {
		return nil, err
	}

	return &cmdEnv{envConf: envConf, log: log, ledger: ledger}, nil
}

func (e *cmdEnv) Close() {
	e.ledger.Close()
}
