package tledger

import (
	"fmt"

	lconf "github.com/tethys/tethyscore/bcs/ledger/tledger/config"
	xconf "github.com/tethys/tethyscore/kernel/common/xconfig"
	xctx "github.com/tethys/tethyscore/kernel/common/xcontext"
	"github.com/tethys/tethyscore/lib/logs"
	"github.com/tethys/tethyscore/lib/timer"
)

// 账本运行上下文环境
type LedgerCtx struct {
	// 基础上下文
	xctx.BaseCtx
	// 运行环境配置
	EnvCfg *xconf.EnvConf
	// 账本配置
	LedgerCfg *lconf.LedgerConf
}

func NewLedgerCtx(envCfg *xconf.EnvConf, log logs.Logger) (*LedgerCtx, error) {
	if envCfg == nil {
		return nil, fmt.Errorf("create ledger context failed because env conf is nil")
	}

	lcfg, err := lconf.LoadLedgerConf(envCfg.GenConfFilePath(envCfg.LedgerConf))
	if err != nil {
		return nil, fmt.Errorf("create ledger context failed because load config error.err:%v", err)
	}
	if log == nil {
		log = logs.NewNopLogger()
	}

	ctx := new(LedgerCtx)
	ctx.XLog = log
	ctx.Timer = timer.NewXTimer()
	ctx.EnvCfg = envCfg
	ctx.LedgerCfg = lcfg

	return ctx, nil
}
