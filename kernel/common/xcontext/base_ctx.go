// 定义公共上下文结构，明确定义上下文结构，方便代码阅读
package xcontext

import (
	"context"

	"github.com/tethys/tethyscore/lib/logs"
	"github.com/tethys/tethyscore/lib/timer"
)

type XContext interface {
	context.Context
	GetLog() logs.Logger
	GetTimer() *timer.XTimer
}

// BaseCtx 包装一个context.Context，附带日志和计时器，方便各对象统一注入
type BaseCtx struct {
	context.Context
	XLog  logs.Logger
	Timer *timer.XTimer
}

// NewBaseCtx 以ctx为父上下文创建，ctx为空时使用Background
func NewBaseCtx(ctx context.Context, xlog logs.Logger) *BaseCtx {
	if ctx == nil {
		ctx = context.Background()
	}
	if xlog == nil {
		xlog = logs.NewNopLogger()
	}
	return &BaseCtx{
		Context: ctx,
		XLog:    xlog,
		Timer:   timer.NewXTimer(),
	}
}

func (t *BaseCtx) GetLog() logs.Logger {
	return t.XLog
}

func (t *BaseCtx) GetTimer() *timer.XTimer {
	return t.Timer
}
