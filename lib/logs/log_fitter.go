package logs

import (
	"fmt"
	"os"
	"sync"

	"github.com/tethys/tethyscore/lib/utils"
)

// Reserve common key
const (
	CommFieldLogId = "log_id"
	CommFieldPid   = "pid"
	CommFieldCall  = "call"
)

const (
	DefaultCallDepth = 4
)

// 底层日志库约束接口
type LogDriver interface {
	Error(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
}

// Logger 在日志库之上做一层轻量封装，方便字段组装
type Logger interface {
	GetLogId() string
	SetCommField(key string, value interface{})
	// With 派生子logger，共享driver和log_id，额外附带字段，不影响父logger
	With(ctx ...interface{}) Logger
	Error(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
}

type LogFitter struct {
	driver    LogDriver
	logId     string
	pid       int
	fields    []interface{}
	lock      *sync.RWMutex
	callDepth int
}

func NewLogger(driver LogDriver, logId string) (*LogFitter, error) {
	if driver == nil {
		return nil, fmt.Errorf("new logger param error")
	}
	if logId == "" {
		logId = utils.GenLogId()
	}

	return &LogFitter{
		driver:    driver,
		logId:     logId,
		pid:       os.Getpid(),
		fields:    make([]interface{}, 0),
		lock:      &sync.RWMutex{},
		callDepth: DefaultCallDepth,
	}, nil
}

func (t *LogFitter) GetLogId() string {
	return t.logId
}

func (t *LogFitter) SetCommField(key string, value interface{}) {
	if key == "" || value == nil {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	t.fields = append(t.fields, key, value)
}

func (t *LogFitter) With(ctx ...interface{}) Logger {
	t.lock.RLock()
	fields := make([]interface{}, 0, len(t.fields)+len(ctx))
	fields = append(fields, t.fields...)
	t.lock.RUnlock()

	return &LogFitter{
		driver:    t.driver,
		logId:     t.logId,
		pid:       t.pid,
		fields:    append(fields, pairs(ctx)...),
		lock:      &sync.RWMutex{},
		callDepth: t.callDepth,
	}
}

func (t *LogFitter) Error(msg string, ctx ...interface{}) {
	t.driver.Error(msg, t.fmtLogger(ctx...)...)
}

func (t *LogFitter) Warn(msg string, ctx ...interface{}) {
	t.driver.Warn(msg, t.fmtLogger(ctx...)...)
}

func (t *LogFitter) Info(msg string, ctx ...interface{}) {
	t.driver.Info(msg, t.fmtLogger(ctx...)...)
}

func (t *LogFitter) Trace(msg string, ctx ...interface{}) {
	t.driver.Trace(msg, t.fmtLogger(ctx...)...)
}

func (t *LogFitter) Debug(msg string, ctx ...interface{}) {
	t.driver.Debug(msg, t.fmtLogger(ctx...)...)
}

func (t *LogFitter) fmtLogger(ctx ...interface{}) []interface{} {
	ctx = pairs(ctx)

	fileLine, _ := utils.GetFuncCall(t.callDepth)
	// 保持log_id第一个写入，显式传入log_id时替换
	out := []interface{}{CommFieldLogId, t.logId, CommFieldCall, fileLine, CommFieldPid, t.pid}
	if len(ctx) > 1 && fmt.Sprintf("%v", ctx[0]) == CommFieldLogId {
		out[1] = ctx[1]
		ctx = ctx[2:]
	}

	t.lock.RLock()
	out = append(out, t.fields...)
	t.lock.RUnlock()

	return append(out, ctx...)
}

// 奇数个字段时补齐key
func pairs(ctx []interface{}) []interface{} {
	if len(ctx)%2 == 0 {
		return ctx
	}
	last := ctx[len(ctx)-1]
	out := make([]interface{}, 0, len(ctx)+1)
	out = append(out, ctx[:len(ctx)-1]...)
	return append(out, "unknow", last)
}
