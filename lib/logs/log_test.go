package logs

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tethys/tethyscore/lib/utils"
)

type recordDriver struct {
	mu   sync.Mutex
	msgs []string
	ctxs [][]interface{}
}

func (r *recordDriver) add(msg string, ctx []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	r.ctxs = append(r.ctxs, ctx)
}

func (r *recordDriver) Error(msg string, ctx ...interface{}) { r.add(msg, ctx) }
func (r *recordDriver) Warn(msg string, ctx ...interface{})  { r.add(msg, ctx) }
func (r *recordDriver) Info(msg string, ctx ...interface{})  { r.add(msg, ctx) }
func (r *recordDriver) Trace(msg string, ctx ...interface{}) { r.add(msg, ctx) }
func (r *recordDriver) Debug(msg string, ctx ...interface{}) { r.add(msg, ctx) }

func TestLoadLogConf(t *testing.T) {
	cfg, err := LoadLogConf(filepath.Join(utils.GetCurFileDir(), "testdata/log.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "tsce", cfg.Module)
	assert.False(t, cfg.Console)
	assert.Equal(t, 24, cfg.RotateBackups)

	_, err = LoadLogConf("not_exist.yaml")
	assert.Error(t, err)
}

func TestOpenLog(t *testing.T) {
	cfg := GetDefLogConf()
	cfg.Console = false
	driver, err := OpenLog(cfg, t.TempDir())
	require.NoError(t, err)

	lg, err := NewLogger(driver, "")
	require.NoError(t, err)
	assert.NotEmpty(t, lg.GetLogId())
	lg.Info("open log", "a", 1)
}

func TestLoggerFields(t *testing.T) {
	rd := &recordDriver{}
	lg, err := NewLogger(rd, "lid")
	require.NoError(t, err)

	lg.SetCommField("height", 1)
	child := lg.With("txid", "tx1")
	child.Info("run", "status", "accepted")
	lg.Warn("odd", 7)
	lg.Debug("override", CommFieldLogId, "other")

	require.Len(t, rd.ctxs, 3)
	assert.Equal(t, []interface{}{"height", 1, "txid", "tx1", "status", "accepted"}, rd.ctxs[0][6:])
	assert.Equal(t, []interface{}{"height", 1, "unknow", 7}, rd.ctxs[1][6:])
	assert.Equal(t, "other", rd.ctxs[2][1])
	assert.Equal(t, "lid", rd.ctxs[0][1])

	_, err = NewLogger(nil, "x")
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	lg := NewNopLogger()
	lg.Error("nothing")
	lg.With("k", "v").Trace("nothing")
	NewLoggerById("x").Info("discarded before init")
}
