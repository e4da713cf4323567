package logs

import (
	"fmt"
	"os"
	"sync"

	log "github.com/xuperchain/log15"
)

// LogBufSize define log buffer channel size
const LogBufSize = 102400

var (
	once      sync.Once
	logDriver LogDriver
)

// OpenLog create and open log stream using LogConfig
func OpenLog(lc *LogConfig, logDir string) (LogDriver, error) {
	if logDir == "" {
		logDir = lc.Filepath
	}
	infoFile := logDir + "/" + lc.Filename + ".log"
	wfFile := logDir + "/" + lc.Filename + ".log.wf"
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create log dir failed.dir:%s,err:%v", logDir, err)
	}

	lfmt := log.LogfmtFormat()
	if lc.Fmt == "json" {
		lfmt = log.JsonFormat()
	}

	xlog := log.New("module", lc.Module)
	lvLevel, err := log.LvlFromString(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log level error.err:%v", err)
	}
	xlog.SetLevelLimit(lvLevel)

	var nmHandler, wfHandler log.Handler
	if lc.RotateInterval > 0 && lc.RotateBackups > 0 {
		nmHandler = log.Must.RotateFileHandler(infoFile, lfmt, lc.RotateInterval, lc.RotateBackups)
		wfHandler = log.Must.RotateFileHandler(wfFile, lfmt, lc.RotateInterval, lc.RotateBackups)
	} else {
		nmHandler = log.Must.FileHandler(infoFile, lfmt)
		wfHandler = log.Must.FileHandler(wfFile, lfmt)
	}
	if lc.Async {
		nmHandler = log.BufferedHandler(LogBufSize, nmHandler)
		wfHandler = log.BufferedHandler(LogBufSize, wfHandler)
	}

	// 普通日志只记录Error以下，Warn以上单独写wf
	nmfileh := log.BoundLvlFilterHandler(lvLevel, log.LvlError, nmHandler)
	wffileh := log.LvlFilterHandler(log.LvlWarn, wfHandler)

	var lhd log.Handler
	if lc.Console {
		hstd := log.StreamHandler(os.Stderr, lfmt)
		lhd = log.SyncHandler(log.MultiHandler(hstd, nmfileh, wffileh))
	} else {
		lhd = log.SyncHandler(log.MultiHandler(nmfileh, wffileh))
	}
	xlog.SetHandler(lhd)

	return xlog, nil
}

// InitLog 进程级初始化一次日志驱动，后续通过NewLoggerById获取logger
func InitLog(cfgFile, logDir string) error {
	var err error
	once.Do(func() {
		var lc *LogConfig
		lc, err = LoadLogConf(cfgFile)
		if err != nil {
			return
		}
		logDriver, err = OpenLog(lc, logDir)
	})
	return err
}

// NewLoggerById returns a logger over the process driver. Before InitLog
// the logger discards everything.
func NewLoggerById(logId string) Logger {
	driver := logDriver
	if driver == nil {
		driver = discardDriver()
	}
	lg, _ := NewLogger(driver, logId)
	return lg
}

// NewNopLogger is for tests and tools that need a Logger but no output.
func NewNopLogger() Logger {
	lg, _ := NewLogger(discardDriver(), "nop")
	return lg
}

func discardDriver() LogDriver {
	xlog := log.New()
	xlog.SetHandler(log.DiscardHandler())
	return xlog
}
