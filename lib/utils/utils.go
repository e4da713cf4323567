package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path"
	"runtime"
	"strconv"
	"time"
)

// FileIsExist reports whether the named file or directory exists.
func FileIsExist(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}

	return true
}

// GenPseudoUniqId 生成伪唯一id，重复概率很低但不保证严格唯一
func GenPseudoUniqId() uint64 {
	nano := time.Now().UnixNano()
	r := rand.New(rand.NewSource(nano))

	randNum1 := r.Int63()
	randNum2 := r.Int63()
	shift1 := r.Intn(16) + 2
	shift2 := r.Intn(8) + 1

	uId := ((randNum1 >> uint(shift1)) + (randNum2 >> uint(shift2)) + (nano >> 1)) &
		0x1FFFFFFFFFFFFF
	return uint64(uId)
}

// GenLogId generate log id, not strictly unique.
func GenLogId() string {
	return fmt.Sprintf("%d_%d", time.Now().Unix(), GenPseudoUniqId())
}

// GetFuncCall returns "file:line" and function name of the caller at callDepth.
func GetFuncCall(callDepth int) (string, string) {
	pc, file, line, ok := runtime.Caller(callDepth)
	if !ok {
		return "???:0", "???"
	}

	f := runtime.FuncForPC(pc)
	_, function := path.Split(f.Name())
	_, filename := path.Split(file)

	fline := filename + ":" + strconv.Itoa(line)
	return fline, function
}

// 获取当前源文件目录
func GetCurFileDir() string {
	_, filename, _, _ := runtime.Caller(1)
	return path.Dir(filename)
}
