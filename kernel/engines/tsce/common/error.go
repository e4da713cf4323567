package common

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	// 处理成功类
	ErrStatusSucc = 200
	// 拒绝处理类错误状态
	ErrStatusRefused = 400
	// 内部错误类错误状态
	ErrStatusInternalErr = 500
)

type Error struct {
	// 错误分类（类似http的2xx、4xx、5xx）
	Status int
	// 详细错误码
	Code int
	Msg  string
}

func CastError(err error) *Error {
	return CastErrorDefault(err, ErrUnknown)
}

func CastErrorDefault(err error, defaultErr *Error) *Error {
	if err == nil {
		return nil
	}
	var defErr *Error
	if errors.As(err, &defErr) {
		return defErr
	}

	return defaultErr.More("%v", err)
}

func (t *Error) Error() string {
	return fmt.Sprintf("Err:%d-%d-%s", t.Status, t.Code, t.Msg)
}

func (t *Error) More(format string, args ...interface{}) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	return &Error{t.Status, t.Code, t.Msg + "+" + msg}
}

func (t *Error) Equal(rhs *Error) bool {
	if rhs == nil {
		return false
	}

	return t.Code == rhs.Code
}

// define std error
var (
	ErrSuccess   = &Error{ErrStatusSucc, 0, "success"}
	ErrInternal  = &Error{ErrStatusInternalErr, 50000, "internal error"}
	ErrUnknown   = &Error{ErrStatusInternalErr, 50001, "unknown error"}
	ErrParameter = &Error{ErrStatusRefused, 40001, "param error"}

	// engine
	ErrLoadEngConfFailed = &Error{ErrStatusInternalErr, 50006, "load engine config failed"}
	ErrNewEngineFailed   = &Error{ErrStatusInternalErr, 50007, "new engine failed"}
	ErrLedgerNotSet      = &Error{ErrStatusInternalErr, 50008, "ledger not set"}

	// block
	ErrBlockDecode   = &Error{ErrStatusRefused, 40010, "decode block failed"}
	ErrEmptyBlock    = &Error{ErrStatusRefused, 40011, "block has no transaction"}
	ErrWorldNotFound = &Error{ErrStatusRefused, 40012, "world or chain not found"}

	// contract
	ErrContractNotFound = &Error{ErrStatusRefused, 40030, "contract not found"}
	ErrContractInvalid  = &Error{ErrStatusRefused, 40031, "contract is invalid"}

	// ledger
	ErrLedgerQuery = &Error{ErrStatusInternalErr, 50020, "ledger query failed"}
	ErrLedgerWrite = &Error{ErrStatusInternalErr, 50021, "ledger write failed"}
)
