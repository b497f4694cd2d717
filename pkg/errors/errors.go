package errors

import (
	"errors"
	"fmt"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("record was modified by another request, please retry")

// Kind 跨层错误分类，由 handler 映射为 HTTP 状态码
type Kind string

const (
	KindValidation     Kind = "validation"      // 参数错误，用户可修正
	KindStateConflict  Kind = "state_conflict"  // 前置条件不满足
	KindNotFound       Kind = "not_found"       // 引用的实体不存在
	KindUpstreamOracle Kind = "upstream_oracle" // 大模型不可用或返回格式错误
	KindPersistence    Kind = "persistence"     // 存储层不可用
)

// Error 带分类的错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" && e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New 构造分类错误
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation 参数校验错误
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict 状态冲突错误
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindStateConflict, Message: fmt.Sprintf(format, args...)}
}

// NotFound 资源不存在错误
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Upstream 大模型调用错误
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstreamOracle, Message: message, Err: err}
}

// Persistence 存储层错误
func Persistence(message string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

// KindOf 返回错误链上第一个分类错误的类别，没有则返回空串
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is 判断错误链中是否含有指定类别
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
