package errors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// UnknownCode 非结构化错误统一使用的状态码
const UnknownCode = 500

// Status 可序列化的错误状态
type Status struct {
	Code     int32             `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Error 携带状态码、元数据和原因的错误
type Error struct {
	Status
	cause error
}

// New 创建错误, 没有参数时 format 原样作为消息
func New(code int, format string, args ...any) *Error {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	return &Error{Status: Status{Code: int32(code), Message: message}}
}

func NewWithMetadata(code int, metadata map[string]string, format string, args ...any) *Error {
	return New(code, format, args...).WithMetadata(metadata)
}

// Wrap 以 err 为原因创建错误, err 为 nil 时返回 nil
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return New(code, format, args...).WithCause(err)
}

func WrapWithMetadata(err error, code int, metadata map[string]string, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return NewWithMetadata(code, metadata, format, args...).WithCause(err)
}

// FromError 取出错误链中的 *Error, 其他错误包装为 UnknownCode
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := find(err); ok {
		return e
	}
	return Wrap(err, UnknownCode, "%v", err)
}

// Code 返回错误链中的状态码; nil 为 0, 非结构化错误为 UnknownCode
func Code(err error) int {
	if err == nil {
		return 0
	}
	if e, ok := find(err); ok {
		return int(e.Code)
	}
	return UnknownCode
}

func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Error 输出 code=.. message=.. metadata={k=v} cause=.., 元数据按键排序
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "code=%d message=%s", e.Code, e.Message)

	if len(e.Metadata) > 0 {
		b.WriteString(" metadata={")
		for i, k := range slices.Sorted(maps.Keys(e.Metadata)) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k + "=" + e.Metadata[k])
		}
		b.WriteByte('}')
	}

	if e.cause != nil {
		b.WriteString(" cause=" + e.cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is 状态码和消息相同即视为同一错误
func (e *Error) Is(target error) bool {
	t, ok := find(target)
	return ok && t.Code == e.Code && t.Message == e.Message
}

// WithMetadata 返回合并了 metadata 的副本, 原错误不变
func (e *Error) WithMetadata(metadata map[string]string) *Error {
	if len(metadata) == 0 {
		return e
	}
	c := e.copy()
	if c.Metadata == nil {
		c.Metadata = make(map[string]string, len(metadata))
	}
	maps.Copy(c.Metadata, metadata)
	return c
}

// WithCause 返回以 cause 为原因的副本
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}
	c := e.copy()
	c.cause = cause
	return c
}

// GetMetadata 返回元数据副本
func (e *Error) GetMetadata() map[string]string {
	return maps.Clone(e.Metadata)
}

func (e *Error) GetCause() error {
	return e.cause
}

func (e *Error) copy() *Error {
	c := *e
	c.Metadata = maps.Clone(e.Metadata)
	return &c
}
