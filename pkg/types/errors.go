package types

import (
	"errors"
	"fmt"
)

var (
	// ErrReadFailed 采集参数读取失败
	// acquisition.Reader 返回的所有错误都满足 errors.Is(err, ErrReadFailed)
	ErrReadFailed = errors.New("acquisition read failed")

	// ErrIncomplete 解析成功但参数不完整
	ErrIncomplete = errors.New("acquisition parameters incomplete")

	// ErrUnknownFormat 无法识别的数据格式
	ErrUnknownFormat = errors.New("unknown acquisition format")
)

// ReadError 读取失败错误
//
// 读取契约只区分“成功/失败”一种错误类别；Err 保留底层原因供诊断，
// 调用方仍可通过 errors.Is/As 检查 fs.ErrNotExist、语法错误等。
type ReadError struct {
	Format SourceFormat // 读取器格式
	Source string       // 数据源路径
	Op     string       // 失败的步骤：open / parse / map / validate
	Err    error        // 底层原因
}

// Error 实现 error 接口
func (e *ReadError) Error() string {
	format := string(e.Format)
	if format == "" {
		format = "unknown"
	}
	if e.Err == nil {
		return fmt.Sprintf("读取%s采集参数失败 [%s] %s", format, e.Op, e.Source)
	}
	return fmt.Sprintf("读取%s采集参数失败 [%s] %s: %v", format, e.Op, e.Source, e.Err)
}

// Unwrap 返回底层原因
func (e *ReadError) Unwrap() error {
	return e.Err
}

// Is 所有 ReadError 都属于 ErrReadFailed
func (e *ReadError) Is(target error) bool {
	return target == ErrReadFailed
}

// NewReadError 构造读取失败错误
// 若 err 已是 *ReadError 则原样返回，避免多层包装
func NewReadError(format SourceFormat, source, op string, err error) error {
	var re *ReadError
	if errors.As(err, &re) {
		return err
	}
	return &ReadError{Format: format, Source: source, Op: op, Err: err}
}

// IsReadError 检查错误是否为读取失败
func IsReadError(err error) (*ReadError, bool) {
	if err == nil {
		return nil, false
	}
	var re *ReadError
	ok := errors.As(err, &re)
	return re, ok
}
