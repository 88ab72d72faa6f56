// Package errors 定义 keyscope 核心的错误类型
package errors

import (
	"context"
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrNotConnected 尚未连接到 Redis
	ErrNotConnected = errors.New("not connected")

	// ErrSessionClosed 会话已关闭
	ErrSessionClosed = errors.New("session closed")

	// ErrInvalidCount 请求数量必须 >= 1
	ErrInvalidCount = errors.New("count must be at least 1")

	// ErrEmptyKey 键名不能为空
	ErrEmptyKey = errors.New("key must not be empty")

	// ErrInvalidKeyType 虚拟键只能声明具体类型
	ErrInvalidKeyType = errors.New("invalid key type")

	// ErrScanCancelled 扫描被调用方取消，已累积的页被丢弃
	ErrScanCancelled = errors.New("scan cancelled")
)

// ScanError 扫描相关错误（传输失败，游标可安全重放）
type ScanError struct {
	Cursor  uint64
	Pattern string
	Err     error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan failed at cursor %d (pattern %q): %v", e.Cursor, e.Pattern, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// NewScanError 创建扫描错误
func NewScanError(cursor uint64, pattern string, err error) *ScanError {
	return &ScanError{Cursor: cursor, Pattern: pattern, Err: err}
}

// ResolveError 类型批量解析错误
// 批次中任何一个键失败都会整批拒绝，不做部分合并
type ResolveError struct {
	Keys int // 批次中的键个数
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("type resolution failed for batch of %d keys: %v", e.Keys, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// NewResolveError 创建类型解析错误
func NewResolveError(keys int, err error) *ResolveError {
	return &ResolveError{Keys: keys, Err: err}
}

// CommandError 单条命令执行错误
type CommandError struct {
	Op  string // 命令名称
	Key string // 相关键（可为空）
	Err error
}

func (e *CommandError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("command %s key=%s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("command %s: %v", e.Op, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError 创建命令错误
func NewCommandError(op, key string, err error) *CommandError {
	return &CommandError{Op: op, Key: key, Err: err}
}

// IsScanError 检查是否为扫描错误
func IsScanError(err error) bool {
	var se *ScanError
	return errors.As(err, &se)
}

// IsResolveError 检查是否为类型解析错误
func IsResolveError(err error) bool {
	var re *ResolveError
	return errors.As(err, &re)
}

// IsCancelled 检查是否为取消导致的错误
func IsCancelled(err error) bool {
	return errors.Is(err, ErrScanCancelled) || errors.Is(err, context.Canceled)
}
