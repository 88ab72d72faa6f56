// Package log 提供统一的日志接口和实现
// 支持依赖注入，便于测试时替换
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger 日志接口
// 所有组件应通过此接口记录日志，而非直接使用全局函数
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	// 带字段的日志
	WithField(key string, value interface{}) Logger
	WithError(err error) Logger
}

// Config 日志配置
type Config struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	Output string `json:"output" yaml:"output"`
	File   string `json:"file" yaml:"file"`
}

// ============================================================================
// logrusLogger - 基于 logrus 的 Logger 实现
// ============================================================================

type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger 创建基于 logrus 的 Logger
func NewLogrusLogger(l *logrus.Logger) Logger {
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// NewFromConfig 根据配置创建 Logger
func NewFromConfig(config *Config) (Logger, error) {
	l := logrus.New()

	if config == nil {
		config = &Config{}
	}

	// 日志级别
	if config.Level != "" {
		level, err := logrus.ParseLevel(config.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %s", config.Level)
		}
		l.SetLevel(level)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	// 输出格式
	if strings.EqualFold(config.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	}

	// 输出目标
	switch config.Output {
	case "", "stderr":
		l.SetOutput(os.Stderr)
	case "stdout":
		l.SetOutput(os.Stdout)
	case "file":
		if config.File == "" {
			return nil, fmt.Errorf("log output is file but no file path given")
		}
		f, err := os.OpenFile(config.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file failed: %w", err)
		}
		l.SetOutput(f)
	case "discard":
		l.SetOutput(io.Discard)
	default:
		return nil, fmt.Errorf("invalid log output: %s", config.Output)
	}

	return NewLogrusLogger(l), nil
}

func (l *logrusLogger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *logrusLogger) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *logrusLogger) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *logrusLogger) Error(args ...interface{}) { l.entry.Error(args...) }

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

func (l *logrusLogger) WithError(err error) Logger {
	return &logrusLogger{entry: l.entry.WithError(err)}
}

// ============================================================================
// NopLogger - 静默日志（用于测试）
// ============================================================================

// NopLogger 静默日志，不输出任何内容
type NopLogger struct{}

func (NopLogger) Debug(args ...interface{})                        {}
func (NopLogger) Info(args ...interface{})                         {}
func (NopLogger) Warn(args ...interface{})                         {}
func (NopLogger) Error(args ...interface{})                        {}
func (NopLogger) Debugf(format string, args ...interface{})        {}
func (NopLogger) Infof(format string, args ...interface{})         {}
func (NopLogger) Warnf(format string, args ...interface{})         {}
func (NopLogger) Errorf(format string, args ...interface{})        {}
func (n NopLogger) WithField(key string, value interface{}) Logger { return n }
func (n NopLogger) WithError(err error) Logger                     { return n }

// NewNopLogger 创建静默日志
func NewNopLogger() Logger {
	return NopLogger{}
}

// ============================================================================
// 默认 Logger 管理
// ============================================================================

var (
	defaultLogger     Logger
	defaultLoggerOnce sync.Once
	defaultLoggerMu   sync.RWMutex
)

// initDefaultLogger 初始化默认 Logger
// 交互式前端占用终端，库内部日志默认写到 stderr
func initDefaultLogger() {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	})
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	defaultLogger = NewLogrusLogger(l)
}

// Default 获取默认 Logger
func Default() Logger {
	defaultLoggerOnce.Do(initDefaultLogger)
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefault 设置默认 Logger
func SetDefault(l Logger) {
	defaultLoggerOnce.Do(initDefaultLogger)
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = l
}
