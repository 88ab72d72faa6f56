package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNopLogger 测试静默日志
func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()

	// 所有方法都不应该 panic
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")
	logger.Debugf("test %s", "arg")
	logger.Infof("test %s", "arg")
	logger.Warnf("test %s", "arg")
	logger.Errorf("test %s", "arg")

	// With* 应该返回自身
	_, ok := logger.WithField("key", "value").(NopLogger)
	assert.True(t, ok, "WithField should return NopLogger")
	_, ok = logger.WithError(nil).(NopLogger)
	assert.True(t, ok, "WithError should return NopLogger")
}

// TestLogrusLogger_Output 测试 logrus 实现的输出
func TestLogrusLogger_Output(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)

	logger := NewLogrusLogger(l)
	logger.WithField("component", "paginator").Infof("fetched %d keys", 42)

	out := buf.String()
	assert.Contains(t, out, "fetched 42 keys")
	assert.Contains(t, out, "paginator")
}

// TestNewFromConfig 测试配置创建
func TestNewFromConfig(t *testing.T) {
	logger, err := NewFromConfig(&Config{Level: "debug", Format: "json", Output: "discard"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	// 非法级别
	_, err = NewFromConfig(&Config{Level: "verbose"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid log level"))

	// file 输出必须指定路径
	_, err = NewFromConfig(&Config{Output: "file"})
	require.Error(t, err)
}

// TestSetDefault 测试默认 Logger 替换
func TestSetDefault(t *testing.T) {
	old := Default()
	defer SetDefault(old)

	SetDefault(NewNopLogger())
	_, ok := Default().(NopLogger)
	assert.True(t, ok)
}
