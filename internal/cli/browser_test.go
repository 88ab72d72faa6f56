package cli

import (
	"context"
	"testing"
	"time"

	"keyscope-core/internal/browse"
	"keyscope-core/internal/config"
	"keyscope-core/internal/core/log"
	"keyscope-core/internal/redisx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestBrowser 不经过 readline/TTY 直接构造浏览器，命令处理器可独立测试
func newTestBrowser(t *testing.T) *Browser {
	srv, err := redisx.NewEmbeddedRedis()
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	client := srv.NewClient()
	t.Cleanup(func() { client.Close() })

	session := browse.NewSession(client, &browse.Options{Logger: log.NewNopLogger()})
	details, err := browse.NewDetailCache(client, 0)
	require.NoError(t, err)

	return &Browser{
		ctx:       context.Background(),
		client:    client,
		session:   session,
		details:   details,
		cfg:       config.NewDefaultConfig(),
		pattern:   "*",
		output:    NewOutput(true),
		startTime: time.Now(),
	}
}

// TestBrowser_RawWriteSyncsCache 原始控制台的写命令之后缓存必须追上服务端
func TestBrowser_RawWriteSyncsCache(t *testing.T) {
	b := newTestBrowser(t)
	ctx := context.Background()

	require.NoError(t, b.client.SetString(ctx, "user:1", "alice", 0))
	require.NoError(t, b.client.SetString(ctx, "user:2", "bob", 0))
	_, err := b.session.LoadFirstPage(ctx, "*", 10)
	require.NoError(t, err)
	require.Equal(t, 2, b.session.CurrentTree().Total)

	// DEL 没有经过结构化命令，缓存里不能留下已删除的键
	b.cmdRaw([]string{"del", "user:1"})
	assert.Equal(t, 1, b.session.CurrentTree().Total)

	// 新键通过原始 SET 写入后要出现在树里
	b.cmdRaw([]string{"set", "order:1", "pending"})
	assert.Equal(t, 2, b.session.CurrentTree().Total)

	// FLUSHDB 没有键参数，同样要把本地视图清空
	b.cmdRaw([]string{"flushdb"})
	assert.Zero(t, b.session.CurrentTree().Total)
}

// TestBrowser_RawReadLeavesCacheAlone 只读命令不触发重扫
func TestBrowser_RawReadLeavesCacheAlone(t *testing.T) {
	b := newTestBrowser(t)
	ctx := context.Background()

	require.NoError(t, b.client.SetString(ctx, "k", "v", 0))
	_, err := b.session.LoadFirstPage(ctx, "*", 10)
	require.NoError(t, err)

	// 服务端被旁路改动，只读命令不应触发同步
	require.NoError(t, b.client.SetString(ctx, "sneaky", "x", 0))
	b.cmdRaw([]string{"get", "k"})
	assert.Equal(t, 1, b.session.CurrentTree().Total)
}
