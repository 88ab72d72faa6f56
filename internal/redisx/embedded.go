package redisx

import (
	"fmt"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// ============================================================================
// EmbeddedRedis 内嵌 Redis 服务
// ============================================================================

// EmbeddedRedis 内嵌 Redis 服务（基于 miniredis）
// 用于演示模式和测试，无需外部 Redis 依赖
type EmbeddedRedis struct {
	server *miniredis.Miniredis
}

// NewEmbeddedRedis 创建并启动内嵌 Redis
func NewEmbeddedRedis() (*EmbeddedRedis, error) {
	server, err := miniredis.Run()
	if err != nil {
		return nil, fmt.Errorf("start miniredis failed: %w", err)
	}
	return &EmbeddedRedis{server: server}, nil
}

// Addr 服务地址
func (e *EmbeddedRedis) Addr() string {
	return e.server.Addr()
}

// NewClient 创建连接到内嵌服务的客户端
func (e *EmbeddedRedis) NewClient() *Client {
	rdb := redis.NewClient(&redis.Options{Addr: e.server.Addr()})
	return NewFromClient(rdb)
}

// FastForward 快进时间（用于测试 TTL）
func (e *EmbeddedRedis) FastForward(d time.Duration) {
	e.server.FastForward(d)
}

// FlushAll 清空所有数据
func (e *EmbeddedRedis) FlushAll() {
	e.server.FlushAll()
}

// Close 关闭服务
func (e *EmbeddedRedis) Close() {
	e.server.Close()
}
