// Package redisx 封装 go-redis，提供 keyscope 核心所需的数据访问原语
//
// 约束：一个 Client 对应一个逻辑会话，扫描/类型/写入命令都经由它串行发出，
// 上层（browse.Session）负责保证同一时刻只有一个进行中的请求。
package redisx

import (
	"context"
	"fmt"
	"time"

	"keyscope-core/internal/config"
	"keyscope-core/internal/core/types"
	errs "keyscope-core/internal/errors"

	"github.com/redis/go-redis/v9"
)

// ErrRedisNil 是 Redis nil 错误的引用
var ErrRedisNil = redis.Nil

// Client Redis 数据访问客户端
type Client struct {
	rdb  *redis.Client
	opts *redis.Options
}

// New 创建并连接客户端
func New(parentCtx context.Context, cfg *config.RedisConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config is required")
	}

	// 设置默认值
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = config.DefaultPoolSize
	}

	opts := &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     poolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	client, err := connect(parentCtx, opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// NewFromClient 从已有的 go-redis 客户端创建（用于内嵌模式和测试）
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb, opts: rdb.Options()}
}

func connect(parentCtx context.Context, opts *redis.Options) (*Client, error) {
	rdb := redis.NewClient(opts)

	// 测试连接
	timeout := opts.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(parentCtx, timeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	return &Client{rdb: rdb, opts: opts}, nil
}

// Close 关闭连接
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Ping 检查连接是否正常
func (c *Client) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return errs.ErrNotConnected
	}
	return c.rdb.Ping(ctx).Err()
}

// DB 当前数据库编号
func (c *Client) DB() int {
	return c.opts.DB
}

// Addr 服务端地址
func (c *Client) Addr() string {
	return c.opts.Addr
}

// Label 人类可读的连接标识，如 "localhost:6379/db0"
func (c *Client) Label() string {
	return fmt.Sprintf("%s/db%d", c.opts.Addr, c.opts.DB)
}

// SelectDB 切换数据库
// go-redis 的连接池不允许在池化连接上直接 SELECT，这里用相同参数重建客户端
func (c *Client) SelectDB(ctx context.Context, db int) error {
	if db < 0 {
		return fmt.Errorf("invalid db index: %d", db)
	}
	if db == c.opts.DB {
		return nil
	}

	newOpts := *c.opts
	newOpts.DB = db
	replacement, err := connect(ctx, &newOpts)
	if err != nil {
		return fmt.Errorf("switch to db %d failed: %w", db, err)
	}

	old := c.rdb
	c.rdb = replacement.rdb
	c.opts = replacement.opts
	old.Close()
	return nil
}

// ============================================================================
// 枚举原语（SCAN / TYPE）
// ============================================================================

// Scan 发出一次 SCAN 调用
// count 只是服务端的提示值：单次调用可能返回 0 个键但游标非 0，
// 循环聚页由 browse.Paginator 负责，这里不做任何累积
func (c *Client) Scan(ctx context.Context, cursor uint64, pattern string, count int64) (uint64, []string, error) {
	keys, next, err := c.rdb.Scan(ctx, cursor, pattern, count).Result()
	if err != nil {
		return 0, nil, errs.NewScanError(cursor, pattern, err)
	}
	return next, keys, nil
}

// TypeOf 返回单个键的类型，键不存在返回 none
func (c *Client) TypeOf(ctx context.Context, key string) (types.KeyType, error) {
	s, err := c.rdb.Type(ctx, key).Result()
	if err != nil {
		return types.KeyTypeUnknown, errs.NewCommandError("type", key, err)
	}
	return types.ParseKeyType(s), nil
}

// TypeOfMany 用 pipeline 批量解析键类型，一次往返
// 空输入直接返回空映射，不产生网络往返；任何一个键失败则整批拒绝
func (c *Client) TypeOfMany(ctx context.Context, keys []string) (map[string]types.KeyType, error) {
	result := make(map[string]types.KeyType, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	cmds := make([]*redis.StatusCmd, len(keys))
	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			cmds[i] = pipe.Type(ctx, key)
		}
		return nil
	})
	if err != nil {
		return nil, errs.NewResolveError(len(keys), err)
	}

	for i, cmd := range cmds {
		s, err := cmd.Result()
		if err != nil {
			return nil, errs.NewResolveError(len(keys), err)
		}
		result[keys[i]] = types.ParseKeyType(s)
	}
	return result, nil
}

// ============================================================================
// 键级操作
// ============================================================================

// Delete 删除键，返回是否确实删除了
func (c *Client) Delete(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, errs.NewCommandError("del", key, err)
	}
	return n > 0, nil
}

// Rename 重命名键
func (c *Client) Rename(ctx context.Context, oldName, newName string) error {
	if err := c.rdb.Rename(ctx, oldName, newName).Err(); err != nil {
		return errs.NewCommandError("rename", oldName, err)
	}
	return nil
}

// TTL 返回剩余 TTL；-1 表示无过期时间，-2 表示键不存在
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := c.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, errs.NewCommandError("ttl", key, err)
	}
	return d, nil
}

// SetTTL 设置 TTL；ttl < 0 表示移除过期时间
func (c *Client) SetTTL(ctx context.Context, key string, ttl time.Duration) error {
	var err error
	if ttl < 0 {
		err = c.rdb.Persist(ctx, key).Err()
	} else {
		err = c.rdb.Expire(ctx, key, ttl).Err()
	}
	if err != nil {
		return errs.NewCommandError("expire", key, err)
	}
	return nil
}

// ObjectEncoding 返回键的内部编码，失败时返回 "unknown"（软失败）
func (c *Client) ObjectEncoding(ctx context.Context, key string) string {
	s, err := c.rdb.ObjectEncoding(ctx, key).Result()
	if err != nil || s == "" {
		return "unknown"
	}
	return s
}

// MemoryUsage 返回键的近似内存占用（字节），失败时返回 0（软失败）
func (c *Client) MemoryUsage(ctx context.Context, key string) int64 {
	n, err := c.rdb.MemoryUsage(ctx, key).Result()
	if err != nil {
		return 0
	}
	return n
}

// ============================================================================
// 原始命令
// ============================================================================

// Do 执行任意命令，返回原始回复
func (c *Client) Do(ctx context.Context, args ...interface{}) (interface{}, error) {
	return c.rdb.Do(ctx, args...).Result()
}
