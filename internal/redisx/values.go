package redisx

import (
	"context"
	"time"

	errs "keyscope-core/internal/errors"

	"github.com/redis/go-redis/v9"
)

// ZMember 有序集合成员
type ZMember struct {
	Member string
	Score  float64
}

// ============================================================================
// string
// ============================================================================

// GetString 读取字符串值；键不存在返回 ErrRedisNil
func (c *Client) GetString(ctx context.Context, key string) (string, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", err
	}
	if err != nil {
		return "", errs.NewCommandError("get", key, err)
	}
	return s, nil
}

// SetString 写入字符串值，ttl <= 0 表示不设置过期时间
func (c *Client) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return errs.NewCommandError("set", key, err)
	}
	return nil
}

// ============================================================================
// list
// ============================================================================

// ListRange 读取列表区间
func (c *Client) ListRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	vals, err := c.rdb.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, errs.NewCommandError("lrange", key, err)
	}
	return vals, nil
}

// ListPush 尾部追加元素
func (c *Client) ListPush(ctx context.Context, key string, values ...string) error {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	if err := c.rdb.RPush(ctx, key, args...).Err(); err != nil {
		return errs.NewCommandError("rpush", key, err)
	}
	return nil
}

// ListSet 按下标覆盖元素
func (c *Client) ListSet(ctx context.Context, key string, index int64, value string) error {
	if err := c.rdb.LSet(ctx, key, index, value).Err(); err != nil {
		return errs.NewCommandError("lset", key, err)
	}
	return nil
}

// ListRemove 按值删除元素
func (c *Client) ListRemove(ctx context.Context, key string, count int64, value string) error {
	if err := c.rdb.LRem(ctx, key, count, value).Err(); err != nil {
		return errs.NewCommandError("lrem", key, err)
	}
	return nil
}

// ============================================================================
// hash
// ============================================================================

// HashGetAll 读取整个哈希
func (c *Client) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, errs.NewCommandError("hgetall", key, err)
	}
	return m, nil
}

// HashSet 设置字段
func (c *Client) HashSet(ctx context.Context, key, field, value string) error {
	if err := c.rdb.HSet(ctx, key, field, value).Err(); err != nil {
		return errs.NewCommandError("hset", key, err)
	}
	return nil
}

// HashDelete 删除字段
func (c *Client) HashDelete(ctx context.Context, key string, fields ...string) error {
	if err := c.rdb.HDel(ctx, key, fields...).Err(); err != nil {
		return errs.NewCommandError("hdel", key, err)
	}
	return nil
}

// ============================================================================
// set
// ============================================================================

// SetMembers 读取集合所有成员
func (c *Client) SetMembers(ctx context.Context, key string) ([]string, error) {
	vals, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, errs.NewCommandError("smembers", key, err)
	}
	return vals, nil
}

// SetAdd 添加成员
func (c *Client) SetAdd(ctx context.Context, key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := c.rdb.SAdd(ctx, key, args...).Err(); err != nil {
		return errs.NewCommandError("sadd", key, err)
	}
	return nil
}

// SetRemove 移除成员
func (c *Client) SetRemove(ctx context.Context, key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := c.rdb.SRem(ctx, key, args...).Err(); err != nil {
		return errs.NewCommandError("srem", key, err)
	}
	return nil
}

// ============================================================================
// zset
// ============================================================================

// ZSetRange 读取有序集合区间（带分数）
func (c *Client) ZSetRange(ctx context.Context, key string, start, stop int64) ([]ZMember, error) {
	zs, err := c.rdb.ZRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, errs.NewCommandError("zrange", key, err)
	}
	members := make([]ZMember, len(zs))
	for i, z := range zs {
		member, _ := z.Member.(string)
		members[i] = ZMember{Member: member, Score: z.Score}
	}
	return members, nil
}

// ZSetAdd 添加成员
func (c *Client) ZSetAdd(ctx context.Context, key, member string, score float64) error {
	if err := c.rdb.ZAdd(ctx, key, redis.Z{Member: member, Score: score}).Err(); err != nil {
		return errs.NewCommandError("zadd", key, err)
	}
	return nil
}

// ZSetRemove 移除成员
func (c *Client) ZSetRemove(ctx context.Context, key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := c.rdb.ZRem(ctx, key, args...).Err(); err != nil {
		return errs.NewCommandError("zrem", key, err)
	}
	return nil
}
