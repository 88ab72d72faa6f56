package browse

import (
	"context"
	"time"

	"keyscope-core/internal/core/types"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DetailFetcher 单键元数据查询原语，由数据访问层实现
// 编码和内存占用是软失败：实现方失败时返回 "unknown"/0 而不是错误
type DetailFetcher interface {
	TypeOf(ctx context.Context, key string) (types.KeyType, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	ObjectEncoding(ctx context.Context, key string) string
	MemoryUsage(ctx context.Context, key string) int64
}

// KeyDetail 单个键的元数据
type KeyDetail struct {
	Key      string
	Type     types.KeyType
	TTL      time.Duration // -1 无过期时间，-2 键不存在
	Encoding string        // 服务端内部编码，查询失败为 "unknown"
	Memory   int64         // 近似内存占用（字节），查询失败为 0
}

// DefaultDetailCacheSize 元数据缓存的默认容量
const DefaultDetailCacheSize = 512

// DetailCache 带 LRU 缓存的键元数据解析器
// 浏览时反复选中相邻的键很常见，避免每次都打一轮元数据命令
type DetailCache struct {
	fetcher DetailFetcher
	cache   *lru.Cache[string, KeyDetail]
}

// NewDetailCache 创建元数据缓存；size <= 0 时使用默认容量
func NewDetailCache(fetcher DetailFetcher, size int) (*DetailCache, error) {
	if size <= 0 {
		size = DefaultDetailCacheSize
	}
	cache, err := lru.New[string, KeyDetail](size)
	if err != nil {
		return nil, err
	}
	return &DetailCache{fetcher: fetcher, cache: cache}, nil
}

// Get 返回键的元数据，优先命中缓存
// 类型和 TTL 失败是硬错误；不存在的键（type none）不进缓存
func (d *DetailCache) Get(ctx context.Context, key string) (KeyDetail, error) {
	if detail, ok := d.cache.Get(key); ok {
		return detail, nil
	}

	t, err := d.fetcher.TypeOf(ctx, key)
	if err != nil {
		return KeyDetail{}, err
	}
	ttl, err := d.fetcher.TTL(ctx, key)
	if err != nil {
		return KeyDetail{}, err
	}

	detail := KeyDetail{
		Key:      key,
		Type:     t,
		TTL:      ttl,
		Encoding: d.fetcher.ObjectEncoding(ctx, key),
		Memory:   d.fetcher.MemoryUsage(ctx, key),
	}

	if t.Exists() {
		d.cache.Add(key, detail)
	}
	return detail, nil
}

// Invalidate 作废单个键的缓存（键被写入或删除后调用）
func (d *DetailCache) Invalidate(key string) {
	d.cache.Remove(key)
}

// Purge 清空全部缓存（刷新、切库后调用）
func (d *DetailCache) Purge() {
	d.cache.Purge()
}
