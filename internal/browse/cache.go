package browse

import (
	"strings"

	"keyscope-core/internal/core/types"
)

// Cache 键空间缓存
//
// 保存到目前为止发现的全部键（按发现顺序、去重）、键到类型的映射、
// 最近一次扫描返回的游标和当前扫描模式。呈现顺序与缓存无关，
// 排序由树构建阶段统一施加。
//
// 非并发安全，由 Session 串行访问。
type Cache struct {
	keys    []string
	keySet  map[string]struct{}
	types   map[string]types.KeyType
	cursor  uint64
	pattern string
}

// NewCache 创建空缓存（模式为 "*"）
func NewCache() *Cache {
	c := &Cache{}
	c.Reset("*")
	return c
}

// Reset 清空缓存并设置扫描模式，游标归零
// 在重连、切库和显式刷新时调用
func (c *Cache) Reset(pattern string) {
	if pattern == "" {
		pattern = "*"
	}
	c.keys = c.keys[:0]
	c.keySet = make(map[string]struct{})
	c.types = make(map[string]types.KeyType)
	c.cursor = TerminalCursor
	c.pattern = pattern
}

// Merge 合并一页扫描结果
// 仅追加尚未出现过的键（集合去重）；类型映射对所有给到的键覆盖更新；推进游标
func (c *Cache) Merge(newKeys []string, newTypes map[string]types.KeyType, nextCursor uint64) {
	for _, key := range newKeys {
		if _, ok := c.keySet[key]; !ok {
			c.keySet[key] = struct{}{}
			c.keys = append(c.keys, key)
		}
	}
	for key, t := range newTypes {
		c.types[key] = t
	}
	c.cursor = nextCursor
}

// Snapshot 返回只读视图（拷贝），供树构建和过滤使用
func (c *Cache) Snapshot() ([]string, map[string]types.KeyType, uint64) {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)

	typesCopy := make(map[string]types.KeyType, len(c.types))
	for k, t := range c.types {
		typesCopy[k] = t
	}
	return keys, typesCopy, c.cursor
}

// Filter 返回键名（不区分大小写）包含 text 的键子集
// 作用于整个缓存而非当前可见子树；空串直接返回全量拷贝
func (c *Cache) Filter(text string) []string {
	return filterKeys(c.keys, text)
}

// filterKeys 大小写不敏感的子串过滤；空串走快路径
func filterKeys(keys []string, text string) []string {
	if text == "" {
		out := make([]string, len(keys))
		copy(out, keys)
		return out
	}
	needle := strings.ToLower(text)
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.Contains(strings.ToLower(key), needle) {
			out = append(out, key)
		}
	}
	return out
}

// Contains 键是否已在缓存中
func (c *Cache) Contains(key string) bool {
	_, ok := c.keySet[key]
	return ok
}

// TypeOf 返回缓存中记录的键类型，未记录返回 unknown
func (c *Cache) TypeOf(key string) types.KeyType {
	if t, ok := c.types[key]; ok {
		return t
	}
	return types.KeyTypeUnknown
}

// SetType 更新单个键的类型（写入确认后调用）
func (c *Cache) SetType(key string, t types.KeyType) {
	c.types[key] = t
}

// Remove 从缓存中移除一个键（删除键后调用）
func (c *Cache) Remove(key string) {
	if _, ok := c.keySet[key]; !ok {
		return
	}
	delete(c.keySet, key)
	delete(c.types, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Len 缓存中的键数量
func (c *Cache) Len() int {
	return len(c.keys)
}

// Cursor 最近一次扫描返回的游标
func (c *Cache) Cursor() uint64 {
	return c.cursor
}

// Pattern 当前扫描模式
func (c *Cache) Pattern() string {
	return c.pattern
}

// HasMore 服务端是否还有未扫描的页
func (c *Cache) HasMore() bool {
	return c.cursor != TerminalCursor
}
