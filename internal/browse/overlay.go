package browse

import (
	"sort"

	"keyscope-core/internal/core/types"
)

// Overlay 虚拟键叠加层
//
// 服务端会物理删除空集合：用户刚声明的空 hash/list/set/zset 在第一次
// 真实写入前并不存在于服务端。叠加层记录这些"仅客户端可见"的键，
// 合并进呈现列表，直到服务端确认键已存在。
//
// 非并发安全，由 Session 串行访问。
type Overlay struct {
	declared map[string]types.KeyType
}

// NewOverlay 创建空叠加层
func NewOverlay() *Overlay {
	return &Overlay{declared: make(map[string]types.KeyType)}
}

// Declare 登记一个待写入的虚拟键
// 幂等：重复声明同一个键会覆盖其预期类型
func (o *Overlay) Declare(key string, t types.KeyType) {
	o.declared[key] = t
}

// Confirm 移除虚拟键（服务端已报告该键以非 none 类型存在，或键被删除）
func (o *Overlay) Confirm(key string) {
	delete(o.declared, key)
}

// DeclaredType 返回虚拟键的预期类型
func (o *Overlay) DeclaredType(key string) (types.KeyType, bool) {
	t, ok := o.declared[key]
	return t, ok
}

// Len 当前虚拟键数量
func (o *Overlay) Len() int {
	return len(o.declared)
}

// Merge 将匹配 pattern 的虚拟键合并进呈现列表
//
// 两条规则：
//  1. 缓存中没有的虚拟键，注入键列表并带上声明类型；
//  2. 缓存中已有、但解析类型为 none 的键（服务端尚未物化，如空 hash），
//     用声明类型覆盖。
//
// 返回新的切片/映射，不修改入参。注入顺序按键名排序，保证确定性。
func (o *Overlay) Merge(pattern string, cacheKeys []string, cacheTypes map[string]types.KeyType) ([]string, map[string]types.KeyType) {
	mergedKeys := make([]string, len(cacheKeys))
	copy(mergedKeys, cacheKeys)

	mergedTypes := make(map[string]types.KeyType, len(cacheTypes)+len(o.declared))
	for k, t := range cacheTypes {
		mergedTypes[k] = t
	}

	if len(o.declared) == 0 {
		return mergedKeys, mergedTypes
	}

	present := make(map[string]struct{}, len(cacheKeys))
	for _, k := range cacheKeys {
		present[k] = struct{}{}
	}

	inject := make([]string, 0, len(o.declared))
	for key, declared := range o.declared {
		if !MatchPattern(pattern, key) {
			continue
		}
		if _, ok := present[key]; !ok {
			inject = append(inject, key)
			mergedTypes[key] = declared
			continue
		}
		if mergedTypes[key] == types.KeyTypeNone {
			mergedTypes[key] = declared
		}
	}
	sort.Strings(inject)
	mergedKeys = append(mergedKeys, inject...)

	return mergedKeys, mergedTypes
}
