package browse

import (
	"testing"

	"keyscope-core/internal/core/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCache_MergeIdempotent 同一批键合并两次与合并一次结果相同
func TestCache_MergeIdempotent(t *testing.T) {
	c := NewCache()
	keys := []string{"a", "b", "c"}
	keyTypes := map[string]types.KeyType{
		"a": types.KeyTypeString,
		"b": types.KeyTypeHash,
		"c": types.KeyTypeList,
	}

	c.Merge(keys, keyTypes, 7)
	c.Merge(keys, keyTypes, 7)

	got, gotTypes, cursor := c.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, keyTypes, gotTypes)
	assert.Equal(t, uint64(7), cursor)
	assert.Equal(t, 3, c.Len())
}

// TestCache_MergeDedupAcrossPages 跨页出现的重复键只保留一份
func TestCache_MergeDedupAcrossPages(t *testing.T) {
	c := NewCache()
	c.Merge([]string{"a", "b"}, map[string]types.KeyType{"a": types.KeyTypeString, "b": types.KeyTypeString}, 3)
	c.Merge([]string{"b", "c"}, map[string]types.KeyType{"b": types.KeyTypeHash, "c": types.KeyTypeSet}, 0)

	got, gotTypes, cursor := c.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, got)
	// 类型覆盖更新为最新值
	assert.Equal(t, types.KeyTypeHash, gotTypes["b"])
	assert.Equal(t, TerminalCursor, cursor)
	assert.False(t, c.HasMore())
}

// TestCache_Reset 清空并重设模式
func TestCache_Reset(t *testing.T) {
	c := NewCache()
	c.Merge([]string{"x"}, map[string]types.KeyType{"x": types.KeyTypeString}, 5)
	require.True(t, c.HasMore())

	c.Reset("user:*")
	assert.Zero(t, c.Len())
	assert.Equal(t, TerminalCursor, c.Cursor())
	assert.Equal(t, "user:*", c.Pattern())
	assert.False(t, c.Contains("x"))

	// 空模式归一为 *
	c.Reset("")
	assert.Equal(t, "*", c.Pattern())
}

// TestCache_Filter 不区分大小写的子串过滤，作用于整个缓存
func TestCache_Filter(t *testing.T) {
	c := NewCache()
	c.Merge([]string{"User:1", "order:1", "USER:2"}, nil, 0)

	assert.Equal(t, []string{"User:1", "USER:2"}, c.Filter("user"))
	assert.Equal(t, []string{"order:1"}, c.Filter("ORDER"))
	assert.Empty(t, c.Filter("missing"))

	// 空串快路径：返回全量拷贝
	all := c.Filter("")
	assert.Equal(t, []string{"User:1", "order:1", "USER:2"}, all)
	all[0] = "mutated"
	assert.True(t, c.Contains("User:1"), "Filter must return a copy")
}

// TestCache_SnapshotIsolation 快照是拷贝，修改不影响缓存
func TestCache_SnapshotIsolation(t *testing.T) {
	c := NewCache()
	c.Merge([]string{"a"}, map[string]types.KeyType{"a": types.KeyTypeString}, 0)

	keys, keyTypes, _ := c.Snapshot()
	keys[0] = "mutated"
	keyTypes["a"] = types.KeyTypeNone

	assert.True(t, c.Contains("a"))
	assert.Equal(t, types.KeyTypeString, c.TypeOf("a"))
}

// TestCache_Remove 删除键后缓存同步收缩
func TestCache_Remove(t *testing.T) {
	c := NewCache()
	c.Merge([]string{"a", "b", "c"}, map[string]types.KeyType{"a": types.KeyTypeString}, 0)

	c.Remove("b")
	got, _, _ := c.Snapshot()
	assert.Equal(t, []string{"a", "c"}, got)

	// 移除不存在的键是空操作
	c.Remove("ghost")
	assert.Equal(t, 2, c.Len())
}

// TestCache_TypeOf 未记录的键报 unknown
func TestCache_TypeOf(t *testing.T) {
	c := NewCache()
	assert.Equal(t, types.KeyTypeUnknown, c.TypeOf("nope"))

	c.SetType("k", types.KeyTypeZSet)
	assert.Equal(t, types.KeyTypeZSet, c.TypeOf("k"))
}
