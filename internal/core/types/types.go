// Package types 定义跨组件共享的基础类型
package types

// KeyType Redis 键类型
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeList   KeyType = "list"
	KeyTypeHash   KeyType = "hash"
	KeyTypeSet    KeyType = "set"
	KeyTypeZSet   KeyType = "zset"

	// KeyTypeNone 服务端报告键不存在（已删除或从未写入）
	KeyTypeNone KeyType = "none"

	// KeyTypeUnknown 类型尚未解析或解析失败
	KeyTypeUnknown KeyType = "unknown"
)

// ParseKeyType 将服务端返回的类型字符串转换为 KeyType
// 无法识别的值归为 unknown，保证调用方拿到的始终是封闭枚举
func ParseKeyType(s string) KeyType {
	switch KeyType(s) {
	case KeyTypeString, KeyTypeList, KeyTypeHash, KeyTypeSet, KeyTypeZSet, KeyTypeNone:
		return KeyType(s)
	default:
		return KeyTypeUnknown
	}
}

// IsCollection 是否为集合类型（空集合无法在服务端持久化）
func (t KeyType) IsCollection() bool {
	switch t {
	case KeyTypeList, KeyTypeHash, KeyTypeSet, KeyTypeZSet:
		return true
	default:
		return false
	}
}

// Exists 键是否存在于服务端
func (t KeyType) Exists() bool {
	return t != KeyTypeNone && t != ""
}

// Valid 是否为可声明的具体类型（虚拟键只能声明具体类型）
func (t KeyType) Valid() bool {
	switch t {
	case KeyTypeString, KeyTypeList, KeyTypeHash, KeyTypeSet, KeyTypeZSet:
		return true
	default:
		return false
	}
}

// String 实现 Stringer
func (t KeyType) String() string {
	return string(t)
}
