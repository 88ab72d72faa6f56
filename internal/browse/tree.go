package browse

import (
	"sort"
	"strings"

	"keyscope-core/internal/core/types"
)

// Node 命名空间树节点
//
// 没有子节点的是叶子，对应一个真实键；有子节点的是分支（命名空间）。
// 一个完整键同时又是其他键的前缀时（如 "a" 与 "a:b" 并存），
// 对应的分支节点同时携带叶子身份：Key 非空且 Type 为该键的解析类型。
type Node struct {
	Name     string     // 路径段名（根节点为空）
	Path     string     // 从根到此节点重建出的完整路径
	Key      string     // 非空表示该节点本身是一个真实键
	Type     types.KeyType
	Children []*Node    // 按段名字节序升序排列
	Leaves   int        // 叶子后代总数（递归求和；叶子自身为 1）
}

// IsLeaf 是否为叶子节点
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// IsKey 该节点是否对应一个真实键（叶子恒为真，分支仅在前缀同时是键时为真）
func (n *Node) IsKey() bool {
	return n.Key != ""
}

// buildNode 构建期的可变节点，children 用 map 组织，最终转换时统一排序
type buildNode struct {
	children map[string]*buildNode
}

// BuildTree 把平坦键列表构建为命名空间树
//
// 纯函数：固定的键集合与分隔符总是产出字节级一致的结构与顺序，
// 不依赖任何无序容器的遍历顺序。keys 中不允许有重复键（Cache 已保证）。
//
// 空段是合法的字面路径段：键首尾的分隔符和连续分隔符都不会被跳过。
func BuildTree(keys []string, keyTypes map[string]types.KeyType, separator string) *Node {
	keySet := make(map[string]struct{}, len(keys))
	root := &buildNode{children: make(map[string]*buildNode)}

	for _, key := range keys {
		keySet[key] = struct{}{}

		node := root
		for _, segment := range splitKey(key, separator) {
			child, ok := node.children[segment]
			if !ok {
				child = &buildNode{children: make(map[string]*buildNode)}
				node.children[segment] = child
			}
			node = child
		}
	}

	return finalize(root, "", "", 0, separator, keySet, keyTypes)
}

// splitKey 按分隔符切分键；分隔符为空时整个键作为单段
func splitKey(key, separator string) []string {
	if separator == "" {
		return []string{key}
	}
	return strings.Split(key, separator)
}

// finalize 把构建期节点转换为不可变的 Node，施加排序并计算叶子数
// depth 用于区分根节点和首段为空串的子节点（如键 ":a"），两者的 path 都是空串
func finalize(bn *buildNode, name, path string, depth int, separator string, keySet map[string]struct{}, keyTypes map[string]types.KeyType) *Node {
	node := &Node{Name: name, Path: path}

	if len(bn.children) == 0 && depth > 0 {
		// 叶子：路径即完整键
		node.Key = path
		node.Type = resolveType(keyTypes, path)
		node.Leaves = 1
		return node
	}

	// 分支自身也可能是真实键（前缀与键重名）
	if depth > 0 {
		if _, ok := keySet[path]; ok {
			node.Key = path
			node.Type = resolveType(keyTypes, path)
		}
	}

	names := make([]string, 0, len(bn.children))
	for childName := range bn.children {
		names = append(names, childName)
	}
	sort.Strings(names)

	node.Children = make([]*Node, 0, len(names))
	for _, childName := range names {
		childPath := childName
		if depth > 0 {
			childPath = path + separator + childName
		}
		child := finalize(bn.children[childName], childName, childPath, depth+1, separator, keySet, keyTypes)
		node.Children = append(node.Children, child)
		node.Leaves += child.Leaves
	}

	return node
}

func resolveType(keyTypes map[string]types.KeyType, key string) types.KeyType {
	if t, ok := keyTypes[key]; ok {
		return t
	}
	return types.KeyTypeUnknown
}
