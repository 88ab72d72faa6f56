package cli

import (
	"fmt"
	"sort"
	"time"

	"keyscope-core/internal/browse"
	"keyscope-core/internal/core/types"
)

// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
// 树与命令回复的渲染
// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

// typeTag 键类型的着色短标签
func typeTag(t types.KeyType) string {
	switch t {
	case types.KeyTypeString:
		return colorString("str")
	case types.KeyTypeList:
		return colorList("list")
	case types.KeyTypeHash:
		return colorHash("hash")
	case types.KeyTypeSet:
		return colorSet("set")
	case types.KeyTypeZSet:
		return colorZSet("zset")
	default:
		return colorFaint("?")
	}
}

// renderTree 渲染命名空间树
//
// 分支行显示叶子数量，叶子行显示类型标签。视图还有未扫描的
// 页时在末尾提示 more 命令。
func renderTree(o *Output, view *browse.TreeView) {
	if view.Total == 0 {
		if view.Filter != "" {
			o.Info("no keys match filter %q", view.Filter)
		} else {
			o.Info("no keys (pattern %q)", view.Pattern)
		}
		return
	}

	for i, child := range view.Root.Children {
		renderNode(child, "", i == len(view.Root.Children)-1)
	}

	fmt.Println()
	summary := fmt.Sprintf("%d keys", view.Total)
	if view.Filter != "" {
		summary += fmt.Sprintf(", filter %q", view.Filter)
	}
	if view.Pattern != "*" {
		summary += fmt.Sprintf(", pattern %q", view.Pattern)
	}
	o.Plain("  %s", colorFaint(summary))
	if view.HasMore {
		o.Plain("  %s", colorFaint("more keys on server, run 'more' to continue scanning"))
	}
}

// renderNode 递归渲染单个节点
func renderNode(n *browse.Node, prefix string, last bool) {
	branch := "├── "
	childPrefix := prefix + "│   "
	if last {
		branch = "└── "
		childPrefix = prefix + "    "
	}

	label := n.Name
	if label == "" {
		label = colorFaint("(empty)")
	}
	switch {
	case n.IsLeaf():
		fmt.Printf("%s%s%s  %s\n", prefix, branch, label, typeTag(n.Type))
	case n.IsKey():
		// 既是分支又是键：一行里同时给出类型和子树规模
		fmt.Printf("%s%s%s  %s %s\n", prefix, branch, colorBold(label), typeTag(n.Type), colorFaint(fmt.Sprintf("(%d)", n.Leaves)))
	default:
		fmt.Printf("%s%s%s %s\n", prefix, branch, colorBold(label), colorFaint(fmt.Sprintf("(%d)", n.Leaves)))
	}

	for i, child := range n.Children {
		renderNode(child, childPrefix, i == len(n.Children)-1)
	}
}

// renderDetail 渲染单键元数据
func renderDetail(o *Output, d browse.KeyDetail) {
	o.KeyValue("key", d.Key)
	o.KeyValue("type", string(d.Type))
	o.KeyValue("ttl", formatTTL(d.TTL))
	o.KeyValue("encoding", d.Encoding)
	if d.Memory > 0 {
		o.KeyValue("memory", fmt.Sprintf("%d bytes", d.Memory))
	} else {
		o.KeyValue("memory", "unknown")
	}
}

// renderOverview 渲染服务端概览
func renderOverview(o *Output, label string, overview *browse.Overview) {
	o.Header("Server Overview")
	o.KeyValue("address", label)
	o.KeyValue("version", overview.Version())
	if mode, ok := overview.Server["redis_mode"]; ok {
		o.KeyValue("mode", mode)
	}
	if uptime, ok := overview.Server["uptime_in_seconds"]; ok {
		o.KeyValue("uptime", uptime+"s")
	}
	o.KeyValue("dbsize", fmt.Sprintf("%d", overview.DBSize))

	if len(overview.Keyspace) > 0 {
		fmt.Println()
		table := NewTable("DB", "KEYS")
		dbs := make([]int, 0, len(overview.Keyspace))
		for db := range overview.Keyspace {
			dbs = append(dbs, db)
		}
		sort.Ints(dbs)
		for _, db := range dbs {
			table.AddRow(fmt.Sprintf("db%d", db), fmt.Sprintf("%d", overview.Keyspace[db]))
		}
		table.Render()
	}
}

// renderReply 按 RESP 回复类型渲染原始命令结果
func renderReply(reply interface{}, indent string) {
	switch v := reply.(type) {
	case nil:
		fmt.Printf("%s(nil)\n", indent)
	case string:
		fmt.Printf("%s%q\n", indent, v)
	case int64:
		fmt.Printf("%s(integer) %d\n", indent, v)
	case []interface{}:
		if len(v) == 0 {
			fmt.Printf("%s(empty array)\n", indent)
			return
		}
		for i, item := range v {
			fmt.Printf("%s%d) ", indent, i+1)
			renderReplyInline(item)
		}
	case map[interface{}]interface{}:
		for k, val := range v {
			fmt.Printf("%s%v => %v\n", indent, k, val)
		}
	case error:
		fmt.Printf("%s(error) %v\n", indent, v)
	default:
		fmt.Printf("%s%v\n", indent, v)
	}
}

// renderReplyInline 数组元素的单行形式
func renderReplyInline(item interface{}) {
	switch v := item.(type) {
	case nil:
		fmt.Println("(nil)")
	case string:
		fmt.Printf("%q\n", v)
	case int64:
		fmt.Printf("(integer) %d\n", v)
	default:
		fmt.Printf("%v\n", v)
	}
}

// formatTTL TTL 的人类可读形式
// go-redis 把 -1（无过期）和 -2（键不存在）原样作为 Duration 返回
func formatTTL(ttl time.Duration) string {
	switch {
	case ttl == -2:
		return "key does not exist"
	case ttl < 0:
		return "none"
	default:
		return ttl.Round(time.Second).String()
	}
}
