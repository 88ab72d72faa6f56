package cli

import (
	"github.com/chzyer/readline"
)

// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
// Tab 补全
// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

// buildCompleter 构建 readline 补全器
func buildCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		// 基础命令
		readline.PcItem("help"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
		readline.PcItem("clear"),
		readline.PcItem("status"),

		// 键空间浏览
		readline.PcItem("tree"),
		readline.PcItem("more"),
		readline.PcItem("filter"),
		readline.PcItem("pattern"),
		readline.PcItem("refresh"),

		// 单键操作
		readline.PcItem("get"),
		readline.PcItem("set"),
		readline.PcItem("detail"),
		readline.PcItem("ttl"),
		readline.PcItem("expire"),
		readline.PcItem("persist"),
		readline.PcItem("del"),
		readline.PcItem("rename"),

		// 虚拟键声明
		readline.PcItem("new",
			readline.PcItem("string"),
			readline.PcItem("list"),
			readline.PcItem("hash"),
			readline.PcItem("set"),
			readline.PcItem("zset"),
		),

		// 服务端
		readline.PcItem("use"),
		readline.PcItem("info"),
		readline.PcItem("raw"),
	}

	return readline.NewPrefixCompleter(items...)
}
