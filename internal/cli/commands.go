package cli

import (
	"fmt"
	"strconv"
	"time"

	"keyscope-core/internal/browse"
)

// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
// 基础与浏览命令
// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

// cmdHelp 显示帮助信息
func (b *Browser) cmdHelp() {
	b.output.Header("Available Commands")

	b.output.Plain("  %s", colorBold("Browsing:"))
	b.output.Plain("    tree, ls            Show the namespace tree for loaded keys")
	b.output.Plain("    more, m             Scan the next page of keys")
	b.output.Plain("    filter <text>       Filter loaded keys locally (no argument clears)")
	b.output.Plain("    pattern <glob>      Rescan with a server-side match pattern")
	b.output.Plain("    refresh, r          Rescan from the beginning")
	fmt.Println()

	b.output.Plain("  %s", colorBold("Keys:"))
	b.output.Plain("    get <key>           Show the value of a key (any type)")
	b.output.Plain("    set <key> <value>   Set a string key")
	b.output.Plain("    detail <key>        Show type, TTL, encoding and memory usage")
	b.output.Plain("    ttl <key>           Show remaining time to live")
	b.output.Plain("    expire <key> <sec>  Set time to live in seconds")
	b.output.Plain("    persist <key>       Remove the expiration")
	b.output.Plain("    del <key>           Delete a key (asks for confirmation)")
	b.output.Plain("    rename <old> <new>  Rename a key")
	b.output.Plain("    new <type> <key>    Declare a key before writing its first element")
	fmt.Println()

	b.output.Plain("  %s", colorBold("Server:"))
	b.output.Plain("    use <db>            Switch to another database")
	b.output.Plain("    info, i             Show server overview")
	b.output.Plain("    raw <cmd> [args]    Send a raw command")
	b.output.Plain("    status, st          Show session status")
	fmt.Println()

	b.output.Plain("  %s", colorBold("General:"))
	b.output.Plain("    help, h, ?          Show this help")
	b.output.Plain("    clear, cls          Clear the screen")
	b.output.Plain("    exit, quit, q       Exit")
	fmt.Println()
}

// cmdStatus 显示会话状态
func (b *Browser) cmdStatus() {
	view := b.session.CurrentTree()

	b.output.Header("Session Status")
	b.output.KeyValue("server", b.client.Label())
	b.output.KeyValue("state", b.session.State().String())
	b.output.KeyValue("pattern", view.Pattern)
	if view.Filter != "" {
		b.output.KeyValue("filter", view.Filter)
	}
	b.output.KeyValue("loaded keys", fmt.Sprintf("%d", view.Total))
	b.output.KeyValue("has more", strconv.FormatBool(view.HasMore))
	b.output.KeyValue("uptime", time.Since(b.startTime).Round(time.Second).String())
}

// cmdTree 渲染当前树
func (b *Browser) cmdTree() {
	renderTree(b.output, b.session.CurrentTree())
}

// cmdMore 加载下一页
func (b *Browser) cmdMore() {
	if !b.session.CurrentTree().HasMore {
		b.output.Info("all keys are already loaded")
		return
	}

	view, err := b.session.LoadMore(b.ctx, 0)
	if err != nil {
		b.output.Error("scan failed: %v", err)
		return
	}
	renderTree(b.output, view)
}

// cmdFilter 设置或清除本地过滤
func (b *Browser) cmdFilter(args []string) {
	text := ""
	if len(args) > 0 {
		text = args[0]
	}

	view := b.session.ApplyFilter(text)
	if text == "" {
		b.output.Info("filter cleared")
	}
	renderTree(b.output, view)
}

// cmdPattern 用新的服务端匹配模式重新扫描
func (b *Browser) cmdPattern(args []string) {
	pattern := "*"
	if len(args) > 0 {
		pattern = args[0]
	}

	view, err := b.session.LoadFirstPage(b.ctx, pattern, 0)
	if err != nil {
		b.output.Error("scan failed: %v", err)
		return
	}
	b.details.Purge()
	renderTree(b.output, view)
}

// cmdRefresh 用当前模式重新扫描
func (b *Browser) cmdRefresh() {
	view, err := b.session.Refresh(b.ctx)
	if err != nil {
		b.output.Error("refresh failed: %v", err)
		return
	}
	b.details.Purge()
	renderTree(b.output, view)
}

// cmdUse 切换数据库
func (b *Browser) cmdUse(args []string) {
	if len(args) != 1 {
		b.output.Error("usage: use <db>")
		return
	}
	db, err := strconv.Atoi(args[0])
	if err != nil || db < 0 {
		b.output.Error("invalid database number: %s", args[0])
		return
	}

	if err := b.client.SelectDB(b.ctx, db); err != nil {
		b.output.Error("failed to switch database: %v", err)
		return
	}

	// 切库后本地状态全部作废
	b.session.Reset()
	b.details.Purge()
	b.readline.SetPrompt(prompt(b.client))
	b.output.Success("switched to db%d", db)

	view, err := b.session.LoadFirstPage(b.ctx, "*", 0)
	if err != nil {
		b.output.Warning("scan failed: %v", err)
		return
	}
	renderTree(b.output, view)
}

// cmdInfo 显示服务端概览
func (b *Browser) cmdInfo() {
	overview, err := browse.FetchOverview(b.ctx, b.client)
	if err != nil {
		b.output.Error("failed to fetch overview: %v", err)
		return
	}
	renderOverview(b.output, b.client.Label(), overview)
}
