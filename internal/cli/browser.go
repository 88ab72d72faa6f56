package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"keyscope-core/internal/browse"
	"keyscope-core/internal/config"
	corelog "keyscope-core/internal/core/log"
	"keyscope-core/internal/redisx"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
)

// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
// Browser - 交互式键空间浏览器
// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

// Browser 交互式命令行浏览器
type Browser struct {
	ctx       context.Context
	client    *redisx.Client
	session   *browse.Session
	details   *browse.DetailCache
	cfg       *config.Config
	pattern   string // 启动时的扫描模式
	readline  *readline.Instance
	output    *Output
	startTime time.Time
}

// NewBrowser 创建浏览器实例
func NewBrowser(ctx context.Context, client *redisx.Client, cfg *config.Config, pattern string, noColor bool) (*Browser, error) {
	// 检查 stdin 是否是 TTY
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, fmt.Errorf("stdin is not a terminal (TTY required for interactive browsing)\n" +
			"Please run directly in a terminal, not through pipe/redirect")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt(client),
		HistoryFile:     os.ExpandEnv("$HOME/.keyscope_history"),
		HistoryLimit:    500,
		AutoComplete:    buildCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}

	session := browse.NewSession(client, &browse.Options{
		PageSize:  cfg.Browse.PageSize,
		ScanFloor: cfg.Browse.ScanFloor,
		Separator: cfg.Browse.Separator,
		ScanRate:  cfg.Browse.ScanRate,
	})

	details, err := browse.NewDetailCache(client, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize detail cache: %w", err)
	}

	if pattern == "" {
		pattern = "*"
	}
	return &Browser{
		ctx:       ctx,
		client:    client,
		session:   session,
		details:   details,
		cfg:       cfg,
		pattern:   pattern,
		readline:  rl,
		output:    NewOutput(noColor),
		startTime: time.Now(),
	}, nil
}

// prompt 根据当前库生成提示符
func prompt(client *redisx.Client) string {
	return fmt.Sprintf("\033[32m%s>\033[0m ", client.Label())
}

// Start 启动交互式循环
func (b *Browser) Start() {
	b.printWelcome()
	defer b.Stop()

	// 进入即加载第一页，和打开一个可视化浏览器一致
	if view, err := b.session.LoadFirstPage(b.ctx, b.pattern, 0); err != nil {
		b.output.Warning("initial scan failed: %v", err)
	} else {
		renderTree(b.output, view)
	}

	for {
		select {
		case <-b.ctx.Done():
			corelog.Infof("browser: context cancelled, shutting down")
			return
		default:
			line, err := b.readline.Readline()
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					b.output.Info("Use 'exit' or 'quit' to exit")
					continue
				}
			} else if err == io.EOF {
				return
			} else if err != nil {
				corelog.Errorf("browser: readline error: %v", err)
				b.output.Error("Failed to read input: %v", err)
				time.Sleep(100 * time.Millisecond)
				continue
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			if !b.executeCommand(line) {
				return
			}
		}
	}
}

// Stop 关闭浏览器
func (b *Browser) Stop() {
	b.session.Close()
	if b.readline != nil {
		b.readline.Close()
	}
}

// printWelcome 打印欢迎信息
func (b *Browser) printWelcome() {
	fmt.Println("")
	b.output.Header("Keyscope - Redis Key-Space Browser")
	b.output.Plain("  Connected to %s", b.client.Label())
	b.output.Plain("  Type 'help' to see available commands")
	b.output.Plain("  Press Tab for command completion")
	fmt.Println("")
}

// executeCommand 执行一条命令，返回 false 表示退出循环
func (b *Browser) executeCommand(commandLine string) bool {
	parts := strings.Fields(commandLine)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "h", "?":
		b.cmdHelp()
	case "exit", "quit", "q":
		return false
	case "clear", "cls":
		// ANSI 转义序列清屏
		fmt.Print("\033[H\033[2J")
		b.printWelcome()
	case "status", "st":
		b.cmdStatus()
	case "tree", "ls", "t":
		b.cmdTree()
	case "more", "m":
		b.cmdMore()
	case "filter", "f":
		b.cmdFilter(args)
	case "pattern", "p":
		b.cmdPattern(args)
	case "refresh", "r":
		b.cmdRefresh()
	case "get", "g":
		b.cmdGet(args)
	case "set":
		b.cmdSet(args)
	case "detail", "show":
		b.cmdDetail(args)
	case "ttl":
		b.cmdTTL(args)
	case "expire":
		b.cmdExpire(args)
	case "persist":
		b.cmdPersist(args)
	case "del", "rm":
		b.cmdDelete(args)
	case "rename", "mv":
		b.cmdRename(args)
	case "new", "n":
		b.cmdNew(args)
	case "use":
		b.cmdUse(args)
	case "info", "i":
		b.cmdInfo()
	case "raw":
		b.cmdRaw(args)
	default:
		b.output.Error("Unknown command: %s", cmd)
		b.output.Info("Type 'help' to see available commands")
	}
	return true
}

// promptConfirm 提示用户确认
func (b *Browser) promptConfirm(question string) bool {
	b.readline.SetPrompt(question + " (yes/no): ")
	defer b.readline.SetPrompt(prompt(b.client))

	line, err := b.readline.Readline()
	if err != nil {
		return false
	}
	response := strings.ToLower(strings.TrimSpace(line))
	return response == "yes" || response == "y"
}
