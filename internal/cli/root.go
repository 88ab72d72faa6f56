// Package cli 提供 Keyscope 的命令框架与交互式浏览器
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"keyscope-core/internal/config"
	corelog "keyscope-core/internal/core/log"
	"keyscope-core/internal/redisx"
	"keyscope-core/internal/version"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// 全局标志
var (
	serverAddr string
	configFile string
	dbNum      int
	password   string
	askPass    bool
	pattern    string
	pageSize   int
	separator  string
	embedded   bool
	logLevel   string
	logFile    string
	noColor    bool
)

// rootCmd 代表根命令
var rootCmd = &cobra.Command{
	Use:   "keyscope",
	Short: "Keyscope - Interactive Redis key-space browser",
	Long: `Keyscope is an interactive Redis key-space browser.
It scans the key space incrementally, groups keys into a namespace tree,
and lets you inspect and edit values without loading the whole database.

Quick Start:
  keyscope                          Browse 127.0.0.1:6379
  keyscope -s redis.example.com:6379 --askpass
  keyscope --pattern 'user:*'       Only scan matching keys
  keyscope --embedded               Try it with a built-in demo server`,
	Version: version.GetVersion(),
	Run:     runBrowse,
}

// Execute 执行根命令
func Execute() {
	// 全局 panic recovery
	defer func() {
		if r := recover(); r != nil {
			corelog.Errorf("FATAL: main goroutine panic recovered: %v", r)
			corelog.Errorf("Stack trace:\n%s", string(debug.Stack()))
			fmt.Fprintf(os.Stderr, "\nPANIC: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", string(debug.Stack()))
			os.Exit(2)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverAddr, "server", "s", "", "Redis address (e.g., localhost:6379)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().IntVar(&dbNum, "db", -1, "Database number")
	rootCmd.PersistentFlags().StringVarP(&password, "auth", "a", "", "Password (prefer --askpass to keep it out of shell history)")
	rootCmd.PersistentFlags().BoolVar(&askPass, "askpass", false, "Prompt for password without echoing")
	rootCmd.PersistentFlags().StringVarP(&pattern, "pattern", "p", "*", "Server-side key match pattern")
	rootCmd.PersistentFlags().IntVar(&pageSize, "page-size", 0, "Minimum keys per scan page")
	rootCmd.PersistentFlags().StringVar(&separator, "separator", "", "Namespace separator (default \":\")")
	rootCmd.PersistentFlags().BoolVar(&embedded, "embedded", false, "Run against a built-in demo server")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug/info/warn/error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "Log file path")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(versionCmd)
}

// runBrowse 连接并启动交互式浏览器
func runBrowse(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 信号处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := configureLogging(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		os.Exit(1)
	}

	client, cleanup, err := connect(ctx, cfg)
	if err != nil {
		if ctx.Err() == context.Canceled {
			fmt.Fprintf(os.Stderr, "\nConnection cancelled\n")
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "\nConnection failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "Please check the address or specify one with --server\n")
		os.Exit(1)
	}
	defer cleanup()

	browser, err := NewBrowser(ctx, client, cfg, pattern, noColor)
	if err != nil {
		corelog.Errorf("browser initialization failed: %v", err)
		fmt.Fprintf(os.Stderr, "Failed to initialize browser: %v\n", err)
		os.Exit(1)
	}

	browser.Start()
}

// connect 按配置建立连接；embedded 模式先拉起内置服务端
func connect(ctx context.Context, cfg *config.Config) (*redisx.Client, func(), error) {
	if embedded {
		srv, err := redisx.NewEmbeddedRedis()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start embedded server: %w", err)
		}
		seedDemoData(srv)
		cfg.Redis.Addr = srv.Addr()
		cfg.Redis.Password = ""
		fmt.Fprintf(os.Stderr, "Embedded demo server listening on %s\n", srv.Addr())

		client, err := redisx.New(ctx, &cfg.Redis)
		if err != nil {
			srv.Close()
			return nil, nil, err
		}
		return client, func() { client.Close(); srv.Close() }, nil
	}

	client, err := redisx.New(ctx, &cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { client.Close() }, nil
}

// loadConfig 加载配置，命令行参数覆盖配置文件
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewManager().Load(configFile)
	if err != nil {
		return nil, err
	}

	if serverAddr != "" {
		cfg.Redis.Addr = serverAddr
	}
	if dbNum >= 0 {
		cfg.Redis.DB = dbNum
	}
	if password != "" {
		cfg.Redis.Password = password
	}
	if askPass {
		pass, err := promptPassword()
		if err != nil {
			return nil, err
		}
		cfg.Redis.Password = pass
	}
	if pageSize > 0 {
		cfg.Browse.PageSize = pageSize
	}
	if separator != "" {
		cfg.Browse.Separator = separator
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// promptPassword 不回显地读取密码
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pass), nil
}

// configureLogging 配置日志
// 交互界面占用终端，日志默认走 stderr 的 warn 级别，指定文件后才放开
func configureLogging(cfg *config.Config) error {
	logCfg := cfg.Log
	if logCfg.Level == "" {
		logCfg.Level = "warn"
	}
	if logFile != "" {
		logCfg.Output = "file"
		logCfg.File = logFile
		if logCfg.Level == "warn" && logLevel == "" {
			logCfg.Level = "info"
		}
	}

	logger, err := corelog.NewFromConfig(&logCfg)
	if err != nil {
		return err
	}
	corelog.SetDefault(logger)
	return nil
}

// seedDemoData 给内置服务端填充演示数据
func seedDemoData(srv *redisx.EmbeddedRedis) {
	client := srv.NewClient()
	defer client.Close()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		key := fmt.Sprintf("user:%d:profile", i)
		client.HashSet(ctx, key, "name", fmt.Sprintf("user-%d", i))
		client.HashSet(ctx, key, "visits", fmt.Sprintf("%d", i*7))
		client.SetString(ctx, fmt.Sprintf("user:%d:last_login", i), "2026-08-29T10:00:00Z", 0)
	}
	client.ListPush(ctx, "queue:emails", "welcome", "digest", "reminder")
	client.SetAdd(ctx, "tags", "go", "redis", "cli")
	client.ZSetAdd(ctx, "leaderboard", "alice", 420)
	client.ZSetAdd(ctx, "leaderboard", "bob", 317)
	client.SetString(ctx, "config:maintenance", "off", 0)
}

// versionCmd 显示版本信息
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Printf("Keyscope %s\n", version.GetVersion())
		fmt.Println()
		fmt.Println("An interactive Redis key-space browser.")
		fmt.Println()
	},
}
