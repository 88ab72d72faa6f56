package browse

import (
	"context"
	"strings"

	corelog "keyscope-core/internal/core/log"

	"golang.org/x/sync/errgroup"
)

// InfoFetcher 服务端概览查询原语，由数据访问层实现
type InfoFetcher interface {
	Info(ctx context.Context, sections ...string) (string, error)
	KeyspaceInfo(ctx context.Context) map[int]int64
	DBSize(ctx context.Context) (int64, error)
}

// Overview 服务端概览
// 单项查询失败按软失败处理（对应字段留零值），与原始实现一致
type Overview struct {
	Server   map[string]string // INFO server 段的键值对
	Keyspace map[int]int64     // db 编号 -> 键数量
	DBSize   int64             // 当前库的键总数
}

// Version 服务端版本，未知时返回 "unknown"
func (o *Overview) Version() string {
	if v, ok := o.Server["redis_version"]; ok && v != "" {
		return v
	}
	return "unknown"
}

// FetchOverview 并发抓取服务端概览
// 三个查询互不依赖，用 errgroup 并发收集；只有上下文取消会让整体失败
func FetchOverview(ctx context.Context, fetcher InfoFetcher) (*Overview, error) {
	overview := &Overview{
		Server:   map[string]string{},
		Keyspace: map[int]int64{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		raw, err := fetcher.Info(gctx, "server")
		if err != nil {
			corelog.Debugf("browse: server info unavailable: %v", err)
			return gctx.Err()
		}
		overview.Server = parseInfoSection(raw)
		return nil
	})

	g.Go(func() error {
		overview.Keyspace = fetcher.KeyspaceInfo(gctx)
		return gctx.Err()
	})

	g.Go(func() error {
		n, err := fetcher.DBSize(gctx)
		if err != nil {
			corelog.Debugf("browse: dbsize unavailable: %v", err)
			return gctx.Err()
		}
		overview.DBSize = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

// parseInfoSection 解析 INFO 输出为键值对
// 行格式: redis_version:7.2.0；# 开头的是段标题，跳过
func parseInfoSection(raw string) map[string]string {
	result := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		result[k] = v
	}
	return result
}
