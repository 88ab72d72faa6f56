package redisx

import (
	"context"
	"strconv"
	"strings"

	corelog "keyscope-core/internal/core/log"
	errs "keyscope-core/internal/errors"
)

// DBSize 当前数据库的键总数
func (c *Client) DBSize(ctx context.Context) (int64, error) {
	n, err := c.rdb.DBSize(ctx).Result()
	if err != nil {
		return 0, errs.NewCommandError("dbsize", "", err)
	}
	return n, nil
}

// Info 返回 INFO 输出（可指定 section，空表示全部）
func (c *Client) Info(ctx context.Context, sections ...string) (string, error) {
	s, err := c.rdb.Info(ctx, sections...).Result()
	if err != nil {
		return "", errs.NewCommandError("info", "", err)
	}
	return s, nil
}

// KeyspaceInfo 返回 db 编号到键数量的映射
// 解析失败按软失败处理：记录 debug 日志并返回空映射，与原始行为一致
func (c *Client) KeyspaceInfo(ctx context.Context) map[int]int64 {
	raw, err := c.Info(ctx, "keyspace")
	if err != nil {
		corelog.Debugf("redisx: keyspace info unavailable: %v", err)
		return map[int]int64{}
	}
	return parseKeyspaceInfo(raw)
}

// parseKeyspaceInfo 解析 INFO keyspace 段
// 行格式: db0:keys=47,expires=0,avg_ttl=0
func parseKeyspaceInfo(raw string) map[int]int64 {
	result := make(map[int]int64)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "db") {
			continue
		}
		name, fields, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		dbIdx, err := strconv.Atoi(strings.TrimPrefix(name, "db"))
		if err != nil {
			continue
		}
		for _, field := range strings.Split(fields, ",") {
			k, v, ok := strings.Cut(field, "=")
			if !ok || k != "keys" {
				continue
			}
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				result[dbIdx] = n
			}
		}
	}
	return result
}
