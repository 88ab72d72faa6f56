// Package browse 实现键空间枚举与层级索引核心
//
// 组件划分：
//   - Paginator: 基于游标的最小批量扫描
//   - Cache: 去重有序的键空间缓存
//   - Overlay: 虚拟键叠加层
//   - BuildTree: 命名空间树构建
//   - Session: 串行化的会话门面
package browse

import (
	"context"

	"keyscope-core/internal/core/types"
	errs "keyscope-core/internal/errors"

	"golang.org/x/time/rate"
)

// Scanner 扫描原语，由数据访问层实现
// count 只是服务端提示：单次调用可能返回 0 个键但游标非 0
type Scanner interface {
	Scan(ctx context.Context, cursor uint64, pattern string, count int64) (uint64, []string, error)
}

// TypeResolver 类型解析原语，由数据访问层实现
type TypeResolver interface {
	TypeOf(ctx context.Context, key string) (types.KeyType, error)
	TypeOfMany(ctx context.Context, keys []string) (map[string]types.KeyType, error)
}

// TerminalCursor 扫描完成的游标值
const TerminalCursor uint64 = 0

// DefaultScanFloor 单次 SCAN COUNT 的默认下限
// 过小的请求量会让服务端逐键返回，导致病态的逐次往返
const DefaultScanFloor = 10

// Paginator 游标分页器
// 在 hint 式的扫描原语之上保证每次调用至少返回 minCount 个键
//（除非扫描已经完整结束）
type Paginator struct {
	scanner Scanner
	floor   int64
	limiter *rate.Limiter // 可为 nil（不限速）
}

// NewPaginator 创建分页器
// floor <= 0 时使用 DefaultScanFloor；scanRate > 0 时限制每秒 SCAN 调用数
func NewPaginator(scanner Scanner, floor int, scanRate float64) *Paginator {
	p := &Paginator{
		scanner: scanner,
		floor:   int64(floor),
	}
	if p.floor <= 0 {
		p.floor = DefaultScanFloor
	}
	if scanRate > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(scanRate), 1)
	}
	return p
}

// Fetch 从 cursor 开始扫描，直到累积 minCount 个键或扫描结束
//
// 返回的键未去重（同一个键可能跨页重复出现），去重是 Cache 的职责。
// 任何失败（包括取消）都不返回部分结果，调用方可以用原游标安全重试。
func (p *Paginator) Fetch(ctx context.Context, cursor uint64, pattern string, minCount int) (uint64, []string, error) {
	if minCount < 1 {
		return 0, nil, errs.ErrInvalidCount
	}

	collected := make([]string, 0, minCount)
	next := cursor

	for len(collected) < minCount {
		if err := ctx.Err(); err != nil {
			return 0, nil, errs.ErrScanCancelled
		}
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return 0, nil, errs.ErrScanCancelled
			}
		}

		// 每次请求剩余需要的量，但不低于下限
		request := int64(minCount - len(collected))
		if request < p.floor {
			request = p.floor
		}

		var batch []string
		var err error
		next, batch, err = p.scanner.Scan(ctx, next, pattern, request)
		if err != nil {
			return 0, nil, err
		}
		collected = append(collected, batch...)

		if next == TerminalCursor {
			break
		}
	}

	return next, collected, nil
}
