package browse

import (
	"context"
	"errors"
	"fmt"
	"testing"

	errs "keyscope-core/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptScanner 按游标索引返回预设页面的扫描桩
type scriptScanner struct {
	pages  map[uint64]scriptPage
	counts []int64 // 记录每次调用请求的 count
	err    error
}

type scriptPage struct {
	next uint64
	keys []string
}

func (s *scriptScanner) Scan(ctx context.Context, cursor uint64, pattern string, count int64) (uint64, []string, error) {
	s.counts = append(s.counts, count)
	if s.err != nil {
		return 0, nil, s.err
	}
	page, ok := s.pages[cursor]
	if !ok {
		return 0, nil, nil
	}
	return page.next, page.keys, nil
}

// chunkedScanner 把固定键集按每页 batch 个返回，模拟真实 SCAN 行为
func chunkedScanner(total, batch int) *scriptScanner {
	keys := make([]string, total)
	for i := range keys {
		keys[i] = fmt.Sprintf("key:%03d", i)
	}

	pages := make(map[uint64]scriptPage)
	cursor := uint64(0)
	for start := 0; start < total; start += batch {
		end := start + batch
		if end > total {
			end = total
		}
		next := cursor + 1
		if end == total {
			next = 0
		}
		pages[cursor] = scriptPage{next: next, keys: keys[start:end]}
		cursor++
	}
	return &scriptScanner{pages: pages}
}

// TestPaginator_MinCount 每页至少 minCount 个键，最终无丢失无重复
func TestPaginator_MinCount(t *testing.T) {
	scanner := chunkedScanner(25, 3)
	p := NewPaginator(scanner, 0, 0)
	ctx := context.Background()

	seen := make(map[string]int)
	var cursor uint64
	var pageCount int
	for {
		next, keys, err := p.Fetch(ctx, cursor, "*", 10)
		require.NoError(t, err)
		pageCount++

		for _, k := range keys {
			seen[k]++
		}
		if next == TerminalCursor {
			break
		}
		// 非最后一页必须满足最小批量
		assert.GreaterOrEqual(t, len(keys), 10)
		cursor = next
	}

	// 25 个键全部到手，每个恰好一次
	assert.Len(t, seen, 25)
	for k, n := range seen {
		assert.Equal(t, 1, n, "key %s seen %d times", k, n)
	}
	assert.LessOrEqual(t, pageCount, 3)
}

// TestPaginator_EmptyBatchNonZeroCursor 空批次但游标非 0 不会死循环
func TestPaginator_EmptyBatchNonZeroCursor(t *testing.T) {
	scanner := &scriptScanner{pages: map[uint64]scriptPage{
		0: {next: 5, keys: nil},
		5: {next: 0, keys: []string{"x"}},
	}}
	p := NewPaginator(scanner, 0, 0)

	next, keys, err := p.Fetch(context.Background(), 0, "*", 10)
	require.NoError(t, err)
	assert.Equal(t, TerminalCursor, next)
	assert.Equal(t, []string{"x"}, keys)
}

// TestPaginator_Floor 单次请求量不低于下限，避免逐键自旋
func TestPaginator_Floor(t *testing.T) {
	scanner := chunkedScanner(30, 2)
	p := NewPaginator(scanner, 0, 0)

	_, _, err := p.Fetch(context.Background(), 0, "*", 3)
	require.NoError(t, err)

	for _, count := range scanner.counts {
		assert.GreaterOrEqual(t, count, int64(DefaultScanFloor))
	}
}

// TestPaginator_InvalidCount minCount 必须 >= 1
func TestPaginator_InvalidCount(t *testing.T) {
	p := NewPaginator(&scriptScanner{}, 0, 0)
	_, _, err := p.Fetch(context.Background(), 0, "*", 0)
	assert.ErrorIs(t, err, errs.ErrInvalidCount)
}

// TestPaginator_TransportError 扫描失败原样上抛，不返回部分结果
func TestPaginator_TransportError(t *testing.T) {
	boom := errors.New("connection reset")
	scanner := &scriptScanner{err: boom}
	p := NewPaginator(scanner, 0, 0)

	_, keys, err := p.Fetch(context.Background(), 0, "*", 10)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, keys)
}

// TestPaginator_Cancellation 取消后丢弃已累积的页
func TestPaginator_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPaginator(chunkedScanner(25, 3), 0, 0)
	_, keys, err := p.Fetch(ctx, 0, "*", 10)
	assert.ErrorIs(t, err, errs.ErrScanCancelled)
	assert.Nil(t, keys)
}

// TestPaginator_CancellationMidLoop 循环中途取消同样丢弃部分结果
func TestPaginator_CancellationMidLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	scanner := chunkedScanner(25, 3)
	cancelling := &cancellingScanner{inner: scanner, cancel: cancel, after: 2}
	p := NewPaginator(cancelling, 0, 0)

	_, keys, err := p.Fetch(ctx, 0, "*", 20)
	assert.ErrorIs(t, err, errs.ErrScanCancelled)
	assert.Nil(t, keys)
}

// cancellingScanner 在第 after 次调用后取消上下文
type cancellingScanner struct {
	inner  Scanner
	cancel context.CancelFunc
	after  int
	calls  int
}

func (c *cancellingScanner) Scan(ctx context.Context, cursor uint64, pattern string, count int64) (uint64, []string, error) {
	c.calls++
	if c.calls >= c.after {
		c.cancel()
	}
	return c.inner.Scan(ctx, cursor, pattern, count)
}

// TestPaginator_Throttle 配置限速时仍能正确完成扫描
func TestPaginator_Throttle(t *testing.T) {
	scanner := chunkedScanner(6, 3)
	p := NewPaginator(scanner, 0, 1000) // 高限速，只验证路径

	next, keys, err := p.Fetch(context.Background(), 0, "*", 6)
	require.NoError(t, err)
	assert.Equal(t, TerminalCursor, next)
	assert.Len(t, keys, 6)
}
