package browse

import (
	"context"
	"sync"

	"keyscope-core/internal/core/log"
	"keyscope-core/internal/core/types"
	errs "keyscope-core/internal/errors"

	"github.com/google/uuid"
)

// State 会话的分页/过滤状态
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateFiltered
	StateLoadingMore
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFiltered:
		return "filtered"
	case StateLoadingMore:
		return "loading_more"
	default:
		return "invalid"
	}
}

// Store 会话依赖的数据访问原语集合
type Store interface {
	Scanner
	TypeResolver
}

// Options 会话配置
type Options struct {
	PageSize  int     // 默认每页最少键数
	ScanFloor int     // 单次 SCAN COUNT 下限
	Separator string  // 命名空间分隔符
	ScanRate  float64 // 每秒 SCAN 调用上限，0 不限
	Logger    log.Logger
}

// TreeView 一次树构建的结果，交给渲染层
type TreeView struct {
	Root    *Node
	Total   int    // 呈现的键总数（含虚拟键、过滤后）
	HasMore bool   // 游标非 0，还有未扫描的页
	Cursor  uint64
	Pattern string // 服务端扫描模式
	Filter  string // 本地过滤子串
}

// Session 键空间浏览会话
//
// 每个连接一个会话：底层连接不允许多个调用方交错发命令，
// 所有扫描/类型/确认操作都串行通过这里（互斥锁保证同一时刻
// 只有一个进行中的请求）。缓存、叠加层、游标都归会话私有。
type Session struct {
	mu sync.Mutex

	id        string
	store     Store
	paginator *Paginator
	cache     *Cache
	overlay   *Overlay

	separator string
	filter    string
	pageSize  int
	state     State
	closed    bool
	logger    log.Logger
}

// NewSession 创建会话
func NewSession(store Store, opts *Options) *Session {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	separator := opts.Separator
	if separator == "" {
		separator = ":"
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 2000
	}

	id := uuid.NewString()
	return &Session{
		id:        id,
		store:     store,
		paginator: NewPaginator(store, opts.ScanFloor, opts.ScanRate),
		cache:     NewCache(),
		overlay:   NewOverlay(),
		separator: separator,
		pageSize:  pageSize,
		state:     StateEmpty,
		logger:    logger.WithField("session", id[:8]),
	}
}

// ID 会话标识
func (s *Session) ID() string {
	return s.id
}

// State 当前状态
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveState()
}

// effectiveState 过滤非空时 READY 呈现为 FILTERED；调用方须持锁
func (s *Session) effectiveState() State {
	if s.state == StateReady && s.filter != "" {
		return StateFiltered
	}
	return s.state
}

// LoadFirstPage 重置缓存并加载第一页
//
// minCount <= 0 时使用会话默认页大小。失败时缓存保持上一次的
// 一致状态：取页和类型解析都成功之后才执行重置与合并。
func (s *Session) LoadFirstPage(ctx context.Context, pattern string, minCount int) (*TreeView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadFirstPage(ctx, pattern, minCount)
}

// loadFirstPage LoadFirstPage 的主体。调用方须持锁
func (s *Session) loadFirstPage(ctx context.Context, pattern string, minCount int) (*TreeView, error) {
	if s.closed {
		return nil, errs.ErrSessionClosed
	}
	if pattern == "" {
		pattern = "*"
	}
	if minCount <= 0 {
		minCount = s.pageSize
	}

	prev := s.state
	s.state = StateLoading

	nextCursor, keys, keyTypes, err := s.fetchPage(ctx, TerminalCursor, pattern, minCount)
	if err != nil {
		s.state = prev
		return nil, err
	}

	s.cache.Reset(pattern)
	s.cache.Merge(keys, keyTypes, nextCursor)
	s.state = StateReady
	s.logger.Debugf("first page loaded: %d keys, cursor=%d, pattern=%q", s.cache.Len(), nextCursor, pattern)

	return s.buildView(), nil
}

// LoadMore 从上次游标继续加载
// 游标已经终止时是空操作（返回当前视图），不是错误
func (s *Session) LoadMore(ctx context.Context, minCount int) (*TreeView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errs.ErrSessionClosed
	}
	if !s.cache.HasMore() {
		return s.buildView(), nil
	}
	if minCount <= 0 {
		minCount = s.pageSize
	}

	prev := s.state
	s.state = StateLoadingMore

	nextCursor, keys, keyTypes, err := s.fetchPage(ctx, s.cache.Cursor(), s.cache.Pattern(), minCount)
	if err != nil {
		s.state = prev
		return nil, err
	}

	s.cache.Merge(keys, keyTypes, nextCursor)
	s.state = StateReady
	s.logger.Debugf("more keys loaded: total=%d, cursor=%d", s.cache.Len(), nextCursor)

	return s.buildView(), nil
}

// fetchPage 取一页并解析类型；任何失败都不触碰缓存。调用方须持锁
func (s *Session) fetchPage(ctx context.Context, cursor uint64, pattern string, minCount int) (uint64, []string, map[string]types.KeyType, error) {
	nextCursor, keys, err := s.paginator.Fetch(ctx, cursor, pattern, minCount)
	if err != nil {
		s.logger.WithError(err).Warnf("scan failed at cursor %d", cursor)
		return 0, nil, nil, err
	}

	// 去重后再批量解析类型，避免同一键跨页重复查询
	distinct := dedup(keys)
	keyTypes, err := s.store.TypeOfMany(ctx, distinct)
	if err != nil {
		s.logger.WithError(err).Warnf("type resolution failed for %d keys", len(distinct))
		return 0, nil, nil, err
	}
	return nextCursor, keys, keyTypes, nil
}

// dedup 保序去重
func dedup(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// ApplyFilter 设置本地过滤子串并重建树，不产生任何网络请求
// 空串清除过滤，回到完整缓存视图
func (s *Session) ApplyFilter(text string) *TreeView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = text
	return s.buildView()
}

// Filter 当前过滤子串
func (s *Session) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// DeclareVirtualKey 登记一个仅客户端可见的虚拟键
func (s *Session) DeclareVirtualKey(key string, t types.KeyType) error {
	if key == "" {
		return errs.ErrEmptyKey
	}
	if !t.Valid() {
		return errs.ErrInvalidKeyType
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.Declare(key, t)
	s.logger.Debugf("virtual key declared: %s (%s)", key, t)
	return nil
}

// OnKeyCommitted 写入成功后调用：向服务端求证键类型，
// 确认存在后收回虚拟键的权威，缓存记录真实类型
func (s *Session) OnKeyCommitted(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errs.ErrSessionClosed
	}

	t, err := s.store.TypeOf(ctx, key)
	if err != nil {
		return err
	}
	if !t.Exists() {
		if _, ok := s.overlay.DeclaredType(key); ok {
			// 服务端尚未物化（如空集合），虚拟键继续兜底
			return nil
		}
		// 非虚拟键已从服务端消失（被删除或过期），同步移除本地痕迹
		s.cache.Remove(key)
		return nil
	}

	s.overlay.Confirm(key)
	if s.cache.Contains(key) {
		s.cache.SetType(key, t)
	} else if MatchPattern(s.cache.Pattern(), key) {
		s.cache.Merge([]string{key}, map[string]types.KeyType{key: t}, s.cache.Cursor())
	}
	return nil
}

// OnKeyDeleted 删除键之后调用，同步移除本地痕迹
func (s *Session) OnKeyDeleted(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.Confirm(key)
	s.cache.Remove(key)
}

// VirtualType 若键是虚拟键则返回其声明类型
func (s *Session) VirtualType(key string) (types.KeyType, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.DeclaredType(key)
}

// CurrentTree 基于当前缓存、叠加层与过滤构建命名空间树
func (s *Session) CurrentTree() *TreeView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildView()
}

// buildView 合并叠加层、施加过滤、构建树。调用方须持锁
func (s *Session) buildView() *TreeView {
	keys, keyTypes, cursor := s.cache.Snapshot()
	keys, keyTypes = s.overlay.Merge(s.cache.Pattern(), keys, keyTypes)
	keys = filterKeys(keys, s.filter)

	return &TreeView{
		Root:    BuildTree(keys, keyTypes, s.separator),
		Total:   len(keys),
		HasMore: cursor != TerminalCursor,
		Cursor:  cursor,
		Pattern: s.cache.Pattern(),
		Filter:  s.filter,
	}
}

// Pattern 当前扫描模式
func (s *Session) Pattern() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Pattern()
}

// Refresh 用当前模式重新加载第一页（显式刷新）
// 模式读取和重载在同一个临界区内，中途不释放锁
func (s *Session) Refresh(ctx context.Context) (*TreeView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadFirstPage(ctx, s.cache.Pattern(), 0)
}

// Reset 丢弃全部本地状态（切库、重连后调用）
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Reset("*")
	s.filter = ""
	s.state = StateEmpty
}

// Close 关闭会话，后续请求返回 ErrSessionClosed
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
