package backdrop

import (
	"sort"
	"sync"
	"time"
)

// Scheduler 请求下一帧（对应浏览器的 requestAnimationFrame）
// 返回的 cancel 取消尚未执行的回调，可重复调用
type Scheduler interface {
	RequestFrame(fn func()) (cancel func())
}

// TickerScheduler 以固定帧率在独立 goroutine 上执行回调
type TickerScheduler struct {
	interval time.Duration
}

// NewTickerScheduler 创建定时调度器，fps <= 0 时使用 60
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickerScheduler{interval: time.Second / time.Duration(fps)}
}

// Interval 返回帧间隔
func (s *TickerScheduler) Interval() time.Duration {
	return s.interval
}

// RequestFrame 实现 Scheduler
func (s *TickerScheduler) RequestFrame(fn func()) func() {
	t := time.AfterFunc(s.interval, fn)
	return func() { t.Stop() }
}

// ManualScheduler 由宿主或测试显式推进的调度器
//
// RequestFrame 只登记回调；Advance 执行当前登记的全部回调。
// 回调中再次登记的帧留到下一次 Advance。
type ManualScheduler struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]func()
}

// NewManualScheduler 创建手动调度器
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[uint64]func())}
}

// RequestFrame 实现 Scheduler
func (s *ManualScheduler) RequestFrame(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.pending[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
	}
}

// Pending 返回等待执行的回调数量
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Advance 按登记顺序执行当前全部回调，返回执行数量
// 回调在锁外执行，可以安全地再次调用 RequestFrame
func (s *ManualScheduler) Advance() int {
	s.mu.Lock()
	ids := make([]uint64, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.pending[id])
		delete(s.pending, id)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Run 连续推进 n 次，返回执行的回调总数
func (s *ManualScheduler) Run(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += s.Advance()
	}
	return total
}
