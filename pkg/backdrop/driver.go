package backdrop

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/gonewx/martianblue/pkg/config"
	"github.com/gonewx/martianblue/pkg/render"
)

var (
	// ErrAlreadyStarted Start 被重复调用
	ErrAlreadyStarted = errors.New("backdrop: driver already started")
	// ErrStopped Stop 之后不能再次 Start
	ErrStopped = errors.New("backdrop: driver stopped")
)

// Canvas 可调整尺寸的绘制表面
type Canvas interface {
	render.Surface
	SetSize(width, height int)
}

// flusher 由需要显式提交的表面实现（如终端）
type flusher interface {
	Flush()
}

// State 驱动器状态
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Option 配置 Driver
type Option func(*Driver)

// WithSeed 固定随机种子，相同种子得到相同轨迹
func WithSeed(seed int64) Option {
	return func(d *Driver) {
		d.seed = seed
	}
}

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithFrameHook 每帧绘制完成后回调（帧序号从 1 开始）
// 回调在持有驱动器锁时执行，不能反过来调用 Driver 的方法
func WithFrameHook(fn func(frame uint64)) Option {
	return func(d *Driver) {
		d.hook = fn
	}
}

// Driver 帧驱动器
//
// 生命周期：idle → running → stopped，stopped 为终态。
// 每帧在互斥锁内先 Update 再 Draw，然后请求下一帧；
// Stop 持有同一把锁，因此正在执行的帧会先完成，之后不会再有帧执行。
type Driver struct {
	cfg      *config.Backdrop
	viewport Viewport
	sched    Scheduler
	logger   *zap.Logger
	seed     int64
	hook     func(uint64)

	mu           sync.Mutex
	state        State
	canvas       Canvas
	field        *Field
	cancelFrame  func()
	removeResize func()

	frames atomic.Uint64
}

// NewDriver 创建驱动器，此时不分配任何资源
func NewDriver(cfg *config.Backdrop, viewport Viewport, sched Scheduler, opts ...Option) *Driver {
	d := &Driver{
		cfg:      cfg,
		viewport: viewport,
		sched:    sched,
		logger:   zap.NewNop(),
		seed:     time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start 把驱动器挂到画布上并请求第一帧
//
// canvas 为 nil（尚未挂载）时保持 idle 并返回 nil，之后可以再次调用。
// 任一步骤失败都会释放已获取的资源。
func (d *Driver) Start(canvas Canvas) (err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrStopped
	}

	if canvas == nil {
		d.logger.Debug("canvas not mounted, staying idle")
		return nil
	}
	if d.cfg == nil || d.viewport == nil || d.sched == nil {
		return fmt.Errorf("backdrop: driver needs a config, viewport and scheduler")
	}
	if err := d.cfg.Validate(); err != nil {
		return fmt.Errorf("backdrop: %w", err)
	}

	defer func() {
		if err != nil {
			d.releaseLocked()
			d.state = StateIdle
		}
	}()

	w, h := d.viewport.Size()
	canvas.SetSize(w, h)
	d.canvas = canvas
	d.removeResize = d.viewport.OnResize(d.OnResize)

	cw, ch := canvas.Size()
	d.field = NewField(d.cfg, cw, ch, d.seed)
	d.state = StateRunning
	d.cancelFrame = d.sched.RequestFrame(d.tick)

	d.logger.Info("backdrop started",
		zap.String("preset", d.cfg.Name),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int64("seed", d.seed),
	)
	return nil
}

// OnResize 重新读取视口尺寸，调整画布和实体边界
// 实体位置不重置
func (d *Driver) OnResize() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateRunning {
		return
	}
	w, h := d.viewport.Size()
	d.canvas.SetSize(w, h)
	cw, ch := d.canvas.Size()
	d.field.Resize(cw, ch)
	d.logger.Debug("backdrop resized", zap.Int("width", w), zap.Int("height", h))
}

// Stop 取消待执行的帧、注销尺寸监听并丢弃实体集合
// 可重复调用；返回后不会再有 Update 或 Draw 执行
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateStopped {
		return
	}
	wasRunning := d.state == StateRunning
	d.releaseLocked()
	d.state = StateStopped
	if wasRunning {
		d.logger.Info("backdrop stopped", zap.Uint64("frames", d.frames.Load()))
	}
}

func (d *Driver) releaseLocked() {
	if d.cancelFrame != nil {
		d.cancelFrame()
		d.cancelFrame = nil
	}
	if d.removeResize != nil {
		d.removeResize()
		d.removeResize = nil
	}
	if d.field != nil {
		d.field.Release()
		d.field = nil
	}
	d.canvas = nil
}

// tick 执行一帧：Update → Draw → 请求下一帧
func (d *Driver) tick() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateRunning {
		return
	}

	d.field.Update()
	d.field.Draw(d.canvas)
	if f, ok := d.canvas.(flusher); ok {
		f.Flush()
	}

	n := d.frames.Add(1)
	if d.hook != nil {
		d.hook(n)
	}
	d.cancelFrame = d.sched.RequestFrame(d.tick)
}

// State 返回当前状态
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Frames 返回已完成的帧数
func (d *Driver) Frames() uint64 {
	return d.frames.Load()
}

// Stats 返回实体统计；未运行时返回零值
func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.field == nil {
		return Stats{Frames: d.frames.Load()}
	}
	return d.field.Stats()
}
