// Package app 提供背景动画的 ebiten 窗口宿主
//
// 该包把 backdrop.Driver 接到 ebiten 的游戏循环上：
// Update 推进一帧，Draw 把离屏图像贴到屏幕，Layout 把窗口尺寸变化转发给视口。
// 桌面端预览工具 cmd/backdrops 调用 NewApp()。
package app

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/gonewx/martianblue/pkg/backdrop"
	"github.com/gonewx/martianblue/pkg/config"
	"github.com/gonewx/martianblue/pkg/render"
)

// 默认窗口尺寸
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Config 定义应用启动配置
type Config struct {
	// Presets 可切换的预设（按 Tab 循环），至少一个
	Presets []*config.Backdrop
	// Seed 随机种子，0 表示随机
	Seed int64
	// Logger 日志，nil 时不输出
	Logger *zap.Logger
}

// App 背景动画窗口，实现 ebiten.Game 接口
type App struct {
	presets []*config.Backdrop
	current int
	seed    int64
	logger  *zap.Logger

	viewport *backdrop.ResizableViewport
	sched    *backdrop.ManualScheduler
	surface  *render.EbitenSurface
	driver   *backdrop.Driver

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建应用，驱动器在第一次 Update 时挂到画布上
func NewApp(cfg Config) (*App, error) {
	if len(cfg.Presets) == 0 {
		return nil, fmt.Errorf("at least one backdrop preset is required")
	}
	for _, p := range cfg.Presets {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		presets:  cfg.Presets,
		seed:     cfg.Seed,
		logger:   logger.Named("app"),
		viewport: backdrop.NewResizableViewport(DefaultWidth, DefaultHeight),
		sched:    backdrop.NewManualScheduler(),
	}
	a.driver = a.newDriver()
	return a, nil
}

func (a *App) newDriver() *backdrop.Driver {
	opts := []backdrop.Option{backdrop.WithLogger(a.logger)}
	if a.seed != 0 {
		opts = append(opts, backdrop.WithSeed(a.seed))
	}
	return backdrop.NewDriver(a.presets[a.current], a.viewport, a.sched, opts...)
}

// nextIndex 循环切换到下一个预设
func nextIndex(current, n int) int {
	if n == 0 {
		return 0
	}
	return (current + 1) % n
}

// switchPreset 停掉当前驱动器，用下一个预设重新启动
func (a *App) switchPreset() error {
	a.driver.Stop()
	a.current = nextIndex(a.current, len(a.presets))
	a.driver = a.newDriver()
	a.logger.Info("preset switched", zap.String("preset", a.presets[a.current].Name))
	return a.driver.Start(a.surface)
}

// Current 当前预设名
func (a *App) Current() string {
	return a.presets[a.current].Name
}

// Update 推进一帧
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if a.surface == nil {
		w, h := a.viewport.Size()
		a.surface = render.NewEbitenSurface(w, h)
		if err := a.driver.Start(a.surface); err != nil {
			return fmt.Errorf("start backdrop: %w", err)
		}
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(DefaultWidth, DefaultHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	// Tab 切换预设
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) && len(a.presets) > 1 {
		if err := a.switchPreset(); err != nil {
			return fmt.Errorf("switch preset: %w", err)
		}
	}

	a.sched.Advance()
	return nil
}

// Draw 把离屏图像贴到屏幕
func (a *App) Draw(screen *ebiten.Image) {
	if a.surface == nil {
		return
	}
	screen.DrawImage(a.surface.Image(), nil)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑尺寸跟随窗口，尺寸变化时通知视口
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if w, h := a.viewport.Size(); w != outsideWidth || h != outsideHeight {
		a.viewport.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Close 停止驱动器
func (a *App) Close() {
	a.driver.Stop()
}
