package config

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/martianblue/internal/particle"
	"github.com/gonewx/martianblue/pkg/embedded"
	"github.com/gonewx/martianblue/pkg/render"
)

// 背景清屏模式
const (
	BackgroundClear = "clear" // 每帧完全清屏
	BackgroundFade  = "fade"  // 每帧叠加半透明矩形，形成拖尾
)

// 节点边界策略
const (
	BoundaryWrap   = "wrap"
	BoundaryBounce = "bounce"
)

// PresetDir 嵌入资源中预设文件所在目录
const PresetDir = "data/backdrops"

// Backdrop 页面背景动画配置
//
// 每个页面（home、home-mars、contact、services）对应一个预设文件，
// 计数为 0 的实体种类不会生成。
//
// 配置文件位置: data/backdrops/<name>.yaml
type Backdrop struct {
	// Name 预设名（与文件名一致）
	Name string `yaml:"name" json:"name"`

	// Description 预设说明
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// FPS 目标帧率（仅用于定时器调度；ebiten 宿主由引擎驱动）
	FPS int `yaml:"fps" json:"fps"`

	Background  BackgroundConfig `yaml:"background" json:"background"`
	Boundary    string           `yaml:"boundary" json:"boundary"`
	Counts      CountsConfig     `yaml:"counts" json:"counts"`
	Spawn       SpawnConfig      `yaml:"spawn" json:"spawn"`
	Nodes       NodeConfig       `yaml:"nodes" json:"nodes"`
	FlowLines   FlowLineConfig   `yaml:"flowLines" json:"flowLines"`
	Connections ConnectionConfig `yaml:"connections" json:"connections"`
	Palette     PaletteConfig    `yaml:"palette" json:"palette"`
}

// BackgroundConfig 背景绘制方式
type BackgroundConfig struct {
	Mode      string  `yaml:"mode" json:"mode"`
	Color     string  `yaml:"color" json:"color"`
	FadeAlpha float64 `yaml:"fadeAlpha" json:"fadeAlpha"` // 仅 fade 模式使用
}

// CountsConfig 各类实体数量
type CountsConfig struct {
	Nodes            int `yaml:"nodes" json:"nodes"`
	Stars            int `yaml:"stars" json:"stars"`
	NebulaePerSide   int `yaml:"nebulaePerSide" json:"nebulaePerSide"`
	FlowLines        int `yaml:"flowLines" json:"flowLines"`
	DistantBodies    int `yaml:"distantBodies" json:"distantBodies"`
	MaxShootingStars int `yaml:"maxShootingStars" json:"maxShootingStars"`
	MaxDust          int `yaml:"maxDust" json:"maxDust"`
}

// SpawnConfig 瞬态实体每帧生成概率
type SpawnConfig struct {
	ShootingStarChance float64 `yaml:"shootingStarChance" json:"shootingStarChance"`
	DustChance         float64 `yaml:"dustChance" json:"dustChance"`
}

// NodeConfig 网络节点参数
type NodeConfig struct {
	Speed     particle.Range `yaml:"speed" json:"speed"`         // 每个速度分量的取值范围
	Radius    particle.Range `yaml:"radius" json:"radius"`       // 基础半径
	PhaseStep float64        `yaml:"phaseStep" json:"phaseStep"` // 每帧脉冲相位增量
}

// FlowLineConfig 流光线段参数
type FlowLineConfig struct {
	Speed       particle.Range `yaml:"speed" json:"speed"`
	Length      particle.Range `yaml:"length" json:"length"`
	Width       particle.Range `yaml:"width" json:"width"`
	Life        particle.Range `yaml:"life" json:"life"`
	BaseOpacity float64        `yaml:"baseOpacity" json:"baseOpacity"`
}

// ConnectionConfig 节点连线参数
type ConnectionConfig struct {
	Threshold   float64 `yaml:"threshold" json:"threshold"`     // 连线距离阈值（像素）
	BaseOpacity float64 `yaml:"baseOpacity" json:"baseOpacity"` // 距离为 0 时的不透明度
	Width       float64 `yaml:"width" json:"width"`
}

// PaletteConfig 颜色表（#rrggbb）
type PaletteConfig struct {
	NodeCore  string   `yaml:"nodeCore" json:"nodeCore"`
	NodeMid   string   `yaml:"nodeMid" json:"nodeMid"`
	NodeEdge  string   `yaml:"nodeEdge" json:"nodeEdge"`
	EdgeFrom  string   `yaml:"edgeFrom" json:"edgeFrom"`
	EdgeTo    string   `yaml:"edgeTo" json:"edgeTo"`
	FlowLines []string `yaml:"flowLines,omitempty" json:"flowLines,omitempty"`
	Nebulae   []string `yaml:"nebulae,omitempty" json:"nebulae,omitempty"`
}

// DefaultBackdrop 返回未在文件中给出时使用的默认值
// 数值取自首页网络动画
func DefaultBackdrop() Backdrop {
	return Backdrop{
		FPS:        60,
		Background: BackgroundConfig{Mode: BackgroundClear, Color: "#0a0e27", FadeAlpha: 0.1},
		Boundary:   BoundaryBounce,
		Spawn:      SpawnConfig{ShootingStarChance: 0.01, DustChance: 0.15},
		Nodes: NodeConfig{
			Speed:     particle.MustParseRange("[-0.25 0.25]"),
			Radius:    particle.MustParseRange("[1 3.5]"),
			PhaseStep: 0.03,
		},
		FlowLines: FlowLineConfig{
			Speed:       particle.MustParseRange("[0.5 1.5]"),
			Length:      particle.MustParseRange("[40 120]"),
			Width:       particle.MustParseRange("[0.5 1.5]"),
			Life:        particle.MustParseRange("[150 350]"),
			BaseOpacity: 0.5,
		},
		Connections: ConnectionConfig{Threshold: 180, BaseOpacity: 0.3, Width: 1.5},
		Palette: PaletteConfig{
			NodeCore:  "#00ffff",
			NodeMid:   "#00d4ff",
			NodeEdge:  "#00b4d8",
			EdgeFrom:  "#00ff9f",
			EdgeTo:    "#00d4ff",
			FlowLines: []string{"#00ff9f", "#00d4ff", "#0096ff"},
			Nebulae:   []string{"#0096ff", "#00c8ff", "#64b4ff", "#3296c8"},
		},
	}
}

// ParseBackdropConfig 解析 YAML 预设
//
// 先填入默认值再解码，文件中未出现的字段保持默认。
func ParseBackdropConfig(data []byte) (*Backdrop, error) {
	cfg := DefaultBackdrop()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse backdrop config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backdrop config %q: %w", cfg.Name, err)
	}
	return &cfg, nil
}

// LoadBackdropConfig 从磁盘加载预设文件
func LoadBackdropConfig(path string) (*Backdrop, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backdrop config: %w", err)
	}
	return ParseBackdropConfig(data)
}

// LoadPreset 从嵌入资源加载指定名字的预设
func LoadPreset(name string) (*Backdrop, error) {
	if strings.ContainsAny(name, `/\.`) || name == "" {
		return nil, fmt.Errorf("invalid preset name %q", name)
	}
	data, err := embedded.ReadFile(path.Join(PresetDir, name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read preset %q: %w", name, err)
	}
	return ParseBackdropConfig(data)
}

// PresetNames 列出嵌入资源中的全部预设名（已排序）
func PresetNames() ([]string, error) {
	matches, err := embedded.Glob(PresetDir + "/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// Validate 验证配置有效性
//
// 检查：
//   - 背景模式和边界策略是已知取值
//   - 计数与概率非负，概率不超过 1
//   - 连线阈值为正
//   - 所有范围 min <= max
//   - 所有颜色可以解析
func (c *Backdrop) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}

	switch c.Background.Mode {
	case BackgroundClear, BackgroundFade:
	default:
		return fmt.Errorf("unknown background mode %q", c.Background.Mode)
	}
	if c.Background.FadeAlpha < 0 || c.Background.FadeAlpha > 1 {
		return fmt.Errorf("background fadeAlpha must be in [0,1], got %.2f", c.Background.FadeAlpha)
	}

	switch c.Boundary {
	case BoundaryWrap, BoundaryBounce:
	default:
		return fmt.Errorf("unknown boundary policy %q", c.Boundary)
	}

	counts := map[string]int{
		"nodes":            c.Counts.Nodes,
		"stars":            c.Counts.Stars,
		"nebulaePerSide":   c.Counts.NebulaePerSide,
		"flowLines":        c.Counts.FlowLines,
		"distantBodies":    c.Counts.DistantBodies,
		"maxShootingStars": c.Counts.MaxShootingStars,
		"maxDust":          c.Counts.MaxDust,
	}
	for name, n := range counts {
		if n < 0 {
			return fmt.Errorf("count %s must be >= 0, got %d", name, n)
		}
	}
	if c.Counts.DistantBodies > 4 {
		return fmt.Errorf("distantBodies must be <= 4 (one per corner), got %d", c.Counts.DistantBodies)
	}

	for name, p := range map[string]float64{
		"shootingStarChance": c.Spawn.ShootingStarChance,
		"dustChance":         c.Spawn.DustChance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("spawn %s must be in [0,1], got %.3f", name, p)
		}
	}

	if c.Connections.Threshold <= 0 {
		return fmt.Errorf("connections threshold must be positive, got %.1f", c.Connections.Threshold)
	}
	if c.Connections.BaseOpacity < 0 || c.Connections.BaseOpacity > 1 {
		return fmt.Errorf("connections baseOpacity must be in [0,1], got %.2f", c.Connections.BaseOpacity)
	}

	ranges := map[string]particle.Range{
		"nodes.speed":      c.Nodes.Speed,
		"nodes.radius":     c.Nodes.Radius,
		"flowLines.speed":  c.FlowLines.Speed,
		"flowLines.length": c.FlowLines.Length,
		"flowLines.width":  c.FlowLines.Width,
		"flowLines.life":   c.FlowLines.Life,
	}
	for name, r := range ranges {
		if !r.Valid() {
			return fmt.Errorf("%s range invalid: min(%.2f) > max(%.2f)", name, r.Min, r.Max)
		}
	}
	if c.Counts.FlowLines > 0 && c.FlowLines.Life.Min < 1 {
		return fmt.Errorf("flowLines.life must be >= 1, got %s", c.FlowLines.Life)
	}

	colors := []string{
		c.Background.Color,
		c.Palette.NodeCore, c.Palette.NodeMid, c.Palette.NodeEdge,
		c.Palette.EdgeFrom, c.Palette.EdgeTo,
	}
	colors = append(colors, c.Palette.FlowLines...)
	colors = append(colors, c.Palette.Nebulae...)
	for _, hex := range colors {
		if _, err := render.ParseColor(hex); err != nil {
			return err
		}
	}
	if c.Counts.FlowLines > 0 && len(c.Palette.FlowLines) == 0 {
		return fmt.Errorf("palette.flowLines must not be empty when flow lines are enabled")
	}
	if c.Counts.NebulaePerSide > 0 && len(c.Palette.Nebulae) == 0 {
		return fmt.Errorf("palette.nebulae must not be empty when nebulae are enabled")
	}

	return nil
}

// Fade 报告是否使用半透明叠加背景
func (c *Backdrop) Fade() bool {
	return c.Background.Mode == BackgroundFade
}

// Wrap 报告节点是否使用回绕边界
func (c *Backdrop) Wrap() bool {
	return c.Boundary == BoundaryWrap
}
