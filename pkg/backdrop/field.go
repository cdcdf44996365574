// Package backdrop 页面背景动画：实体集合（Field）与帧驱动（Driver）
//
// Field 持有一帧的全部实体并负责更新和按层绘制；
// Driver 管理 Field 的生命周期，把它挂到画布、视口和调度器上。
package backdrop

import (
	"math/rand"

	"github.com/gonewx/martianblue/pkg/components"
	"github.com/gonewx/martianblue/pkg/config"
	"github.com/gonewx/martianblue/pkg/ecs"
	"github.com/gonewx/martianblue/pkg/render"
	"github.com/gonewx/martianblue/pkg/systems"
)

// 绘制层名，按绘制顺序排列
const (
	LayerBackground    = "background"
	LayerNebulae       = "nebulae"
	LayerStars         = "stars"
	LayerNodes         = "nodes"
	LayerEdges         = "edges"
	LayerFlowLines     = "flowLines"
	LayerShootingStars = "shootingStars"
	LayerDust          = "dust"
	LayerDistantBodies = "distantBodies"
)

// Layers 绘制顺序
var Layers = []string{
	LayerBackground,
	LayerNebulae,
	LayerStars,
	LayerNodes,
	LayerEdges,
	LayerFlowLines,
	LayerShootingStars,
	LayerDust,
	LayerDistantBodies,
}

// tagger 由 render.Recorder 实现，用于在测试中标记每个绘制操作所属的层
type tagger interface {
	Tag(string)
}

// palette 预先解析好的颜色
type palette struct {
	background render.Color
	nodes      systems.NodePalette
	edgeFrom   render.Color
	edgeTo     render.Color
	flowLines  []render.Color
	nebulae    []render.Color
}

func resolvePalette(cfg *config.Backdrop) palette {
	p := palette{
		background: render.MustParseColor(cfg.Background.Color),
		nodes: systems.NodePalette{
			Core: render.MustParseColor(cfg.Palette.NodeCore),
			Mid:  render.MustParseColor(cfg.Palette.NodeMid),
			Edge: render.MustParseColor(cfg.Palette.NodeEdge),
		},
		edgeFrom: render.MustParseColor(cfg.Palette.EdgeFrom),
		edgeTo:   render.MustParseColor(cfg.Palette.EdgeTo),
	}
	for _, hex := range cfg.Palette.FlowLines {
		p.flowLines = append(p.flowLines, render.MustParseColor(hex))
	}
	for _, hex := range cfg.Palette.Nebulae {
		p.nebulae = append(p.nebulae, render.MustParseColor(hex))
	}
	return p
}

// Stats 一帧结束时的实体统计
type Stats struct {
	Frames        uint64 `json:"frames"`
	Nodes         int    `json:"nodes"`
	Edges         int    `json:"edges"`
	FlowLines     int    `json:"flowLines"`
	Stars         int    `json:"stars"`
	Nebulae       int    `json:"nebulae"`
	ShootingStars int    `json:"shootingStars"`
	Dust          int    `json:"dust"`
	DistantBodies int    `json:"distantBodies"`
	Respawns      int    `json:"respawns"` // 累计流光线段重置次数
}

// Field 背景动画的实体集合
//
// 固定数量的实体（节点、星点、星云、流光、远景天体）在构造时一次生成；
// 流星和尘埃每帧按概率生成，数量受上限约束。
// Field 不是并发安全的，由 Driver 的互斥锁保护。
type Field struct {
	cfg     *config.Backdrop
	pal     palette
	rng     *rand.Rand // 模拟用随机数：生成、重置
	drawRng *rand.Rand // 绘制用随机数：远景天体纹理点，不影响模拟轨迹
	bounds  systems.Bounds

	nodes         *ecs.Pool[components.Node]
	flowLines     *ecs.Pool[components.FlowLine]
	stars         *ecs.Pool[components.Star]
	nebulae       *ecs.Pool[components.Nebula]
	shootingStars *ecs.Pool[components.ShootingStar]
	dust          *ecs.Pool[components.DustMote]
	bodies        *ecs.Pool[components.DistantBody]

	frames    uint64
	lastEdges int
	respawns  int
}

// NewField 按配置生成实体集合
// cfg 必须已通过 Validate；相同 seed 与尺寸得到相同的轨迹
func NewField(cfg *config.Backdrop, width, height float64, seed int64) *Field {
	f := &Field{
		cfg:     cfg,
		pal:     resolvePalette(cfg),
		rng:     rand.New(rand.NewSource(seed)),
		drawRng: rand.New(rand.NewSource(seed ^ 0x5eed)),
		bounds:  systems.Bounds{W: width, H: height},

		nodes:         ecs.NewPool[components.Node](cfg.Counts.Nodes, cfg.Counts.Nodes),
		flowLines:     ecs.NewPool[components.FlowLine](cfg.Counts.FlowLines, cfg.Counts.FlowLines),
		stars:         ecs.NewPool[components.Star](cfg.Counts.Stars, cfg.Counts.Stars),
		nebulae:       ecs.NewPool[components.Nebula](cfg.Counts.NebulaePerSide*2, cfg.Counts.NebulaePerSide*2),
		shootingStars: ecs.NewPool[components.ShootingStar](cfg.Counts.MaxShootingStars, cfg.Counts.MaxShootingStars),
		dust:          ecs.NewPool[components.DustMote](cfg.Counts.MaxDust, cfg.Counts.MaxDust),
		bodies:        ecs.NewPool[components.DistantBody](cfg.Counts.DistantBodies, cfg.Counts.DistantBodies),
	}
	f.populate()
	return f
}

func (f *Field) populate() {
	cfg := f.cfg
	for i := 0; i < cfg.Counts.Nodes; i++ {
		*f.nodes.Spawn() = systems.NewNode(f.rng, f.bounds, cfg.Nodes)
	}
	for i := 0; i < cfg.Counts.Stars; i++ {
		*f.stars.Spawn() = systems.NewStar(f.rng, f.bounds)
	}
	for _, side := range []systems.Side{systems.SideLeft, systems.SideRight} {
		for i := 0; i < cfg.Counts.NebulaePerSide; i++ {
			*f.nebulae.Spawn() = systems.NewNebula(f.rng, f.bounds, side, f.pal.nebulae)
		}
	}
	for i := 0; i < cfg.Counts.FlowLines; i++ {
		systems.SpawnFlowLine(f.flowLines.Spawn(), f.rng, f.bounds, cfg.FlowLines, f.pal.flowLines)
	}
	for i := 0; i < cfg.Counts.DistantBodies; i++ {
		*f.bodies.Spawn() = systems.NewDistantBody(f.rng, f.bounds, systems.CornerFor(i))
	}
}

// Bounds 返回当前画布尺寸
func (f *Field) Bounds() systems.Bounds {
	return f.bounds
}

// Resize 更新画布尺寸
// 实体位置不重置，由各自的边界策略在后续帧中修正；远景天体重新锚定角落
func (f *Field) Resize(width, height float64) {
	f.bounds = systems.Bounds{W: width, H: height}
	f.bodies.Each(func(_ int, d *components.DistantBody) {
		systems.ReanchorDistantBody(d, f.bounds)
	})
}

// Update 推进一帧
func (f *Field) Update() {
	cfg := f.cfg
	b := f.bounds

	f.nodes.Each(func(_ int, n *components.Node) {
		systems.UpdateNode(n, b, cfg.Wrap(), cfg.Nodes.PhaseStep)
	})
	f.flowLines.Each(func(_ int, l *components.FlowLine) {
		if systems.UpdateFlowLine(l, f.rng, b, cfg.FlowLines, f.pal.flowLines) {
			f.respawns++
		}
	})
	f.stars.Each(func(_ int, st *components.Star) {
		systems.UpdateStar(st)
	})
	f.nebulae.Each(func(_ int, n *components.Nebula) {
		systems.UpdateNebula(n, b)
	})

	// 流星：先按概率生成，再统一更新，透明度耗尽的移除
	if cfg.Counts.MaxShootingStars > 0 && f.rng.Float64() < cfg.Spawn.ShootingStarChance {
		if ss := f.shootingStars.Spawn(); ss != nil {
			systems.SpawnShootingStar(ss, f.rng, b)
		}
	}
	f.shootingStars.Each(func(_ int, ss *components.ShootingStar) {
		systems.UpdateShootingStar(ss)
	})
	f.shootingStars.RemoveIf(systems.ShootingStarDead)

	if cfg.Counts.MaxDust > 0 && f.rng.Float64() < cfg.Spawn.DustChance {
		if d := f.dust.Spawn(); d != nil {
			systems.SpawnDust(d, f.rng, b)
		}
	}
	f.dust.Each(func(_ int, d *components.DustMote) {
		systems.UpdateDust(d)
	})
	f.dust.RemoveIf(func(d *components.DustMote) bool {
		return systems.DustDead(d, b)
	})

	f.bodies.Each(func(_ int, d *components.DistantBody) {
		systems.UpdateDistantBody(d)
	})

	f.frames++
}

// Draw 按固定层序绘制：
// 背景 → 星云 → 星点 → 节点 → 连线 → 流光 → 流星 → 尘埃 → 远景天体
func (f *Field) Draw(s render.Surface) {
	tag := func(string) {}
	if t, ok := s.(tagger); ok {
		tag = t.Tag
	}
	cfg := f.cfg

	tag(LayerBackground)
	w, h := s.Size()
	if cfg.Fade() {
		s.FillRect(0, 0, w, h, f.pal.background.WithAlpha(cfg.Background.FadeAlpha))
	} else {
		s.Clear()
		s.FillRect(0, 0, w, h, f.pal.background)
	}

	tag(LayerNebulae)
	f.nebulae.Each(func(_ int, n *components.Nebula) {
		systems.DrawNebula(s, n)
	})

	tag(LayerStars)
	f.stars.Each(func(_ int, st *components.Star) {
		systems.DrawStar(s, st)
	})

	tag(LayerNodes)
	f.nodes.Each(func(_ int, n *components.Node) {
		systems.DrawNode(s, n, f.pal.nodes)
	})

	tag(LayerEdges)
	f.lastEdges = systems.DrawConnections(s, f.nodes.Items(), systems.EdgeStyle{
		Threshold: cfg.Connections.Threshold,
		Base:      cfg.Connections.BaseOpacity,
		Width:     cfg.Connections.Width,
		From:      f.pal.edgeFrom,
		To:        f.pal.edgeTo,
	})

	tag(LayerFlowLines)
	f.flowLines.Each(func(_ int, l *components.FlowLine) {
		systems.DrawFlowLine(s, l, cfg.FlowLines.BaseOpacity)
	})

	tag(LayerShootingStars)
	f.shootingStars.Each(func(_ int, ss *components.ShootingStar) {
		systems.DrawShootingStar(s, ss)
	})

	tag(LayerDust)
	f.dust.Each(func(_ int, d *components.DustMote) {
		systems.DrawDust(s, d)
	})

	tag(LayerDistantBodies)
	f.bodies.Each(func(_ int, d *components.DistantBody) {
		systems.DrawDistantBody(s, d, f.drawRng)
	})

	tag("")
}

// Release 清空所有实体池，之后 Field 不再使用
func (f *Field) Release() {
	f.nodes.Reset()
	f.flowLines.Reset()
	f.stars.Reset()
	f.nebulae.Reset()
	f.shootingStars.Reset()
	f.dust.Reset()
	f.bodies.Reset()
}

// Nodes 返回节点切片（只读视图，下一帧前有效）
func (f *Field) Nodes() []components.Node {
	return f.nodes.Items()
}

// Stats 返回当前统计
func (f *Field) Stats() Stats {
	return Stats{
		Frames:        f.frames,
		Nodes:         f.nodes.Len(),
		Edges:         f.lastEdges,
		FlowLines:     f.flowLines.Len(),
		Stars:         f.stars.Len(),
		Nebulae:       f.nebulae.Len(),
		ShootingStars: f.shootingStars.Len(),
		Dust:          f.dust.Len(),
		DistantBodies: f.bodies.Len(),
		Respawns:      f.respawns,
	}
}
