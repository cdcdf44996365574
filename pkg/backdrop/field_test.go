package backdrop

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gonewx/martianblue/pkg/config"
	"github.com/gonewx/martianblue/pkg/render"
)

func testConfig(mutate func(*config.Backdrop)) *config.Backdrop {
	cfg := config.DefaultBackdrop()
	cfg.Name = "test"
	if mutate != nil {
		mutate(&cfg)
	}
	return &cfg
}

func marsConfig() *config.Backdrop {
	return testConfig(func(c *config.Backdrop) {
		c.Counts = config.CountsConfig{
			Nodes:            10,
			Stars:            200,
			NebulaePerSide:   8,
			FlowLines:        4,
			DistantBodies:    2,
			MaxShootingStars: 3,
			MaxDust:          60,
		}
	})
}

// TestFieldPopulate 固定数量的实体在构造时一次生成
func TestFieldPopulate(t *testing.T) {
	f := NewField(marsConfig(), 1280, 720, 1)
	s := f.Stats()

	want := Stats{Nodes: 10, Stars: 200, Nebulae: 16, FlowLines: 4, DistantBodies: 2}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("初始统计不符 (-want +got):\n%s", diff)
	}
}

// TestFieldTransientCaps 流星和尘埃数量不超过上限
func TestFieldTransientCaps(t *testing.T) {
	cfg := marsConfig()
	// 提高生成概率，尽快触达上限
	cfg.Spawn.ShootingStarChance = 1
	cfg.Spawn.DustChance = 1
	f := NewField(cfg, 1280, 720, 2)

	sawFullDust := false
	for i := 0; i < 1500; i++ {
		f.Update()
		s := f.Stats()
		if s.ShootingStars > 3 {
			t.Fatalf("第 %d 帧流星数 %d 超过上限 3", i, s.ShootingStars)
		}
		if s.Dust > 60 {
			t.Fatalf("第 %d 帧尘埃数 %d 超过上限 60", i, s.Dust)
		}
		if s.Dust == 60 {
			sawFullDust = true
		}
	}
	if !sawFullDust {
		t.Error("概率为 1 时尘埃应达到上限")
	}
	if f.Stats().Frames != 1500 {
		t.Errorf("Frames = %d, 期望 1500", f.Stats().Frames)
	}
}

// TestFieldDeterministic 相同种子得到相同轨迹
func TestFieldDeterministic(t *testing.T) {
	a := NewField(marsConfig(), 800, 600, 99)
	b := NewField(marsConfig(), 800, 600, 99)
	for i := 0; i < 300; i++ {
		a.Update()
		b.Update()
	}
	if diff := cmp.Diff(a.Nodes(), b.Nodes()); diff != "" {
		t.Errorf("相同种子的节点轨迹不同:\n%s", diff)
	}
	if diff := cmp.Diff(a.Stats(), b.Stats()); diff != "" {
		t.Errorf("相同种子的统计不同:\n%s", diff)
	}

	c := NewField(marsConfig(), 800, 600, 100)
	if cmp.Equal(a.Nodes()[0], c.Nodes()[0]) {
		t.Error("不同种子应得到不同节点")
	}
}

// TestFieldDrawLayerOrder 绘制顺序遵循固定层序
func TestFieldDrawLayerOrder(t *testing.T) {
	cfg := marsConfig()
	cfg.Spawn.ShootingStarChance = 1
	cfg.Spawn.DustChance = 1
	f := NewField(cfg, 800, 600, 5)
	for i := 0; i < 20; i++ {
		f.Update()
	}

	rec := render.NewRecorder(800, 600)
	f.Draw(rec)

	rank := make(map[string]int, len(Layers))
	for i, l := range Layers {
		rank[l] = i
	}
	seen := map[string]bool{}
	last := -1
	for i, op := range rec.Ops() {
		r, ok := rank[op.Tag]
		if !ok {
			t.Fatalf("操作 %d 没有层标记: %+v", i, op)
		}
		if r < last {
			t.Fatalf("操作 %d 属于层 %q，出现在更靠后的层之后", i, op.Tag)
		}
		last = r
		seen[op.Tag] = true
	}
	for _, l := range []string{LayerBackground, LayerNebulae, LayerStars, LayerNodes, LayerFlowLines, LayerShootingStars, LayerDust, LayerDistantBodies} {
		if !seen[l] {
			t.Errorf("层 %q 没有任何绘制操作", l)
		}
	}
}

// TestFieldBackgroundModes clear 模式先清屏，fade 模式只叠加半透明矩形
func TestFieldBackgroundModes(t *testing.T) {
	t.Run("clear", func(t *testing.T) {
		f := NewField(testConfig(nil), 100, 100, 1)
		rec := render.NewRecorder(100, 100)
		f.Draw(rec)
		ops := rec.Ops()
		if ops[0].Kind != render.OpClear {
			t.Errorf("第一个操作 = %v, 期望 clear", ops[0].Kind)
		}
		if ops[1].Kind != render.OpFillRect || ops[1].Alpha != 1 {
			t.Errorf("第二个操作应为不透明背景: %+v", ops[1])
		}
	})

	t.Run("fade", func(t *testing.T) {
		cfg := testConfig(func(c *config.Backdrop) {
			c.Background.Mode = config.BackgroundFade
			c.Background.FadeAlpha = 0.1
		})
		f := NewField(cfg, 100, 100, 1)
		rec := render.NewRecorder(100, 100)
		f.Draw(rec)
		if rec.Count(render.OpClear) != 0 {
			t.Error("fade 模式不应清屏")
		}
		op := rec.Ops()[0]
		if op.Kind != render.OpFillRect || op.Alpha != 0.1 {
			t.Errorf("第一个操作应为半透明矩形: %+v", op)
		}
	})
}

// TestFieldResize 调整尺寸不重置节点位置，远景天体重新锚定
func TestFieldResize(t *testing.T) {
	f := NewField(marsConfig(), 1200, 800, 3)
	before := append([]struct{ X, Y float64 }{}, nodePositions(f)...)

	f.Resize(600, 400)

	if diff := cmp.Diff(before, nodePositions(f)); diff != "" {
		t.Errorf("调整尺寸后节点位置被修改:\n%s", diff)
	}
	if b := f.Bounds(); b.W != 600 || b.H != 400 {
		t.Errorf("Bounds = %+v", b)
	}
	br := f.bodies.Items()[1]
	if br.BaseX != 520 || br.BaseY != 280 {
		t.Errorf("右下角天体基准点 = (%v, %v), 期望 (520, 280)", br.BaseX, br.BaseY)
	}

	// 回绕节点在下一帧回到新边界内
	cfg := f.cfg
	cfg.Boundary = config.BoundaryWrap
	f.Update()
	for _, n := range f.Nodes() {
		if n.X < 0 || n.X >= 600 || n.Y < 0 || n.Y >= 400 {
			t.Errorf("节点没有回到新边界内: (%v, %v)", n.X, n.Y)
		}
	}
}

func nodePositions(f *Field) []struct{ X, Y float64 } {
	out := make([]struct{ X, Y float64 }, 0, f.nodes.Len())
	for _, n := range f.Nodes() {
		out = append(out, struct{ X, Y float64 }{n.X, n.Y})
	}
	return out
}
