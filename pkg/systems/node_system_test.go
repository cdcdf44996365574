package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gonewx/martianblue/internal/particle"
	"github.com/gonewx/martianblue/pkg/components"
	"github.com/gonewx/martianblue/pkg/config"
	"github.com/gonewx/martianblue/pkg/render"
)

func testNodeConfig() config.NodeConfig {
	return config.NodeConfig{
		Speed:     particle.Range{Min: -0.25, Max: 0.25},
		Radius:    particle.Range{Min: 1, Max: 3.5},
		PhaseStep: 0.03,
	}
}

// TestUpdateNodeWrapStaysInside 回绕节点更新后始终在 [0,w)×[0,h) 内
func TestUpdateNodeWrapStaysInside(t *testing.T) {
	b := Bounds{W: 320, H: 200}
	rng := rand.New(rand.NewSource(7))

	tests := []struct {
		name string
		node components.Node
	}{
		{"右侧越界", components.Node{X: 319.9, Y: 100, VX: 0.5}},
		{"左侧越界", components.Node{X: 0.1, Y: 100, VX: -0.5}},
		{"下方越界", components.Node{X: 10, Y: 199.8, VY: 0.4}},
		{"上方越界", components.Node{X: 10, Y: 0, VY: -0.01}},
		{"恰好落在边界", components.Node{X: 319, Y: 199, VX: 1, VY: 1}},
		{"高速", components.Node{X: 5, Y: 5, VX: -700, VY: 450}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.node
			UpdateNode(&n, b, true, 0.03)
			if n.X < 0 || n.X >= b.W || n.Y < 0 || n.Y >= b.H {
				t.Errorf("节点越界: (%v, %v)", n.X, n.Y)
			}
		})
	}

	// 随机节点长时间运行
	cfg := testNodeConfig()
	for i := 0; i < 50; i++ {
		n := NewNode(rng, b, cfg)
		for step := 0; step < 2000; step++ {
			UpdateNode(&n, b, true, cfg.PhaseStep)
			if n.X < 0 || n.X >= b.W || n.Y < 0 || n.Y >= b.H {
				t.Fatalf("节点 %d 在第 %d 帧越界: (%v, %v)", i, step, n.X, n.Y)
			}
		}
	}
}

// TestUpdateNodeBounceFlipsOnce 反弹节点每次向外越界只翻转一次速度
func TestUpdateNodeBounceFlipsOnce(t *testing.T) {
	b := Bounds{W: 100, H: 100}

	tests := []struct {
		name    string
		node    components.Node
		wantVX  float64
		wantVY  float64
		wantX   float64
		wantY   float64
		flipped bool
	}{
		{"右边界向外", components.Node{X: 99.8, Y: 50, VX: 0.5}, -0.5, 0, 100, 50, true},
		{"左边界向外", components.Node{X: 0.2, Y: 50, VX: -0.5}, 0.5, 0, 0, 50, true},
		{"下边界向外", components.Node{X: 50, Y: 99.9, VY: 0.3}, 0, -0.3, 50, 100, true},
		{"边界上向内", components.Node{X: 100, Y: 50, VX: -0.5}, -0.5, 0, 99.5, 50, false},
		{"内部移动", components.Node{X: 50, Y: 50, VX: 1, VY: -1}, 1, -1, 51, 49, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.node
			UpdateNode(&n, b, false, 0.03)
			if n.VX != tt.wantVX || n.VY != tt.wantVY {
				t.Errorf("速度 = (%v, %v), 期望 (%v, %v)", n.VX, n.VY, tt.wantVX, tt.wantVY)
			}
			if math.Abs(n.X-tt.wantX) > 1e-9 || math.Abs(n.Y-tt.wantY) > 1e-9 {
				t.Errorf("位置 = (%v, %v), 期望 (%v, %v)", n.X, n.Y, tt.wantX, tt.wantY)
			}
		})
	}

	t.Run("一次越界不会连续翻转", func(t *testing.T) {
		n := components.Node{X: 99.9, Y: 50, VX: 0.3}
		flips := 0
		prev := n.VX
		for i := 0; i < 50; i++ {
			UpdateNode(&n, b, false, 0.03)
			if n.VX != prev {
				flips++
				prev = n.VX
			}
			if n.X < 0 || n.X > b.W {
				t.Fatalf("反弹节点越界: %v", n.X)
			}
		}
		if flips != 1 {
			t.Errorf("翻转次数 = %d, 期望 1", flips)
		}
	})
}

// TestUpdateNodePhaseMonotonic 相位只增不减
func TestUpdateNodePhaseMonotonic(t *testing.T) {
	n := components.Node{X: 10, Y: 10, Phase: 1}
	for i := 0; i < 10; i++ {
		before := n.Phase
		UpdateNode(&n, Bounds{W: 100, H: 100}, false, 0.03)
		if n.Phase <= before {
			t.Fatalf("相位没有增加: %v -> %v", before, n.Phase)
		}
	}
	if math.Abs(n.Phase-1.3) > 1e-9 {
		t.Errorf("10 帧后相位 = %v, 期望 1.3", n.Phase)
	}
}

// TestNewNodeDeterministic 相同种子生成相同节点
func TestNewNodeDeterministic(t *testing.T) {
	b := Bounds{W: 800, H: 600}
	cfg := testNodeConfig()
	a := NewNode(rand.New(rand.NewSource(42)), b, cfg)
	c := NewNode(rand.New(rand.NewSource(42)), b, cfg)
	if a != c {
		t.Errorf("相同种子得到不同节点: %+v vs %+v", a, c)
	}
	if a.Radius < 1 || a.Radius > 3.5 {
		t.Errorf("半径超出范围: %v", a.Radius)
	}
	if math.Abs(a.VX) > 0.25 || math.Abs(a.VY) > 0.25 {
		t.Errorf("速度超出范围: (%v, %v)", a.VX, a.VY)
	}
}

// TestDrawNode 节点绘制：柔光 + 核心两次径向渐变
func TestDrawNode(t *testing.T) {
	rec := render.NewRecorder(100, 100)
	n := components.Node{X: 10, Y: 20, Radius: 2, Phase: math.Pi / 2}
	p := NodePalette{
		Core: render.MustParseColor("#00ffff"),
		Mid:  render.MustParseColor("#00d4ff"),
		Edge: render.MustParseColor("#00b4d8"),
	}
	DrawNode(rec, &n, p)

	ops := rec.Ops()
	if len(ops) != 2 {
		t.Fatalf("期望 2 个绘制操作, 实际 %d", len(ops))
	}
	core := ops[1]
	// 脉冲为 1 时半径 = 2 + 1.5
	if math.Abs(core.R-3.5) > 1e-9 {
		t.Errorf("核心半径 = %v, 期望 3.5", core.R)
	}
	if math.Abs(core.Alpha-1.0) > 1e-9 {
		t.Errorf("核心透明度 = %v, 期望 1.0", core.Alpha)
	}
	if ops[0].R <= core.R {
		t.Errorf("柔光半径 %v 应大于核心半径 %v", ops[0].R, core.R)
	}
}
