package systems

import (
	"math"
	"math/rand"

	"github.com/gonewx/martianblue/pkg/components"
	"github.com/gonewx/martianblue/pkg/render"
	"github.com/gonewx/martianblue/pkg/utils"
)

// Side 星云所在的画布一侧
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// nebulaSideBand 星云水平位置限制在左右两侧各 25% 宽度内
const nebulaSideBand = 0.25

// NewNebula 在指定一侧生成星云
func NewNebula(rng *rand.Rand, b Bounds, side Side, palette []render.Color) components.Nebula {
	n := components.Nebula{
		Y:          rng.Float64() * b.H,
		Size:       150 + rng.Float64()*200,
		Opacity:    0.15 + rng.Float64()*0.15,
		Phase:      rng.Float64() * 2 * math.Pi,
		PulseSpeed: 0.005 + rng.Float64()*0.005,
		Drift:      (rng.Float64() - 0.5) * 0.1,
	}
	offset := rng.Float64() * b.W * nebulaSideBand
	if side == SideLeft {
		n.X = offset
	} else {
		n.X = b.W - offset
	}
	if len(palette) > 0 {
		n.Color = palette[rng.Intn(len(palette))]
	}
	return n
}

// UpdateNebula 竖直漂移，越出 ±Size 后从另一侧进入
func UpdateNebula(n *components.Nebula, b Bounds) {
	n.Phase += n.PulseSpeed
	n.Y += n.Drift
	if n.Y < -n.Size {
		n.Y = b.H + n.Size
	}
	if n.Y > b.H+n.Size {
		n.Y = -n.Size
	}
}

// NebulaRadius 绘制半径 = size × (sin(phase)·0.3 + 1)
func NebulaRadius(n *components.Nebula) float64 {
	return n.Size * utils.Pulse(n.Phase, 0.3, 1)
}

// DrawNebula 以径向渐变填充外接正方形
func DrawNebula(s render.Surface, n *components.Nebula) {
	r := NebulaRadius(n)
	if r <= 0 || n.Opacity <= 0 {
		return
	}
	s.FillRectGradient(n.X-r, n.Y-r, r*2, r*2, render.Radial(n.X, n.Y, r,
		render.Stop(0, n.Color.WithAlpha(n.Opacity*0.4)),
		render.Stop(0.5, n.Color.WithAlpha(n.Opacity*0.2)),
		render.Stop(1, n.Color.WithAlpha(0)),
	))
}
