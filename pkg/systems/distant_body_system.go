package systems

import (
	"math"
	"math/rand"

	"github.com/gonewx/martianblue/pkg/components"
	"github.com/gonewx/martianblue/pkg/render"
	"github.com/gonewx/martianblue/pkg/utils"
)

// bodyCorners 远景天体按此顺序占用角落
var bodyCorners = []components.Corner{
	components.CornerTopLeft,
	components.CornerBottomRight,
	components.CornerTopRight,
	components.CornerBottomLeft,
}

var (
	bodyStops = []render.GradientStop{
		render.Stop(0, render.RGBA(210, 125, 70, 0.25)),
		render.Stop(0.6, render.RGBA(180, 95, 55, 0.18)),
		render.Stop(1, render.RGBA(140, 70, 40, 0.08)),
	}
	bodyGlow    = render.RGBA(200, 100, 50, 0.15)
	bodyTexture = render.RGBA(120, 60, 35, 0.15)
)

// CornerFor 第 i 个远景天体所在的角落
func CornerFor(i int) components.Corner {
	return bodyCorners[i%len(bodyCorners)]
}

// CornerAnchor 角落对应的基准点
func CornerAnchor(c components.Corner, b Bounds) (float64, float64) {
	switch c {
	case components.CornerBottomRight:
		return b.W - 80, b.H - 120
	case components.CornerTopRight:
		return b.W - 100, 150
	case components.CornerBottomLeft:
		return 100, b.H - 150
	default:
		return 80, 120
	}
}

// NewDistantBody 在指定角落生成远景天体
func NewDistantBody(rng *rand.Rand, b Bounds, c components.Corner) components.DistantBody {
	d := components.DistantBody{
		Corner:     c,
		Size:       25 + rng.Float64()*15,
		PulsePhase: rng.Float64() * 2 * math.Pi,
		FloatPhase: rng.Float64() * 2 * math.Pi,
	}
	ReanchorDistantBody(&d, b)
	d.X, d.Y = d.BaseX, d.BaseY
	return d
}

// ReanchorDistantBody 画布尺寸变化后重新计算基准点
func ReanchorDistantBody(d *components.DistantBody, b Bounds) {
	d.BaseX, d.BaseY = CornerAnchor(d.Corner, b)
}

// UpdateDistantBody 围绕基准点做 ±3px 的浮动
func UpdateDistantBody(d *components.DistantBody) {
	d.PulsePhase += 0.008
	d.FloatPhase += 0.005
	d.X = d.BaseX + math.Sin(d.FloatPhase)*3
	d.Y = d.BaseY + math.Cos(d.FloatPhase*1.3)*3
}

// DistantBodyRadius 绘制半径 = size × (sin(pulse)·0.05 + 1)
func DistantBodyRadius(d *components.DistantBody) float64 {
	return d.Size * utils.Pulse(d.PulsePhase, 0.05, 1)
}

// DrawDistantBody 绘制天体本体和两个随机纹理点
// 纹理点每次绘制都重新随机，不写回记录
func DrawDistantBody(s render.Surface, d *components.DistantBody, rng *rand.Rand) {
	r := DistantBodyRadius(d)

	glow := r + 12
	s.FillCircleGradient(d.X, d.Y, glow, render.Radial(d.X, d.Y, glow,
		render.Stop(r/glow, bodyGlow),
		render.Stop(1, bodyGlow.WithAlpha(0)),
	))

	stops := make([]render.GradientStop, len(bodyStops))
	copy(stops, bodyStops)
	s.FillCircleGradient(d.X, d.Y, r, render.RadialGradient{CX: d.X, CY: d.Y, R: r, Stops: stops})

	for i := 0; i < 2; i++ {
		angle := rng.Float64() * 2 * math.Pi
		dist := rng.Float64() * r * 0.6
		s.FillCircle(d.X+math.Cos(angle)*dist, d.Y+math.Sin(angle)*dist, r*0.1, bodyTexture)
	}
}
