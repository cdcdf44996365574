package systems

import (
	"math"
	"math/rand"

	"github.com/gonewx/martianblue/pkg/components"
	"github.com/gonewx/martianblue/pkg/render"
	"github.com/gonewx/martianblue/pkg/utils"
)

var (
	starColor     = render.RGBA(200, 220, 255, 1)
	starGlowColor = render.RGBA(150, 200, 255, 1)
)

// NewStar 随机位置生成星点
func NewStar(rng *rand.Rand, b Bounds) components.Star {
	return components.Star{
		X:            rng.Float64() * b.W,
		Y:            rng.Float64() * b.H,
		Size:         rng.Float64() * 2,
		Brightness:   rng.Float64(),
		TwinkleSpeed: 0.02 + rng.Float64()*0.03,
		Phase:        rng.Float64() * 2 * math.Pi,
	}
}

// UpdateStar 星点不移动，只推进闪烁相位
func UpdateStar(st *components.Star) {
	st.Phase += st.TwinkleSpeed
}

// StarOpacity 亮度 = brightness × (sin(phase)·0.5 + 0.5)
func StarOpacity(st *components.Star) float64 {
	return st.Brightness * utils.Pulse(st.Phase, 0.5, 0.5)
}

// DrawStar 绘制星点及其柔光
func DrawStar(s render.Surface, st *components.Star) {
	op := StarOpacity(st)
	if op <= 0 || st.Size <= 0 {
		return
	}
	glow := st.Size * 2
	s.FillCircleGradient(st.X, st.Y, glow, render.Radial(st.X, st.Y, glow,
		render.Stop(0, starGlowColor.WithAlpha(op*0.6)),
		render.Stop(1, starGlowColor.WithAlpha(0)),
	))
	s.FillCircle(st.X, st.Y, st.Size, starColor.WithAlpha(op*0.8))
}
