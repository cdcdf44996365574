package systems

import (
	"math/rand"

	"github.com/gonewx/martianblue/pkg/components"
	"github.com/gonewx/martianblue/pkg/render"
	"github.com/gonewx/martianblue/pkg/utils"
)

const (
	dustEntryOffset = 10  // 出生点在画布外 10px
	dustMargin      = 20  // 越出画布 20px 以上即移除
	dustFadeTicks   = 100 // 淡入/淡出帧数
	dustPeakOpacity = 0.3
)

var (
	dustInner = render.RGBA(255, 140, 80, 1)
	dustOuter = render.RGBA(200, 100, 60, 1)
)

// SpawnDust 从随机一条边进入画布的尘埃
func SpawnDust(d *components.DustMote, rng *rand.Rand, b Bounds) {
	inward := func() float64 { return 0.3 + rng.Float64()*0.3 }
	cross := func() float64 { return (rng.Float64() - 0.5) * 0.2 }

	switch side := rng.Float64(); {
	case side < 0.25: // 左
		d.X, d.Y = -dustEntryOffset, rng.Float64()*b.H
		d.VX, d.VY = inward(), cross()
	case side < 0.5: // 右
		d.X, d.Y = b.W+dustEntryOffset, rng.Float64()*b.H
		d.VX, d.VY = -inward(), cross()
	case side < 0.75: // 上
		d.X, d.Y = rng.Float64()*b.W, -dustEntryOffset
		d.VX, d.VY = cross(), inward()
	default: // 下
		d.X, d.Y = rng.Float64()*b.W, b.H+dustEntryOffset
		d.VX, d.VY = cross(), -inward()
	}

	d.Size = rng.Float64()*1.5 + 0.5
	d.Opacity = rng.Float64()*0.3 + 0.1
	d.Life = 0
	d.MaxLife = 600 + rng.Intn(400)
}

// UpdateDust 移动并按生命周期淡入淡出
func UpdateDust(d *components.DustMote) {
	d.X += d.VX
	d.Y += d.VY
	d.Life++
	d.Opacity = utils.FadeInOut(float64(d.Life), float64(d.MaxLife), dustFadeTicks, dustPeakOpacity, d.Opacity)
}

// DustDead 寿命耗尽或飘出画布
func DustDead(d *components.DustMote, b Bounds) bool {
	return d.Life >= d.MaxLife || b.Outside(d.X, d.Y, dustMargin)
}

// DrawDust 绘制橙红色尘埃
func DrawDust(s render.Surface, d *components.DustMote) {
	if d.Opacity <= 0 {
		return
	}
	s.FillCircleGradient(d.X, d.Y, d.Size, render.Radial(d.X, d.Y, d.Size,
		render.Stop(0, dustInner.WithAlpha(d.Opacity)),
		render.Stop(1, dustOuter.WithAlpha(d.Opacity*0.5)),
	))
}
