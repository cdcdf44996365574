package systems

import (
	"math"
	"math/rand"

	"github.com/gonewx/martianblue/pkg/components"
	"github.com/gonewx/martianblue/pkg/render"
)

const (
	shootingStarDecay = 0.015
	shootingStarWidth = 2
	shootingStarBand  = 0.3 // 起点限制在左右两侧各 30% 宽度、上半屏
)

var (
	shootingStarHead = render.RGBA(200, 230, 255, 1)
	shootingStarTail = render.RGBA(100, 180, 255, 0)
)

// SpawnShootingStar 在左右两侧上半屏随机位置生成流星，沿约 45° 向下划过
func SpawnShootingStar(ss *components.ShootingStar, rng *rand.Rand, b Bounds) {
	offset := rng.Float64() * b.W * shootingStarBand
	if rng.Float64() < 0.5 {
		ss.X = offset
	} else {
		ss.X = b.W - offset
	}
	ss.Y = rng.Float64() * b.H * 0.5
	ss.Length = 30 + rng.Float64()*50
	ss.Speed = 3 + rng.Float64()*4
	ss.Angle = math.Pi/4 + (rng.Float64()-0.5)*0.5
	ss.Opacity = 1
	ss.Decay = shootingStarDecay
	ss.Life = 0
}

// UpdateShootingStar 沿朝向移动并衰减透明度
func UpdateShootingStar(ss *components.ShootingStar) {
	ss.X += math.Cos(ss.Angle) * ss.Speed
	ss.Y += math.Sin(ss.Angle) * ss.Speed
	ss.Opacity -= ss.Decay
	ss.Life++
}

// ShootingStarDead 透明度耗尽即移除
func ShootingStarDead(ss *components.ShootingStar) bool {
	return ss.Opacity <= 0
}

// DrawShootingStar 绘制带渐隐尾迹的流星
func DrawShootingStar(s render.Surface, ss *components.ShootingStar) {
	if ss.Opacity <= 0 {
		return
	}
	ex := ss.X - math.Cos(ss.Angle)*ss.Length
	ey := ss.Y - math.Sin(ss.Angle)*ss.Length
	s.StrokeLine(ss.X, ss.Y, ex, ey, shootingStarWidth, render.Linear(ss.X, ss.Y, ex, ey,
		render.Stop(0, shootingStarHead.WithAlpha(ss.Opacity*0.9)),
		render.Stop(1, shootingStarTail),
	))
}
