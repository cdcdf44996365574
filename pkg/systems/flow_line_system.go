package systems

import (
	"math"
	"math/rand"

	"github.com/gonewx/martianblue/pkg/components"
	"github.com/gonewx/martianblue/pkg/config"
	"github.com/gonewx/martianblue/pkg/render"
	"github.com/gonewx/martianblue/pkg/utils"
)

// flowLineMargin 线头越出画布超过该距离时重置
const flowLineMargin = 100

// SpawnFlowLine 原地重置流光线段（位置、朝向、速度、寿命随机，Life 归零）
func SpawnFlowLine(l *components.FlowLine, rng *rand.Rand, b Bounds, cfg config.FlowLineConfig, palette []render.Color) {
	l.X = rng.Float64() * b.W
	l.Y = rng.Float64() * b.H
	l.Angle = rng.Float64() * 2 * math.Pi
	l.Speed = cfg.Speed.Sample(rng)
	l.Length = cfg.Length.Sample(rng)
	l.Width = cfg.Width.Sample(rng)
	l.MaxLife = int(math.Round(cfg.Life.Sample(rng)))
	if l.MaxLife < 1 {
		l.MaxLife = 1
	}
	l.Life = 0
	if len(palette) > 0 {
		l.Color = palette[rng.Intn(len(palette))]
	}
}

// UpdateFlowLine 推进一帧；寿命耗尽或越界时重置并返回 true
func UpdateFlowLine(l *components.FlowLine, rng *rand.Rand, b Bounds, cfg config.FlowLineConfig, palette []render.Color) bool {
	l.X += math.Cos(l.Angle) * l.Speed
	l.Y += math.Sin(l.Angle) * l.Speed
	l.Life++
	if l.Life > l.MaxLife || b.Outside(l.X, l.Y, flowLineMargin) {
		SpawnFlowLine(l, rng, b, cfg, palette)
		return true
	}
	return false
}

// FlowLineOpacity 透明度 = sin(π·life/maxLife) × base
func FlowLineOpacity(l *components.FlowLine, base float64) float64 {
	return utils.SineArc(float64(l.Life), float64(l.MaxLife)) * base
}

// DrawFlowLine 从线头向后绘制渐隐的线段
func DrawFlowLine(s render.Surface, l *components.FlowLine, base float64) {
	op := FlowLineOpacity(l, base)
	if op <= 0 {
		return
	}
	tx := l.X - math.Cos(l.Angle)*l.Length
	ty := l.Y - math.Sin(l.Angle)*l.Length
	s.StrokeLine(l.X, l.Y, tx, ty, l.Width, render.Linear(l.X, l.Y, tx, ty,
		render.Stop(0, l.Color.WithAlpha(op)),
		render.Stop(1, l.Color.WithAlpha(0)),
	))
}
