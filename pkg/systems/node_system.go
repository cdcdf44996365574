package systems

import (
	"math"
	"math/rand"

	"github.com/gonewx/martianblue/pkg/components"
	"github.com/gonewx/martianblue/pkg/config"
	"github.com/gonewx/martianblue/pkg/render"
	"github.com/gonewx/martianblue/pkg/utils"
)

// NodePalette 节点径向渐变的三个色标
type NodePalette struct {
	Core render.Color // 中心
	Mid  render.Color // 半径 50%
	Edge render.Color // 外缘（透明度固定为 0）
}

// NewNode 在画布内随机位置生成节点
func NewNode(rng *rand.Rand, b Bounds, cfg config.NodeConfig) components.Node {
	return components.Node{
		X:      rng.Float64() * b.W,
		Y:      rng.Float64() * b.H,
		VX:     cfg.Speed.Sample(rng),
		VY:     cfg.Speed.Sample(rng),
		Radius: cfg.Radius.Sample(rng),
		Phase:  rng.Float64() * 2 * math.Pi,
	}
}

// UpdateNode 推进节点一帧
//
// wrap:   位置对画布尺寸取模，结果始终落在 [0,w)×[0,h)
// bounce: 下一位置越出 [0,dim] 且正在向外运动时翻转该速度分量，
// 并把位置夹回边界，保证一次越界只翻转一次
func UpdateNode(n *components.Node, b Bounds, wrap bool, phaseStep float64) {
	if wrap {
		n.X = utils.Wrap(n.X+n.VX, b.W)
		n.Y = utils.Wrap(n.Y+n.VY, b.H)
	} else {
		n.X, n.VX = bounceAxis(n.X, n.VX, b.W)
		n.Y, n.VY = bounceAxis(n.Y, n.VY, b.H)
	}
	n.Phase += phaseStep
}

func bounceAxis(pos, vel, limit float64) (float64, float64) {
	next := pos + vel
	if (next < 0 && vel < 0) || (next > limit && vel > 0) {
		vel = -vel
	}
	return utils.Clamp(next, 0, limit), vel
}

// NodePulse 节点脉冲强度 [0,1]
func NodePulse(n *components.Node) float64 {
	return utils.Pulse(n.Phase, 0.5, 0.5)
}

// NodeSize 绘制半径 = 基础半径 + 1.5 × 脉冲
func NodeSize(n *components.Node) float64 {
	return n.Radius + NodePulse(n)*1.5
}

// DrawNode 绘制节点：外层柔光 + 径向渐变核心
func DrawNode(s render.Surface, n *components.Node, p NodePalette) {
	pulse := NodePulse(n)
	size := NodeSize(n)

	// 柔光半径随脉冲在 6~10px 之间变化
	glow := size + (12+pulse*8)/2
	s.FillCircleGradient(n.X, n.Y, glow, render.Radial(n.X, n.Y, glow,
		render.Stop(0, p.Mid.WithAlpha(0.25+pulse*0.1)),
		render.Stop(1, p.Mid.WithAlpha(0)),
	))

	s.FillCircleGradient(n.X, n.Y, size, render.Radial(n.X, n.Y, size,
		render.Stop(0, p.Core.WithAlpha(0.8+pulse*0.2)),
		render.Stop(0.5, p.Mid.WithAlpha(0.6+pulse*0.2)),
		render.Stop(1, p.Edge.WithAlpha(0)),
	))
}
