package systems

import (
	"math"

	"github.com/gonewx/martianblue/pkg/components"
	"github.com/gonewx/martianblue/pkg/render"
)

// EdgeStyle 连线参数
type EdgeStyle struct {
	Threshold float64 // 距离阈值，d >= Threshold 时不连线
	Base      float64 // d = 0 时的不透明度
	Width     float64
	From, To  render.Color // 渐变两端颜色（透明度由距离决定）
}

// EdgeOpacity 连线不透明度 = (1 - d/threshold) × base
// d >= threshold 时返回 0，对 d 单调不增
func EdgeOpacity(d, threshold, base float64) float64 {
	if threshold <= 0 || d >= threshold {
		return 0
	}
	if d < 0 {
		d = 0
	}
	return (1 - d/threshold) * base
}

// Edge 一条待绘制的连线
type Edge struct {
	I, J     int // 节点下标，I < J
	Distance float64
	Opacity  float64
}

// EachEdge 对每个距离小于阈值的无序节点对调用 fn
// 暴力 O(n²) 扫描，节点数由配置限定在几十个以内
func EachEdge(nodes []components.Node, threshold, base float64, fn func(Edge)) {
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			d := math.Hypot(nodes[i].X-nodes[j].X, nodes[i].Y-nodes[j].Y)
			if d >= threshold {
				continue
			}
			fn(Edge{I: i, J: j, Distance: d, Opacity: EdgeOpacity(d, threshold, base)})
		}
	}
}

// DrawConnections 绘制所有连线，返回绘制的条数
func DrawConnections(s render.Surface, nodes []components.Node, st EdgeStyle) int {
	count := 0
	EachEdge(nodes, st.Threshold, st.Base, func(e Edge) {
		if e.Opacity <= 0 {
			return
		}
		a, b := &nodes[e.I], &nodes[e.J]
		s.StrokeLine(a.X, a.Y, b.X, b.Y, st.Width, render.Linear(a.X, a.Y, b.X, b.Y,
			render.Stop(0, st.From.WithAlpha(e.Opacity)),
			render.Stop(1, st.To.WithAlpha(e.Opacity)),
		))
		count++
	})
	return count
}
