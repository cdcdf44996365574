package components

import "github.com/gonewx/martianblue/pkg/render"

// FlowLine 流光线段
// 沿朝向匀速前进的短线段，透明度随生命周期呈正弦起落。
// 生命周期结束或越出画布 100px 以上时原地重置（不重新分配）。
type FlowLine struct {
	X, Y    float64 // 线头位置
	Angle   float64 // 朝向（弧度）
	Speed   float64 // 像素/帧
	Length  float64
	Width   float64
	Life    int // 已存活帧数，每次更新 +1
	MaxLife int
	Color   render.Color
}
