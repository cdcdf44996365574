package components

import "github.com/gonewx/martianblue/pkg/render"

// Star 静止的闪烁星点
type Star struct {
	X, Y         float64
	Size         float64
	Brightness   float64 // 基础亮度 [0,1)
	TwinkleSpeed float64 // 每帧相位增量
	Phase        float64
}

// Nebula 星云
// 大尺寸径向渐变，缓慢竖直漂移，超出 ±Size 后从另一侧回绕。
type Nebula struct {
	X, Y       float64
	Size       float64
	Opacity    float64 // 中心峰值透明度
	Phase      float64
	PulseSpeed float64
	Drift      float64 // 竖直漂移速度（像素/帧）
	Color      render.Color
}

// ShootingStar 流星
// 透明度按 Decay 递减，≤0 时从池中移除。
type ShootingStar struct {
	X, Y    float64
	Length  float64
	Speed   float64
	Angle   float64
	Opacity float64
	Decay   float64
	Life    int
}
