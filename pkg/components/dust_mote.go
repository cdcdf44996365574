package components

// DustMote 火星尘埃
// 从画布四边之一进入，生命周期前后各 100 帧线性淡入/淡出。
type DustMote struct {
	X, Y    float64
	VX, VY  float64
	Size    float64
	Opacity float64
	Life    int
	MaxLife int
}
