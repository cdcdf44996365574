package components

// Node 网络节点
// 背景网络中的一个发光节点，按配置的边界策略（wrap / bounce）在画布内移动。
// 节点之间距离小于阈值时由 ConnectionSystem 绘制连线。
type Node struct {
	X, Y   float64 // 位置（像素）
	VX, VY float64 // 速度（像素/帧）
	Radius float64 // 基础半径，绘制时叠加脉冲
	Phase  float64 // 脉冲相位（弧度），只增不减
}
