// Package systems 背景动画的更新与绘制逻辑
//
// 每种实体一组自由函数：NewXxx / SpawnXxx 构造，UpdateXxx 推进一帧，
// DrawXxx 绘制到 render.Surface。函数只读写传入的记录，不持有状态；
// 随机数统一由调用方传入的 *rand.Rand 提供，相同种子得到相同轨迹。
package systems

// Bounds 画布尺寸（像素）
type Bounds struct {
	W, H float64
}

// Outside 报告 (x, y) 是否越出画布超过 margin 像素
func (b Bounds) Outside(x, y, margin float64) bool {
	return x < -margin || x > b.W+margin || y < -margin || y > b.H+margin
}

// Empty 画布尚未布局（宽或高为 0）
func (b Bounds) Empty() bool {
	return b.W <= 0 || b.H <= 0
}
