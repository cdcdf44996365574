package components

// Corner 远景天体锚定的画布角落
type Corner int

const (
	CornerTopLeft Corner = iota
	CornerBottomRight
	CornerTopRight
	CornerBottomLeft
)

var cornerNames = [...]string{
	CornerTopLeft:     "top-left",
	CornerBottomRight: "bottom-right",
	CornerTopRight:    "top-right",
	CornerBottomLeft:  "bottom-left",
}

func (c Corner) String() string {
	if c >= 0 && int(c) < len(cornerNames) {
		return cornerNames[c]
	}
	return "unknown"
}

// DistantBody 远景天体
// 锚定在某个角落的偏移位置上，围绕基准点做微小浮动。
// 画布尺寸变化时由系统重新计算 BaseX/BaseY。
type DistantBody struct {
	Corner     Corner
	BaseX      float64
	BaseY      float64
	X, Y       float64
	Size       float64
	PulsePhase float64
	FloatPhase float64
}
