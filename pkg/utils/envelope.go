package utils

import "math"

// Envelope Functions (包络函数)
//
// 背景动画里的透明度和尺寸都由几种固定的曲线驱动：
// 正弦脉冲、正弦弧（生命周期内先升后降）、线性淡入淡出。
// 这些函数都是纯函数，便于在系统和测试中复用。

// Pulse 正弦脉冲
// 把 sin(phase) 从 [-1,1] 映射到 [offset-amp, offset+amp]
// 常用：Pulse(p, 0.5, 0.5) ∈ [0,1]，Pulse(p, 0.3, 1) ∈ [0.7,1.3]
func Pulse(phase, amp, offset float64) float64 {
	return math.Sin(phase)*amp + offset
}

// SineArc 正弦弧
// life 从 0 到 maxLife 时返回值从 0 升到 1 再回到 0
// 公式：f = sin(π · life / maxLife)，越界时截断为 0
func SineArc(life, maxLife float64) float64 {
	if maxLife <= 0 || life <= 0 || life >= maxLife {
		return 0
	}
	return math.Sin(math.Pi * life / maxLife)
}

// FadeInOut 线性淡入淡出
// 前 ramp 帧从 0 线性升到 peak，最后 ramp 帧线性降到 0，中间保持 current 不变
//
//	life < ramp:            peak · life / ramp
//	life > maxLife - ramp:  peak · (maxLife - life) / ramp
func FadeInOut(life, maxLife, ramp, peak, current float64) float64 {
	switch {
	case life < ramp:
		return peak * life / ramp
	case life > maxLife-ramp:
		return math.Max(0, peak*(maxLife-life)/ramp)
	}
	return current
}

// Wrap 把坐标折回 [0, limit)
// 与 JS 的 % 不同，负数也会落在区间内
func Wrap(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	v = math.Mod(v, limit)
	if v < 0 {
		v += limit
	}
	// math.Mod 对极小负数可能得到 limit 本身
	if v >= limit {
		v = 0
	}
	return v
}

// Clamp 把 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
