package utils

import (
	"math"
	"testing"
)

// TestPulse 测试正弦脉冲的取值范围
func TestPulse(t *testing.T) {
	tests := []struct {
		name     string
		phase    float64
		amp      float64
		offset   float64
		expected float64
	}{
		{"零相位", 0, 0.5, 0.5, 0.5},
		{"波峰", math.Pi / 2, 0.5, 0.5, 1.0},
		{"波谷", 3 * math.Pi / 2, 0.5, 0.5, 0.0},
		{"星云波峰", math.Pi / 2, 0.3, 1, 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Pulse(tt.phase, tt.amp, tt.offset)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Pulse(%v, %v, %v) = %v, 期望 %v", tt.phase, tt.amp, tt.offset, result, tt.expected)
			}
		})
	}
}

// TestSineArc 测试正弦弧在生命周期两端为 0、中点为 1
func TestSineArc(t *testing.T) {
	tests := []struct {
		name     string
		life     float64
		maxLife  float64
		expected float64
	}{
		{"出生", 0, 200, 0},
		{"中点", 100, 200, 1},
		{"结束", 200, 200, 0},
		{"超出", 250, 200, 0},
		{"无效上限", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SineArc(tt.life, tt.maxLife)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("SineArc(%v, %v) = %v, 期望 %v", tt.life, tt.maxLife, result, tt.expected)
			}
		})
	}
}

// TestFadeInOut 测试线性淡入淡出
func TestFadeInOut(t *testing.T) {
	const maxLife, ramp, peak = 800.0, 100.0, 0.3

	tests := []struct {
		name     string
		life     float64
		current  float64
		expected float64
	}{
		{"出生", 0, 0.2, 0},
		{"淡入一半", 50, 0.2, 0.15},
		{"中段保持", 400, 0.2, 0.2},
		{"淡出一半", 750, 0.2, 0.15},
		{"寿命结束", 800, 0.2, 0},
		{"超出寿命不为负", 820, 0.2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FadeInOut(tt.life, maxLife, ramp, peak, tt.current)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("FadeInOut(%v) = %v, 期望 %v", tt.life, result, tt.expected)
			}
		})
	}
}

// TestWrap 测试坐标回绕始终落在 [0, limit)
func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		limit    float64
		expected float64
	}{
		{"区间内", 10, 100, 10},
		{"右侧越界", 101, 100, 1},
		{"恰好等于上限", 100, 100, 0},
		{"左侧越界", -1, 100, 99},
		{"远距离越界", -250, 100, 50},
		{"无效上限", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.v, tt.limit)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Wrap(%v, %v) = %v, 期望 %v", tt.v, tt.limit, result, tt.expected)
			}
			if tt.limit > 0 && (result < 0 || result >= tt.limit) {
				t.Errorf("Wrap(%v, %v) = %v 不在 [0, %v) 内", tt.v, tt.limit, result, tt.limit)
			}
		})
	}

	t.Run("极小负数", func(t *testing.T) {
		result := Wrap(-1e-18, 100)
		if result < 0 || result >= 100 {
			t.Errorf("Wrap(-1e-18, 100) = %v 不在区间内", result)
		}
	})
}

// TestClampAndLerp 测试 Clamp 与 Lerp
func TestClampAndLerp(t *testing.T) {
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp(-1) = %v, 期望 0", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp(11) = %v, 期望 10", got)
	}
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5) = %v, 期望 5", got)
	}
	if got := Lerp(0, 10, 0.25); got != 2.5 {
		t.Errorf("Lerp(0, 10, 0.25) = %v, 期望 2.5", got)
	}
}
