// Package render defines the 2D drawing surface the backdrop paints onto and
// provides concrete surfaces for an ebiten window, a terminal and tests.
package render

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gonewx/martianblue/pkg/utils"
)

// Surface is the minimal canvas contract the backdrop needs: rectangular
// fills, circular and radial-gradient fills, gradient line strokes and a clear.
//
// Coordinates are in canvas pixels with the origin in the top-left corner.
type Surface interface {
	// Size returns the current pixel dimensions.
	Size() (width, height float64)

	// Clear wipes the whole surface to fully transparent.
	Clear()

	// FillRect fills an axis-aligned rectangle with a solid colour.
	FillRect(x, y, w, h float64, c Color)

	// FillCircle fills a disc with a solid colour.
	FillCircle(cx, cy, r float64, c Color)

	// FillCircleGradient fills a disc of radius r with a radial gradient
	// centred on (cx, cy).
	FillCircleGradient(cx, cy, r float64, g RadialGradient)

	// FillRectGradient fills a rectangle with a radial gradient. Pixels past
	// the gradient's outer radius take the last stop's colour.
	FillRectGradient(x, y, w, h float64, g RadialGradient)

	// StrokeLine strokes a straight segment with a linear gradient running
	// from (x0, y0) to (x1, y1).
	StrokeLine(x0, y0, x1, y1, width float64, g LinearGradient)
}

// Color is an sRGB colour with a straight (non-premultiplied) alpha in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// RGBA builds a colour the same way CSS rgba() does.
func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: clamp01(a)}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// Scale returns c with its alpha multiplied by f.
func (c Color) Scale(f float64) Color {
	c.A = clamp01(c.A * f)
	return c
}

// String renders the colour as CSS rgba().
func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.3g)", c.R, c.G, c.B, c.A)
}

// Lerp blends a toward b by t in RGB space (alpha interpolated linearly).
func Lerp(a, b Color, t float64) Color {
	t = clamp01(t)
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	return Color{R: r, G: g, B: bl, A: utils.Lerp(a.A, b.A, t)}
}

// ParseColor parses "#rrggbb" or "#rgb" into an opaque colour.
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: 1}, nil
}

// MustParseColor is ParseColor for literals.
func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex renders the colour as #rrggbb, dropping alpha.
func (c Color) Hex() string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// GradientStop is one colour stop; Offset is in [0, 1].
type GradientStop struct {
	Offset float64
	Color  Color
}

// RadialGradient runs from its centre (offset 0) to radius R (offset 1).
type RadialGradient struct {
	CX, CY, R float64
	Stops     []GradientStop
}

// LinearGradient runs from (X0, Y0) at offset 0 to (X1, Y1) at offset 1.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []GradientStop
}

// Radial is a convenience constructor for a gradient centred at (cx, cy).
func Radial(cx, cy, r float64, stops ...GradientStop) RadialGradient {
	return RadialGradient{CX: cx, CY: cy, R: r, Stops: stops}
}

// Linear is a convenience constructor for a two-point gradient.
func Linear(x0, y0, x1, y1 float64, stops ...GradientStop) LinearGradient {
	return LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: stops}
}

// Stop builds a GradientStop.
func Stop(offset float64, c Color) GradientStop {
	return GradientStop{Offset: offset, Color: c}
}

// At samples the gradient stops at offset t.
func At(stops []GradientStop, t float64) Color {
	switch len(stops) {
	case 0:
		return Color{}
	case 1:
		return stops[0].Color
	}
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Offset {
			prev := stops[i-1]
			span := stops[i].Offset - prev.Offset
			if span <= 0 {
				return stops[i].Color
			}
			return Lerp(prev.Color, stops[i].Color, (t-prev.Offset)/span)
		}
	}
	return last.Color
}

// MaxAlpha returns the largest alpha among the stops.
func MaxAlpha(stops []GradientStop) float64 {
	m := 0.0
	for _, s := range stops {
		m = math.Max(m, s.Color.A)
	}
	return m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
