package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// gradientBands is how many concentric discs approximate a radial gradient.
// ebiten 的 vector 包没有渐变填充，用同心圆分层近似
const gradientBands = 8

// lineSegments is how many sub-segments approximate a gradient stroke.
const lineSegments = 4

// EbitenSurface draws onto an offscreen *ebiten.Image. The host copies the
// image onto the screen in its Draw callback.
type EbitenSurface struct {
	img *ebiten.Image
}

// NewEbitenSurface allocates an offscreen image of the given size.
func NewEbitenSurface(width, height int) *EbitenSurface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &EbitenSurface{img: ebiten.NewImage(width, height)}
}

// Image returns the offscreen image.
func (s *EbitenSurface) Image() *ebiten.Image {
	return s.img
}

// SetSize reallocates the offscreen image when the size changes.
func (s *EbitenSurface) SetSize(width, height int) {
	if width < 1 || height < 1 {
		return
	}
	b := s.img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return
	}
	s.img.Deallocate()
	s.img = ebiten.NewImage(width, height)
}

// Size implements Surface.
func (s *EbitenSurface) Size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Clear implements Surface.
func (s *EbitenSurface) Clear() {
	s.img.Clear()
}

// FillRect implements Surface.
func (s *EbitenSurface) FillRect(x, y, w, h float64, c Color) {
	if c.A <= 0 {
		return
	}
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), toNRGBA(c), false)
}

// FillCircle implements Surface.
func (s *EbitenSurface) FillCircle(cx, cy, r float64, c Color) {
	if c.A <= 0 || r <= 0 {
		return
	}
	vector.DrawFilledCircle(s.img, float32(cx), float32(cy), float32(r), toNRGBA(c), true)
}

// FillCircleGradient implements Surface.
func (s *EbitenSurface) FillCircleGradient(cx, cy, r float64, g RadialGradient) {
	if r <= 0 || MaxAlpha(g.Stops) <= 0 {
		return
	}
	// 由外向内绘制，每层只承担自己那一段的不透明度，叠加后接近目标值
	for i := gradientBands; i >= 1; i-- {
		t := float64(i) / gradientBands
		c := At(g.Stops, t*r/g.radius(r))
		c.A /= gradientBands / 2
		s.FillCircle(cx, cy, r*t, c)
	}
}

// FillRectGradient implements Surface.
func (s *EbitenSurface) FillRectGradient(x, y, w, h float64, g RadialGradient) {
	if len(g.Stops) == 0 {
		return
	}
	if outer := g.Stops[len(g.Stops)-1].Color; outer.A > 0 {
		s.FillRect(x, y, w, h, outer)
	}
	s.FillCircleGradient(g.CX, g.CY, g.R, g)
}

// StrokeLine implements Surface.
func (s *EbitenSurface) StrokeLine(x0, y0, x1, y1, width float64, g LinearGradient) {
	if MaxAlpha(g.Stops) <= 0 {
		return
	}
	dx, dy := (x1-x0)/lineSegments, (y1-y0)/lineSegments
	for i := 0; i < lineSegments; i++ {
		t := (float64(i) + 0.5) / lineSegments
		c := At(g.Stops, t)
		if c.A <= 0 {
			continue
		}
		ax, ay := x0+dx*float64(i), y0+dy*float64(i)
		vector.StrokeLine(s.img, float32(ax), float32(ay), float32(ax+dx), float32(ay+dy), float32(width), toNRGBA(c), true)
	}
}

func (g RadialGradient) radius(fallback float64) float64 {
	if g.R > 0 {
		return g.R
	}
	return fallback
}

func toNRGBA(c Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clamp01(c.A)*255 + 0.5)}
}

var _ Surface = (*EbitenSurface)(nil)
