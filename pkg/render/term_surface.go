package render

import (
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Virtual pixel size of one terminal cell. A cell is roughly twice as tall
// as it is wide, so the backdrop keeps its proportions.
const (
	CellWidth  = 8
	CellHeight = 16
)

// glyphFloor is the intensity under which a glyph is dropped from a cell.
const glyphFloor = 0.05

type termCell struct {
	bg        Color
	fg        Color
	ch        rune
	intensity float64
}

// TermSurface rasterises drawing calls onto a tcell screen. Discs smaller
// than a cell become glyphs; larger fills blend the cell background.
// Flush pushes the buffer to the screen.
type TermSurface struct {
	mu         sync.Mutex
	screen     tcell.Screen
	background Color
	cols, rows int
	cells      []termCell
}

// NewTermSurface wraps an initialised screen. background is what Clear
// resets cells to.
func NewTermSurface(screen tcell.Screen, background Color) *TermSurface {
	s := &TermSurface{screen: screen, background: background.WithAlpha(1)}
	cols, rows := screen.Size()
	s.resize(cols, rows)
	return s
}

// ViewportSize reports the screen in virtual pixels.
func (s *TermSurface) ViewportSize() (int, int) {
	cols, rows := s.screen.Size()
	return cols * CellWidth, rows * CellHeight
}

// SetSize resizes the cell buffer to cover width×height virtual pixels.
func (s *TermSurface) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resize(width/CellWidth, height/CellHeight)
}

func (s *TermSurface) resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols == s.cols && rows == s.rows {
		return
	}
	s.cols, s.rows = cols, rows
	s.cells = make([]termCell, cols*rows)
	s.clearLocked()
}

// Size implements Surface.
func (s *TermSurface) Size() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.cols * CellWidth), float64(s.rows * CellHeight)
}

// Clear implements Surface.
func (s *TermSurface) Clear() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
}

func (s *TermSurface) clearLocked() {
	for i := range s.cells {
		s.cells[i] = termCell{bg: s.background, fg: s.background, ch: ' '}
	}
}

// FillRect implements Surface. Translucent fills also fade glyphs, which is
// how the motion-trail overlay shows up in a terminal.
func (s *TermSurface) FillRect(x, y, w, h float64, c Color) {
	if c.A <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eachCell(x, y, x+w, y+h, func(cell *termCell, _, _ float64) {
		cell.bg = blendOpaque(cell.bg, c, c.A)
		cell.intensity *= 1 - c.A
		if cell.intensity < glyphFloor {
			cell.ch = ' '
			cell.intensity = 0
		}
	})
}

// FillCircle implements Surface.
func (s *TermSurface) FillCircle(cx, cy, r float64, c Color) {
	s.FillCircleGradient(cx, cy, r, Radial(cx, cy, r, Stop(0, c), Stop(1, c)))
}

// FillCircleGradient implements Surface.
func (s *TermSurface) FillCircleGradient(cx, cy, r float64, g RadialGradient) {
	if r <= 0 || MaxAlpha(g.Stops) <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if r*2 < CellWidth {
		s.glyphLocked(cx, cy, '•', At(g.Stops, 0))
		return
	}
	s.eachCell(cx-r, cy-r, cx+r, cy+r, func(cell *termCell, px, py float64) {
		d := math.Hypot(px-cx, py-cy)
		if d > r {
			return
		}
		col := At(g.Stops, d/r)
		cell.bg = blendOpaque(cell.bg, col, col.A)
	})
}

// FillRectGradient implements Surface.
func (s *TermSurface) FillRectGradient(x, y, w, h float64, g RadialGradient) {
	if g.R <= 0 || MaxAlpha(g.Stops) <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eachCell(x, y, x+w, y+h, func(cell *termCell, px, py float64) {
		col := At(g.Stops, math.Hypot(px-g.CX, py-g.CY)/g.R)
		cell.bg = blendOpaque(cell.bg, col, col.A)
	})
}

// StrokeLine implements Surface.
func (s *TermSurface) StrokeLine(x0, y0, x1, y1, _ float64, g LinearGradient) {
	if MaxAlpha(g.Stops) <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c0, r0 := int(x0/CellWidth), int(y0/CellHeight)
	c1, r1 := int(x1/CellWidth), int(y1/CellHeight)
	steps := max(abs(c1-c0), abs(r1-r0))
	if steps == 0 {
		s.glyphLocked(x0, y0, '·', At(g.Stops, 0))
		return
	}
	// Bresenham 在单元格网格上的简化版本：按最长轴等距采样
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.glyphLocked(x0+(x1-x0)*t, y0+(y1-y0)*t, '·', At(g.Stops, t))
	}
}

// Flush writes the buffer to the screen and shows it.
func (s *TermSurface) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			cell := s.cells[row*s.cols+col]
			style := tcell.StyleDefault.
				Background(toTcell(cell.bg)).
				Foreground(toTcell(cell.fg))
			s.screen.SetContent(col, row, cell.ch, nil, style)
		}
	}
	s.screen.Show()
}

// CellAt returns the rune and colours of a cell, for tests and debugging.
func (s *TermSurface) CellAt(col, row int) (rune, Color, Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return 0, Color{}, Color{}
	}
	c := s.cells[row*s.cols+col]
	return c.ch, c.fg, c.bg
}

func (s *TermSurface) glyphLocked(x, y float64, ch rune, c Color) {
	col, row := int(math.Floor(x/CellWidth)), int(math.Floor(y/CellHeight))
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows || c.A <= 0 {
		return
	}
	cell := &s.cells[row*s.cols+col]
	// 更亮的字形覆盖更暗的字形
	if c.A < cell.intensity {
		return
	}
	cell.ch = ch
	cell.fg = blendOpaque(cell.bg, c, math.Min(1, c.A*2))
	cell.intensity = c.A
}

// eachCell visits cells whose centres fall inside [x0,x1)×[y0,y1).
func (s *TermSurface) eachCell(x0, y0, x1, y1 float64, fn func(cell *termCell, px, py float64)) {
	c0 := max(0, int(math.Floor(x0/CellWidth)))
	r0 := max(0, int(math.Floor(y0/CellHeight)))
	c1 := min(s.cols-1, int(math.Ceil(x1/CellWidth)))
	r1 := min(s.rows-1, int(math.Ceil(y1/CellHeight)))
	for row := r0; row <= r1; row++ {
		py := (float64(row) + 0.5) * CellHeight
		if py < y0 || py >= y1 {
			continue
		}
		for col := c0; col <= c1; col++ {
			px := (float64(col) + 0.5) * CellWidth
			if px < x0 || px >= x1 {
				continue
			}
			fn(&s.cells[row*s.cols+col], px, py)
		}
	}
}

func blendOpaque(dst, src Color, alpha float64) Color {
	out := Lerp(dst.WithAlpha(1), src.WithAlpha(1), alpha)
	out.A = 1
	return out
}

func toTcell(c Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ Surface = (*TermSurface)(nil)
