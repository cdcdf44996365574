package render

import "sync"

// OpKind identifies a recorded drawing call.
type OpKind int

const (
	OpClear OpKind = iota
	OpFillRect
	OpFillCircle
	OpFillCircleGradient
	OpFillRectGradient
	OpStrokeLine
)

var opNames = [...]string{
	OpClear:              "clear",
	OpFillRect:           "fillRect",
	OpFillCircle:         "fillCircle",
	OpFillCircleGradient: "fillCircleGradient",
	OpFillRectGradient:   "fillRectGradient",
	OpStrokeLine:         "strokeLine",
}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return "unknown"
}

// Op is one recorded drawing call. Unused coordinates are zero.
type Op struct {
	Kind           OpKind
	X0, Y0, X1, Y1 float64 // rect: X0,Y0 + W,H in X1,Y1; line: endpoints
	R              float64 // circle radius or stroke width
	Color          Color   // solid colour or first gradient stop
	Alpha          float64 // peak alpha of the paint
	Tag            string  // free-form label set through Tag()
}

// Recorder is a Surface that records every call instead of drawing. It is
// used for headless statistics and in tests to assert layering and alpha.
type Recorder struct {
	mu     sync.Mutex
	width  float64
	height float64
	tag    string
	ops    []Op
}

// NewRecorder creates a recorder reporting the given size.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height}
}

// SetSize changes the reported size (used as a resizable canvas).
func (r *Recorder) SetSize(width, height int) {
	r.mu.Lock()
	r.width, r.height = float64(width), float64(height)
	r.mu.Unlock()
}

// Tag labels subsequent operations until the next Tag call.
func (r *Recorder) Tag(tag string) {
	r.mu.Lock()
	r.tag = tag
	r.mu.Unlock()
}

// Ops returns a copy of the recorded operations.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Count returns how many operations of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the number of recorded operations.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops)
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.ops = r.ops[:0]
	r.mu.Unlock()
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	op.Tag = r.tag
	r.ops = append(r.ops, op)
	r.mu.Unlock()
}

// Size implements Surface.
func (r *Recorder) Size() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Clear implements Surface.
func (r *Recorder) Clear() {
	r.record(Op{Kind: OpClear})
}

// FillRect implements Surface.
func (r *Recorder) FillRect(x, y, w, h float64, c Color) {
	r.record(Op{Kind: OpFillRect, X0: x, Y0: y, X1: w, Y1: h, Color: c, Alpha: c.A})
}

// FillCircle implements Surface.
func (r *Recorder) FillCircle(cx, cy, radius float64, c Color) {
	r.record(Op{Kind: OpFillCircle, X0: cx, Y0: cy, R: radius, Color: c, Alpha: c.A})
}

// FillCircleGradient implements Surface.
func (r *Recorder) FillCircleGradient(cx, cy, radius float64, g RadialGradient) {
	r.record(Op{Kind: OpFillCircleGradient, X0: cx, Y0: cy, R: radius, Color: At(g.Stops, 0), Alpha: MaxAlpha(g.Stops)})
}

// FillRectGradient implements Surface.
func (r *Recorder) FillRectGradient(x, y, w, h float64, g RadialGradient) {
	r.record(Op{Kind: OpFillRectGradient, X0: x, Y0: y, X1: w, Y1: h, R: g.R, Color: At(g.Stops, 0), Alpha: MaxAlpha(g.Stops)})
}

// StrokeLine implements Surface.
func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, g LinearGradient) {
	r.record(Op{Kind: OpStrokeLine, X0: x0, Y0: y0, X1: x1, Y1: y1, R: width, Color: At(g.Stops, 0), Alpha: MaxAlpha(g.Stops)})
}

var _ Surface = (*Recorder)(nil)
