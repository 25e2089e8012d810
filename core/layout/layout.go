// Package layout computes where the pieces of a range slider go. It reads
// the normalized selection and never changes it.
package layout

import (
	"math"

	"github.com/ingyamilmolinar/rangeslider/core/model"
)

const (
	// DefaultWidth is used when the host places no width constraint.
	DefaultWidth = 200
	// TextBandHeight is the extra height reserved for values above thumbs.
	TextBandHeight = 30
	// LabelSpacing is the minimum gap kept between the two value labels.
	LabelSpacing = 3
)

// Rect is an axis-aligned rectangle in widget-local pixels.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

func (r Rect) Dx() float64 { return r.X1 - r.X0 }
func (r Rect) Dy() float64 { return r.Y1 - r.Y0 }

// Measurer reports the rendered width of a label.
type Measurer interface {
	MeasureText(s string) float64
}

// MonoMeasurer measures every rune as the same width.
type MonoMeasurer float64

func (m MonoMeasurer) MeasureText(s string) float64 {
	return float64(m) * float64(len([]rune(s)))
}

// Params is everything Compute needs from the widget.
type Params struct {
	Width float64

	MinNorm, MaxNorm float64

	InternalPad     float64
	BarHeight       float64
	ThumbHalfWidth  float64
	ThumbHalfHeight float64

	TextSize            float64
	TextDistanceToTop   float64
	TextDistanceToThumb float64

	SingleThumb         bool
	AlwaysActive        bool
	ActivateOnDefault   bool
	ShowLabels          bool
	ShowTextAboveThumbs bool

	// DefaultEpsilon is how close to the extremes a selection may be and
	// still count as the default full range.
	DefaultEpsilon float64

	MinText, MaxText           string
	MinEdgeLabel, MaxEdgeLabel string

	Shadow        bool
	ShadowYOffset float64
	ShadowBlur    float64

	Measurer Measurer
}

// Label is a positioned piece of text; Y is the baseline.
type Label struct {
	Text  string
	X, Y  float64
	Width float64
}

// Visual selects which thumb image to draw.
type Visual uint8

const (
	VisualNormal Visual = iota
	VisualPressed
	VisualDisabled
)

// Frame is one computed layout.
type Frame struct {
	Width      float64
	Padding    float64
	TextOffset float64

	Track     Rect
	Highlight Rect

	MinThumbX, MaxThumbX float64
	MinThumb, MaxThumb   Rect
	ShowMinThumb         bool

	SelectionIsDefault bool
	// Active selects the active colour for the highlight and thumbs.
	Active bool

	ShowValueLabels bool
	MinLabel        Label
	MaxLabel        Label

	ShowEdgeLabels bool
	MinEdge        Label
	MaxEdge        Label

	activateOnDefault bool
}

func measure(m Measurer, s string) float64 {
	if m == nil || s == "" {
		return 0
	}
	return m.MeasureText(s)
}

// TextOffset is the height of the band above the thumbs holding the values.
func TextOffset(p Params) float64 {
	if !p.ShowTextAboveThumbs {
		return 0
	}
	return p.TextSize + p.TextDistanceToThumb + p.TextDistanceToTop
}

// EdgeLabelWidth is the widest of the "min"/"max" edge labels, or 0 when
// they are hidden.
func EdgeLabelWidth(p Params) float64 {
	if !p.ShowLabels {
		return 0
	}
	return math.Max(measure(p.Measurer, p.MinEdgeLabel), measure(p.Measurer, p.MaxEdgeLabel))
}

// Padding is the inset from each side of the widget to the ends of travel.
func Padding(p Params) float64 {
	return p.InternalPad + EdgeLabelWidth(p) + p.ThumbHalfWidth
}

// IsDefault reports whether the selection spans the full range within eps.
func IsDefault(minN, maxN, eps float64) bool {
	return minN <= eps && maxN >= 1-eps
}

// Compute lays out the track, the highlighted sub-range, both thumbs and
// the labels.
func Compute(p Params) Frame {
	f := Frame{
		Width:             p.Width,
		Padding:           Padding(p),
		TextOffset:        TextOffset(p),
		ShowMinThumb:      !p.SingleThumb,
		activateOnDefault: p.ActivateOnDefault,
	}

	centerY := f.TextOffset + p.ThumbHalfHeight
	barY0, barY1 := centerY-p.BarHeight/2, centerY+p.BarHeight/2
	f.Track = Rect{X0: f.Padding, Y0: barY0, X1: p.Width - f.Padding, Y1: barY1}

	f.MinThumbX = model.NormalizedToScreen(p.MinNorm, p.Width, f.Padding)
	f.MaxThumbX = model.NormalizedToScreen(p.MaxNorm, p.Width, f.Padding)
	f.Highlight = Rect{X0: f.MinThumbX, Y0: barY0, X1: f.MaxThumbX, Y1: barY1}
	f.MinThumb = thumbRect(f.MinThumbX, f.TextOffset, p)
	f.MaxThumb = thumbRect(f.MaxThumbX, f.TextOffset, p)

	f.SelectionIsDefault = IsDefault(p.MinNorm, p.MaxNorm, p.DefaultEpsilon)
	f.Active = p.AlwaysActive || p.ActivateOnDefault || !f.SelectionIsDefault

	if p.ShowLabels {
		f.ShowEdgeLabels = true
		w := EdgeLabelWidth(p)
		y := centerY + p.TextSize/3
		f.MinEdge = Label{Text: p.MinEdgeLabel, X: 0, Y: y, Width: measure(p.Measurer, p.MinEdgeLabel)}
		f.MaxEdge = Label{Text: p.MaxEdgeLabel, X: p.Width - w, Y: y, Width: measure(p.Measurer, p.MaxEdgeLabel)}
	}

	f.ShowValueLabels = p.ShowTextAboveThumbs && (p.ActivateOnDefault || !f.SelectionIsDefault)
	if f.ShowValueLabels {
		f.MinLabel, f.MaxLabel = placeValueLabels(p, f)
	}
	return f
}

func thumbRect(x, top float64, p Params) Rect {
	return Rect{X0: x - p.ThumbHalfWidth, Y0: top, X1: x + p.ThumbHalfWidth, Y1: top + 2*p.ThumbHalfHeight}
}

// placeValueLabels centres each value over its thumb, keeps both inside the
// widget and pushes them apart when they collide. The label whose thumb has
// more room to the nearer edge moves further.
func placeValueLabels(p Params, f Frame) (Label, Label) {
	y := p.TextDistanceToTop + p.TextSize
	minW := measure(p.Measurer, p.MinText)
	maxW := measure(p.Measurer, p.MaxText)

	minPos := math.Max(0, f.MinThumbX-minW/2)
	maxPos := math.Min(p.Width-maxW, f.MaxThumbX-maxW/2)

	if !p.SingleThumb {
		overlap := minPos + minW - maxPos + LabelSpacing
		if overlap > 0 {
			room := p.MinNorm + 1 - p.MaxNorm
			if room > 0 {
				minPos -= overlap * p.MinNorm / room
				maxPos += overlap * (1 - p.MaxNorm) / room
			} else {
				minPos -= overlap / 2
				maxPos += overlap / 2
			}
		}
	}

	return Label{Text: p.MinText, X: minPos, Y: y, Width: minW},
		Label{Text: p.MaxText, X: maxPos, Y: y, Width: maxW}
}

// ThumbVisual picks the image for a thumb given whether it is pressed.
func (f Frame) ThumbVisual(pressed bool) Visual {
	if !f.activateOnDefault && f.SelectionIsDefault {
		return VisualDisabled
	}
	if pressed {
		return VisualPressed
	}
	return VisualNormal
}

// Constraints bound a measurement; zero means unconstrained.
type Constraints struct {
	Width, Height float64
}

// Size is a measured widget size.
type Size struct {
	Width, Height float64
}

// Measure returns the size the widget wants under c.
func Measure(c Constraints, p Params) Size {
	w := float64(DefaultWidth)
	if c.Width > 0 {
		w = c.Width
	}
	h := 2 * p.ThumbHalfHeight
	if p.ShowTextAboveThumbs {
		h += TextBandHeight
	}
	if p.Shadow {
		h += p.ShadowYOffset + p.ShadowBlur
	}
	if c.Height > 0 {
		h = math.Min(h, c.Height)
	}
	return Size{Width: w, Height: h}
}
