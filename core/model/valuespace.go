package model

import (
	"math"

	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
	"github.com/ingyamilmolinar/rangeslider/internal/utils"
)

// Epsilon is the smallest absolute range span treated as non-degenerate.
const Epsilon = 1e-7

const (
	DefaultMinimum = 0
	DefaultMaximum = 100
)

// Range is the full legal value span. Min may equal or even exceed Max.
type Range struct {
	Min, Max float64
}

// Span returns Max-Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Degenerate reports whether the span is too small to divide by.
func (r Range) Degenerate() bool { return math.Abs(r.Span()) < Epsilon }

// Selection is the normalized [0,1] pair picked by the two thumbs.
type Selection struct {
	MinNorm float64 `json:"min"`
	MaxNorm float64 `json:"max"`
}

// FullSelection covers the whole absolute range.
var FullSelection = Selection{MinNorm: 0, MaxNorm: 1}

// ValueSpace owns the absolute range and the normalized selection and does
// all value/normalized/screen conversions. Every setter clamps; nothing
// errors.
type ValueSpace struct {
	rng     Range
	minNorm float64
	maxNorm float64

	redraw func()
	logger *game_log.Logger
}

func NewValueSpace(min, max float64, redraw func(), logger *game_log.Logger) *ValueSpace {
	if logger == nil {
		logger = game_log.Discard()
	}
	return &ValueSpace{
		rng:     Range{Min: min, Max: max},
		maxNorm: 1,
		redraw:  redraw,
		logger:  logger,
	}
}

func (v *ValueSpace) requestRedraw() {
	if v.redraw != nil {
		v.redraw()
	}
}

// Range returns the absolute range.
func (v *ValueSpace) Range() Range { return v.rng }

// SetAbsoluteRange stores the range as given and resets the selection to
// cover all of it.
func (v *ValueSpace) SetAbsoluteRange(min, max float64) {
	v.rng = Range{Min: min, Max: max}
	if v.rng.Degenerate() {
		v.logger.Debugf("[VALUES] degenerate range %v..%v", min, max)
	}
	v.minNorm, v.maxNorm = 0, 1
	v.requestRedraw()
}

func (v *ValueSpace) NormalizedMin() float64 { return v.minNorm }

func (v *ValueSpace) NormalizedMax() float64 { return v.maxNorm }

// SetNormalizedMin stores c so that 0 <= min <= max <= 1.
func (v *ValueSpace) SetNormalizedMin(c float64) {
	v.minNorm = utils.Clamp01(math.Min(utils.Clamp01(c), v.maxNorm))
	v.requestRedraw()
}

// SetNormalizedMax stores c so that 0 <= min <= max <= 1.
func (v *ValueSpace) SetNormalizedMax(c float64) {
	v.maxNorm = utils.Clamp01(math.Max(utils.Clamp01(c), v.minNorm))
	v.requestRedraw()
}

// NormalizedToValue maps n into the absolute range, rounded to hundredths.
func (v *ValueSpace) NormalizedToValue(n float64) float64 {
	return utils.Round2(v.rng.Min + n*v.rng.Span())
}

// ValueToNormalized maps an absolute value to [0,1] space without clamping.
// A degenerate range maps everything to 0.
func (v *ValueSpace) ValueToNormalized(value float64) float64 {
	if v.rng.Degenerate() {
		return 0
	}
	return (value - v.rng.Min) / v.rng.Span()
}

func (v *ValueSpace) SelectedMinValue() float64 { return v.NormalizedToValue(v.minNorm) }

func (v *ValueSpace) SelectedMaxValue() float64 { return v.NormalizedToValue(v.maxNorm) }

func (v *ValueSpace) SetSelectedMinValue(value float64) {
	if v.rng.Degenerate() {
		v.SetNormalizedMin(0)
		return
	}
	v.SetNormalizedMin(v.ValueToNormalized(value))
}

func (v *ValueSpace) SetSelectedMaxValue(value float64) {
	if v.rng.Degenerate() {
		v.SetNormalizedMax(1)
		return
	}
	v.SetNormalizedMax(v.ValueToNormalized(value))
}

// ResetSelectedValues moves both thumbs back to the absolute extremes.
func (v *ValueSpace) ResetSelectedValues() {
	v.SetSelectedMinValue(v.rng.Min)
	v.SetSelectedMaxValue(v.rng.Max)
}

// Snapshot captures the current normalized pair.
func (v *ValueSpace) Snapshot() Selection {
	return Selection{MinNorm: v.minNorm, MaxNorm: v.maxNorm}
}

// Restore reapplies a captured pair. Values are re-clamped; an inverted pair
// collapses onto its max.
func (v *ValueSpace) Restore(s Selection) {
	maxN := utils.Clamp01(s.MaxNorm)
	v.minNorm = math.Min(utils.Clamp01(s.MinNorm), maxN)
	v.maxNorm = maxN
	v.requestRedraw()
}

// NormalizedToScreen converts n to an x coordinate on a track of the given
// width, inset by padding on both sides.
func NormalizedToScreen(n, trackWidth, padding float64) float64 {
	return padding + n*(trackWidth-2*padding)
}

// ScreenToNormalized is the inverse of NormalizedToScreen clamped to [0,1].
// A track no wider than its padding maps to 0.
func ScreenToNormalized(x, trackWidth, padding float64) float64 {
	usable := trackWidth - 2*padding
	if usable <= 0 {
		return 0
	}
	return utils.Clamp01((x - padding) / usable)
}
