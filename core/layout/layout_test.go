package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseParams() Params {
	return Params{
		Width:               200,
		MinNorm:             0.25,
		MaxNorm:             0.75,
		InternalPad:         8,
		BarHeight:           2,
		ThumbHalfWidth:      10,
		ThumbHalfHeight:     10,
		TextSize:            14,
		TextDistanceToTop:   8,
		TextDistanceToThumb: 8,
		ShowTextAboveThumbs: true,
		MinText:             "25",
		MaxText:             "75",
		MinEdgeLabel:        "min",
		MaxEdgeLabel:        "max",
		Measurer:            MonoMeasurer(6),
	}
}

func TestComputeTrackAndThumbs(t *testing.T) {
	f := Compute(baseParams())

	assert.Equal(t, 18.0, f.Padding)
	assert.Equal(t, 30.0, f.TextOffset)
	assert.Equal(t, Rect{X0: 18, Y0: 39, X1: 182, Y1: 41}, f.Track)
	assert.InDelta(t, 59.0, f.MinThumbX, 1e-9)
	assert.InDelta(t, 141.0, f.MaxThumbX, 1e-9)
	assert.InDelta(t, 59.0, f.Highlight.X0, 1e-9)
	assert.InDelta(t, 141.0, f.Highlight.X1, 1e-9)
	assert.Equal(t, f.Track.Y0, f.Highlight.Y0)
	assert.InDelta(t, 20.0, f.MinThumb.Dx(), 1e-9)
	assert.InDelta(t, 20.0, f.MaxThumb.Dy(), 1e-9)
	assert.Equal(t, 30.0, f.MaxThumb.Y0)
	assert.True(t, f.ShowMinThumb)
	assert.False(t, f.SelectionIsDefault)
	assert.True(t, f.Active)
}

func TestComputeWithoutTextBand(t *testing.T) {
	p := baseParams()
	p.ShowTextAboveThumbs = false
	f := Compute(p)
	assert.Equal(t, 0.0, f.TextOffset)
	assert.Equal(t, Rect{X0: 18, Y0: 9, X1: 182, Y1: 11}, f.Track)
	assert.False(t, f.ShowValueLabels)
}

func TestValueLabelsCentredWhenApart(t *testing.T) {
	f := Compute(baseParams())
	require.True(t, f.ShowValueLabels)
	assert.InDelta(t, 53.0, f.MinLabel.X, 1e-9)
	assert.InDelta(t, 135.0, f.MaxLabel.X, 1e-9)
	assert.Equal(t, 22.0, f.MinLabel.Y)
	assert.Equal(t, "75", f.MaxLabel.Text)
}

func TestValueLabelsSplitOverlapEvenlyWhenCentred(t *testing.T) {
	p := baseParams()
	p.MinNorm, p.MaxNorm = 0.5, 0.5
	p.MinText, p.MaxText = "50.5", "50.5"
	f := Compute(p)
	assert.InDelta(t, 74.5, f.MinLabel.X, 1e-9)
	assert.InDelta(t, 101.5, f.MaxLabel.X, 1e-9)
}

func TestValueLabelsFavourThumbWithMoreRoom(t *testing.T) {
	p := baseParams()
	p.MinNorm, p.MaxNorm = 0.8, 0.9
	p.MinText, p.MaxText = "80.0", "90.0"
	plain := Compute(Params{Width: p.Width, MinNorm: p.MinNorm, MaxNorm: p.MaxNorm, InternalPad: p.InternalPad, ThumbHalfWidth: p.ThumbHalfWidth})
	f := Compute(p)

	minShift := (plain.MinThumbX - 12) - f.MinLabel.X
	maxShift := f.MaxLabel.X - (plain.MaxThumbX - 12)
	assert.Greater(t, minShift, maxShift, "min thumb is further from its edge and moves more")
	assert.InDelta(t, float64(LabelSpacing), f.MaxLabel.X-(f.MinLabel.X+f.MinLabel.Width), 1e-9)
}

func TestValueLabelsZeroRoomDoesNotDivideByZero(t *testing.T) {
	p := baseParams()
	p.Width = 40
	p.MinNorm, p.MaxNorm = 0, 1
	p.ActivateOnDefault = true
	p.MinText, p.MaxText = "0", "100"
	f := Compute(p)
	require.True(t, f.ShowValueLabels)
	assert.False(t, math.IsNaN(f.MinLabel.X) || math.IsNaN(f.MaxLabel.X))
	assert.InDelta(t, 9.5, f.MinLabel.X, 1e-9)
	assert.InDelta(t, 18.5, f.MaxLabel.X, 1e-9)
}

func TestValueLabelsStayInsideWidget(t *testing.T) {
	p := baseParams()
	p.MinNorm, p.MaxNorm = 0.01, 0.99
	p.MinText, p.MaxText = "1.00", "99.00"
	f := Compute(p)
	assert.GreaterOrEqual(t, f.MinLabel.X, 0.0)
	assert.LessOrEqual(t, f.MaxLabel.X+f.MaxLabel.Width, p.Width)
}

func TestSingleThumbSkipsOverlapResolution(t *testing.T) {
	p := baseParams()
	p.SingleThumb = true
	p.MinNorm, p.MaxNorm = 0, 0
	p.ActivateOnDefault = true
	f := Compute(p)
	assert.False(t, f.ShowMinThumb)
	assert.InDelta(t, math.Max(0, f.MaxThumbX-6), f.MaxLabel.X, 1e-9)
}

func TestDefaultSelectionIsInactive(t *testing.T) {
	p := baseParams()
	p.MinNorm, p.MaxNorm = 0, 1
	f := Compute(p)
	assert.True(t, f.SelectionIsDefault)
	assert.False(t, f.Active)
	assert.False(t, f.ShowValueLabels)
	assert.Equal(t, VisualDisabled, f.ThumbVisual(true))

	p.AlwaysActive = true
	f = Compute(p)
	assert.True(t, f.Active)
	assert.False(t, f.ShowValueLabels)

	p.AlwaysActive = false
	p.ActivateOnDefault = true
	f = Compute(p)
	assert.True(t, f.Active)
	assert.True(t, f.ShowValueLabels)
	assert.Equal(t, VisualPressed, f.ThumbVisual(true))
	assert.Equal(t, VisualNormal, f.ThumbVisual(false))
}

func TestDefaultEpsilon(t *testing.T) {
	assert.True(t, IsDefault(0.01, 0.99, 0.02))
	assert.False(t, IsDefault(0.03, 0.99, 0.02))
	assert.False(t, IsDefault(0, 0.97, 0.02))
	assert.True(t, IsDefault(0, 1, 0))
}

func TestEdgeLabelsWidenPadding(t *testing.T) {
	p := baseParams()
	p.ShowLabels = true
	f := Compute(p)
	assert.Equal(t, 36.0, f.Padding)
	require.True(t, f.ShowEdgeLabels)
	assert.Equal(t, 0.0, f.MinEdge.X)
	assert.Equal(t, 182.0, f.MaxEdge.X)
	assert.InDelta(t, 40+14.0/3, f.MaxEdge.Y, 1e-9)
}

func TestMeasure(t *testing.T) {
	p := baseParams()
	assert.Equal(t, Size{Width: 200, Height: 50}, Measure(Constraints{}, p))

	p.Shadow, p.ShadowYOffset, p.ShadowBlur = true, 2, 2
	assert.Equal(t, Size{Width: 320, Height: 54}, Measure(Constraints{Width: 320}, p))
	assert.Equal(t, Size{Width: 200, Height: 40}, Measure(Constraints{Height: 40}, p))

	p.ShowTextAboveThumbs = false
	p.Shadow = false
	assert.Equal(t, 20.0, Measure(Constraints{}, p).Height)
}
