package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/rangeslider/core/engine"
	"github.com/ingyamilmolinar/rangeslider/core/gesture"
	"github.com/ingyamilmolinar/rangeslider/core/layout"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
)

// SliderView hosts an engine.Slider inside an ebiten screen region. It is
// the slider's engine.Host.
type SliderView struct {
	r      image.Rectangle
	slider *engine.Slider
	dirty  bool
}

func newSliderView(opts engine.Options, logger *game_log.Logger) *SliderView {
	v := &SliderView{dirty: true}
	v.slider = engine.New(opts, v, logger)
	v.slider.SetMeasurer(layout.MonoMeasurer(debugGlyphWidth))
	return v
}

// RequestRedraw implements engine.Host.
func (v *SliderView) RequestRedraw() { v.dirty = true }

// ClaimDrag implements engine.Host. Game already routes every event of a
// pointer to the widget that accepted its press, so there is nothing left
// to claim.
func (v *SliderView) ClaimDrag() {}

func (v *SliderView) Slider() *engine.Slider { return v.slider }

func (v *SliderView) SetRect(r image.Rectangle) {
	v.r = r
	v.slider.SetWidth(float64(r.Dx()))
}

func (v *SliderView) Rect() image.Rectangle { return v.r }

// Dirty reports whether the view asked for a redraw since the last Draw.
// Game skips repainting while no view is dirty.
func (v *SliderView) Dirty() bool { return v.dirty }

// Handle forwards a screen event to the slider. Presses outside the view
// are ignored; everything else goes through so a drag may leave the view.
func (v *SliderView) Handle(ev PointerEvent) bool {
	if ev.Kind == gesture.Press && !image.Pt(int(ev.X), int(ev.Y)).In(v.r) {
		return false
	}
	return v.slider.Handle(gesture.Event{
		Kind:      ev.Kind,
		PointerID: ev.PointerID,
		X:         ev.X - float64(v.r.Min.X),
	})
}

// Draw renders the slider at its rect.
func (v *SliderView) Draw(dst *ebiten.Image) {
	v.dirty = false
	f := v.slider.Frame()
	opts := v.slider.Options()
	st := opts.Style
	ox, oy := float64(v.r.Min.X), float64(v.r.Min.Y)

	fg := st.DefaultColor
	if f.Active {
		fg = st.ActiveColor
	}

	drawRect(dst, ox+f.Track.X0, oy+f.Track.Y0, f.Track.Dx(), f.Track.Dy(), st.DefaultColor, true)
	if f.Active {
		drawRect(dst, ox+f.Highlight.X0, oy+f.Highlight.Y0, f.Highlight.Dx(), f.Highlight.Dy(), st.ActiveColor, true)
	}

	pressed := v.slider.Controller().PressedThumb()
	if f.ShowMinThumb {
		v.drawThumb(dst, f.MinThumb, f.ThumbVisual(pressed == gesture.ThumbMin), opts, fg)
	}
	v.drawThumb(dst, f.MaxThumb, f.ThumbVisual(pressed == gesture.ThumbMax), opts, fg)

	// debug text is drawn from its top, layout labels from the baseline
	if f.ShowEdgeLabels {
		drawText(dst, f.MinEdge.Text, ox+f.MinEdge.X, oy+f.MinEdge.Y-debugLineHeight)
		drawText(dst, f.MaxEdge.Text, ox+f.MaxEdge.X, oy+f.MaxEdge.Y-debugLineHeight)
	}
	if f.ShowValueLabels {
		if f.ShowMinThumb {
			drawText(dst, f.MinLabel.Text, ox+f.MinLabel.X, oy+f.MinLabel.Y-debugLineHeight)
		}
		drawText(dst, f.MaxLabel.Text, ox+f.MaxLabel.X, oy+f.MaxLabel.Y-debugLineHeight)
	}
}

func (v *SliderView) drawThumb(dst *ebiten.Image, rc layout.Rect, vis layout.Visual, opts engine.Options, fg color.RGBA) {
	ox, oy := float64(v.r.Min.X), float64(v.r.Min.Y)
	cx := ox + (rc.X0+rc.X1)/2
	cy := oy + (rc.Y0+rc.Y1)/2
	rad := min(rc.Dx(), rc.Dy()) / 2

	if opts.Shadow.Enabled {
		drawCircle(dst, cx+opts.Shadow.XOffset, cy+opts.Shadow.YOffset, rad+opts.Shadow.Blur/2, opts.Style.ShadowColor, true)
	}
	c := fg
	if vis == layout.VisualDisabled {
		c = opts.Style.DefaultColor
	}
	drawCircle(dst, cx, cy, rad, c, true)
	if vis == layout.VisualPressed {
		drawCircle(dst, cx, cy, rad+2, c, false)
	}
}
