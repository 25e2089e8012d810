// Package engine wires a model.ValueSpace and a gesture.Controller into a
// complete range slider that any UI toolkit can host.
package engine

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/ingyamilmolinar/rangeslider/core/gesture"
	"github.com/ingyamilmolinar/rangeslider/core/layout"
	"github.com/ingyamilmolinar/rangeslider/core/model"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
)

// Host is implemented by the toolkit adapter embedding a Slider.
type Host = gesture.Host

type nopHost struct{}

func (nopHost) RequestRedraw() {}
func (nopHost) ClaimDrag()     {}

// Slider is a dual-thumb range slider. Like the controller it wraps, it
// must only be used from the UI thread.
type Slider struct {
	id     uuid.UUID
	opts   Options
	values *model.ValueSpace
	ctrl   *gesture.Controller
	host   Host
	logger *game_log.Logger

	width    float64
	measurer layout.Measurer

	lower []func()
	upper []func()
}

// New builds a slider from opts. A nil host is allowed; redraw and drag
// claims are then dropped.
func New(opts Options, host Host, logger *game_log.Logger) *Slider {
	if host == nil {
		host = nopHost{}
	}
	if logger == nil {
		logger = game_log.Discard()
	}
	id := opts.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	s := &Slider{
		id:       id,
		opts:     opts,
		host:     host,
		logger:   logger.With("slider", opts.Name),
		width:    layout.DefaultWidth,
		measurer: layout.MonoMeasurer(opts.TextSize / 2),
	}
	s.values = model.NewValueSpace(opts.Min, opts.Max, s.requestRedraw, s.logger)
	s.ctrl = gesture.New(s.values, s.gestureConfig(), s.Geometry, host, s.logger)
	s.ctrl.OnLowerValueChanged(func() { fire(s.lower) })
	s.ctrl.OnUpperValueChanged(func() { fire(s.upper) })
	s.logger.Infof("[SLIDER] created %s range %v..%v single=%t", id, opts.Min, opts.Max, opts.SingleThumb)
	return s
}

func (s *Slider) gestureConfig() gesture.Config {
	return gesture.Config{
		TouchSlop:           s.opts.TouchSlop,
		SingleThumb:         s.opts.SingleThumb,
		NotifyWhileDragging: s.opts.NotifyWhileDragging,
	}
}

func fire(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

func (s *Slider) requestRedraw() { s.host.RequestRedraw() }

func (s *Slider) ID() uuid.UUID { return s.id }

func (s *Slider) Options() Options { return s.opts }

// SetNotifyWhileDragging switches between continuous and end-of-gesture
// notifications.
func (s *Slider) SetNotifyWhileDragging(on bool) {
	s.opts.NotifyWhileDragging = on
	s.ctrl.SetConfig(s.gestureConfig())
}

// Values exposes the underlying value space for read access by renderers.
func (s *Slider) Values() *model.ValueSpace { return s.values }

// Controller exposes the gesture state for renderers (pressed thumb).
func (s *Slider) Controller() *gesture.Controller { return s.ctrl }

// SetWidth sets the laid-out widget width in pixels.
func (s *Slider) SetWidth(w float64) {
	if w != s.width {
		s.width = w
		s.requestRedraw()
	}
}

func (s *Slider) Width() float64 { return s.width }

// SetMeasurer installs the text measurer used for label geometry.
func (s *Slider) SetMeasurer(m layout.Measurer) {
	if m != nil {
		s.measurer = m
	}
}

// OnLowerValueChanged subscribes fn to committed min thumb changes.
func (s *Slider) OnLowerValueChanged(fn func()) { s.lower = append(s.lower, fn) }

// OnUpperValueChanged subscribes fn to committed max thumb changes.
func (s *Slider) OnUpperValueChanged(fn func()) { s.upper = append(s.upper, fn) }

// Handle feeds one pointer event in widget-local coordinates.
func (s *Slider) Handle(e gesture.Event) bool { return s.ctrl.Handle(e) }

// Geometry is the horizontal track layout the controller maps against.
func (s *Slider) Geometry() gesture.Geometry {
	p := s.params()
	return gesture.Geometry{
		Width:          s.width,
		Padding:        layout.Padding(p),
		ThumbHalfWidth: s.opts.ThumbHalfWidth,
	}
}

func (s *Slider) params() layout.Params {
	return layout.Params{
		Width:               s.width,
		MinNorm:             s.values.NormalizedMin(),
		MaxNorm:             s.values.NormalizedMax(),
		InternalPad:         s.opts.InternalPad,
		BarHeight:           s.opts.BarHeight,
		ThumbHalfWidth:      s.opts.ThumbHalfWidth,
		ThumbHalfHeight:     s.opts.ThumbHalfHeight,
		TextSize:            s.opts.TextSize,
		TextDistanceToTop:   s.opts.TextDistanceToTop,
		TextDistanceToThumb: s.opts.TextDistanceToThumb,
		SingleThumb:         s.opts.SingleThumb,
		AlwaysActive:        s.opts.AlwaysActive,
		ActivateOnDefault:   s.opts.ActivateOnDefault,
		ShowLabels:          s.opts.ShowLabels,
		ShowTextAboveThumbs: s.opts.ShowTextAboveThumbs,
		DefaultEpsilon:      s.opts.DefaultEpsilon,
		MinText:             FormatValue(s.SelectedMin()),
		MaxText:             FormatValue(s.SelectedMax()),
		MinEdgeLabel:        s.opts.MinEdgeLabel,
		MaxEdgeLabel:        s.opts.MaxEdgeLabel,
		Shadow:              s.opts.Shadow.Enabled,
		ShadowYOffset:       s.opts.Shadow.YOffset,
		ShadowBlur:          s.opts.Shadow.Blur,
		Measurer:            s.measurer,
	}
}

// Frame computes the current layout.
func (s *Slider) Frame() layout.Frame { return layout.Compute(s.params()) }

// Measure reports the size the slider wants under c.
func (s *Slider) Measure(c layout.Constraints) layout.Size { return layout.Measure(c, s.params()) }

// FormatValue renders a selected value the way labels show it.
func FormatValue(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func (s *Slider) AbsoluteMin() float64 { return s.values.Range().Min }

func (s *Slider) AbsoluteMax() float64 { return s.values.Range().Max }

// SetAbsoluteMin changes the lower bound and resets the selection to the
// full new range.
func (s *Slider) SetAbsoluteMin(v float64) {
	s.values.SetAbsoluteRange(v, s.values.Range().Max)
}

// SetAbsoluteMax changes the upper bound and resets the selection to the
// full new range.
func (s *Slider) SetAbsoluteMax(v float64) {
	s.values.SetAbsoluteRange(s.values.Range().Min, v)
}

func (s *Slider) SelectedMin() float64 { return s.values.SelectedMinValue() }

func (s *Slider) SelectedMax() float64 { return s.values.SelectedMaxValue() }

// SetSelectedMin moves the min thumb to v. Single-thumb sliders keep their
// hidden min at the start of the range.
func (s *Slider) SetSelectedMin(v float64) {
	if s.opts.SingleThumb {
		s.values.SetNormalizedMin(0)
		return
	}
	s.values.SetSelectedMinValue(v)
}

func (s *Slider) SetSelectedMax(v float64) { s.values.SetSelectedMaxValue(v) }

// ResetToDefaults restores the configured range and the full selection.
func (s *Slider) ResetToDefaults() {
	s.values.SetAbsoluteRange(s.opts.Min, s.opts.Max)
	s.values.ResetSelectedValues()
}

// SaveState captures the normalized selection together with host data.
func (s *Slider) SaveState(host []byte) State {
	return State{Selection: s.values.Snapshot(), Host: host}
}

// RestoreState reapplies a saved selection without going through absolute
// values. Invalid values fall back to the defaults. The host data is
// returned for the caller to restore its own part.
func (s *Slider) RestoreState(st State) []byte {
	st = st.sanitized()
	if s.opts.SingleThumb {
		st.Selection.MinNorm = 0
	}
	s.values.Restore(st.Selection)
	s.logger.Debugf("[SLIDER] restored %.3f..%.3f", st.Selection.MinNorm, st.Selection.MaxNorm)
	return st.Host
}
