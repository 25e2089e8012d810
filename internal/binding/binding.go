// Package binding exposes a slider as four observable properties
// (Minimum, Maximum, Lower, Upper) so form-style hosts can bind to it
// without knowing about gestures.
package binding

import (
	"github.com/ingyamilmolinar/rangeslider/core/engine"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
)

// Property is an observable float. Listeners run synchronously on Set,
// in the order they were added.
type Property struct {
	name      string
	value     float64
	listeners []func(float64)
}

func NewProperty(name string, v float64) *Property {
	return &Property{name: name, value: v}
}

func (p *Property) Name() string { return p.name }

func (p *Property) Get() float64 { return p.value }

// Set stores v and notifies listeners. Setting the current value is a
// no-op.
func (p *Property) Set(v float64) {
	if v == p.value {
		return
	}
	p.value = v
	for _, fn := range p.listeners {
		fn(v)
	}
}

func (p *Property) AddListener(fn func(float64)) { p.listeners = append(p.listeners, fn) }

// Element is the bindable face of a range slider.
type Element struct {
	Minimum *Property
	Maximum *Property
	Lower   *Property
	Upper   *Property

	lowerChanged []func()
	upperChanged []func()
}

// NewElement starts with the same defaults a fresh slider has: range and
// selection both 0..1.
func NewElement() *Element {
	return &Element{
		Minimum: NewProperty("MinimumValue", 0),
		Maximum: NewProperty("MaximumValue", 1),
		Lower:   NewProperty("LowerValue", 0),
		Upper:   NewProperty("UpperValue", 1),
	}
}

// OnLowerValueChanged subscribes to user commits of the lower value.
func (e *Element) OnLowerValueChanged(fn func()) { e.lowerChanged = append(e.lowerChanged, fn) }

// OnUpperValueChanged subscribes to user commits of the upper value.
func (e *Element) OnUpperValueChanged(fn func()) { e.upperChanged = append(e.upperChanged, fn) }

// CommitLower records a value the user picked and fires LowerValueChanged.
func (e *Element) CommitLower(v float64) {
	e.Lower.Set(v)
	for _, fn := range e.lowerChanged {
		fn()
	}
}

// CommitUpper records a value the user picked and fires UpperValueChanged.
func (e *Element) CommitUpper(v float64) {
	e.Upper.Set(v)
	for _, fn := range e.upperChanged {
		fn()
	}
}

// Bind connects e and s in both directions. The element's current values
// are pushed into the slider first; after that, property writes move the
// slider and committed thumb changes update the element. Must be called on
// the UI thread.
func Bind(e *Element, s *engine.Slider, logger *game_log.Logger) {
	if logger == nil {
		logger = game_log.Discard()
	}
	b := &binder{e: e, s: s, logger: logger}

	b.pushRange()
	b.pushSelection()

	e.Minimum.AddListener(func(float64) { b.rangeChanged() })
	e.Maximum.AddListener(func(float64) { b.rangeChanged() })
	e.Lower.AddListener(func(v float64) {
		if !b.syncing {
			s.SetSelectedMin(v)
			b.pull()
		}
	})
	e.Upper.AddListener(func(v float64) {
		if !b.syncing {
			s.SetSelectedMax(v)
			b.pull()
		}
	})

	s.OnLowerValueChanged(func() {
		b.sync(func() { e.CommitLower(s.SelectedMin()) })
	})
	s.OnUpperValueChanged(func() {
		b.sync(func() { e.CommitUpper(s.SelectedMax()) })
	})
}

type binder struct {
	e       *Element
	s       *engine.Slider
	logger  *game_log.Logger
	syncing bool
}

func (b *binder) sync(fn func()) {
	b.syncing = true
	defer func() { b.syncing = false }()
	fn()
}

func (b *binder) pushRange() {
	b.s.SetAbsoluteMin(b.e.Minimum.Get())
	b.s.SetAbsoluteMax(b.e.Maximum.Get())
}

func (b *binder) pushSelection() {
	b.s.SetSelectedMax(b.e.Upper.Get())
	b.s.SetSelectedMin(b.e.Lower.Get())
	b.pull()
}

// pull copies the slider's clamped selection back into the element.
func (b *binder) pull() {
	b.sync(func() {
		b.e.Lower.Set(b.s.SelectedMin())
		b.e.Upper.Set(b.s.SelectedMax())
	})
}

// rangeChanged resets the slider to the new bounds, which also resets the
// selection to the full range.
func (b *binder) rangeChanged() {
	if b.syncing {
		return
	}
	b.pushRange()
	b.pull()
	b.logger.Debugf("[BINDING] range now %v..%v", b.s.AbsoluteMin(), b.s.AbsoluteMax())
}
