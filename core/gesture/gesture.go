// Package gesture turns a stream of pointer events into thumb manipulation
// on a model.ValueSpace.
//
// One pointer at a time drives the gesture. Extra pointers are remembered so
// the drag can continue on a surviving finger when the driving one lifts.
// A press that lands on neither thumb is not consumed and should fall
// through to the host's default handling.
package gesture

import (
	"math"

	"github.com/ingyamilmolinar/rangeslider/core/model"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
)

// Kind is the type of a pointer event.
type Kind uint8

const (
	Press Kind = iota
	Move
	Release
	Cancel
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "Press"
	case Move:
		return "Move"
	case Release:
		return "Release"
	case Cancel:
		return "Cancel"
	default:
		return "Kind(?)"
	}
}

// Event is a single pointer event in widget-local coordinates. Only the
// horizontal position matters.
type Event struct {
	Kind      Kind
	PointerID int
	X         float64
}

// Thumb identifies which thumb owns the gesture.
type Thumb uint8

const (
	ThumbNone Thumb = iota
	ThumbMin
	ThumbMax
)

func (t Thumb) String() string {
	switch t {
	case ThumbMin:
		return "min"
	case ThumbMax:
		return "max"
	default:
		return "none"
	}
}

// State is the controller's position in the press/drag state machine.
type State uint8

const (
	Idle State = iota
	Pressed
	Dragging
)

func (s State) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Geometry is the horizontal track layout used to map pointer positions.
type Geometry struct {
	Width          float64
	Padding        float64
	ThumbHalfWidth float64
}

// Host receives the controller's side effects.
type Host interface {
	// RequestRedraw asks the host to repaint the widget.
	RequestRedraw()
	// ClaimDrag asks ancestors not to steal the rest of the gesture.
	ClaimDrag()
}

// Config tunes the controller.
type Config struct {
	// TouchSlop is the horizontal distance a pressed pointer must travel
	// before the press becomes a drag.
	TouchSlop float64
	// SingleThumb hides the min thumb; it can never be pressed.
	SingleThumb bool
	// NotifyWhileDragging fires the changed callback on every drag move
	// instead of only when the gesture ends.
	NotifyWhileDragging bool
}

// Controller is the gesture state machine. It is not safe for concurrent
// use; feed it from the UI thread.
type Controller struct {
	values *model.ValueSpace
	cfg    Config
	geom   func() Geometry
	host   Host
	logger *game_log.Logger

	onLower func()
	onUpper func()

	thumb    Thumb
	pressed  bool
	dragging bool

	active   int
	downX    float64
	pointers map[int]float64

	before model.Selection
}

// New creates a controller driving values. geom is called on every event so
// layout changes take effect immediately.
func New(values *model.ValueSpace, cfg Config, geom func() Geometry, host Host, logger *game_log.Logger) *Controller {
	if logger == nil {
		logger = game_log.Discard()
	}
	return &Controller{
		values:   values,
		cfg:      cfg,
		geom:     geom,
		host:     host,
		logger:   logger,
		pointers: make(map[int]float64),
	}
}

// OnLowerValueChanged sets the callback fired when the min thumb commits.
func (c *Controller) OnLowerValueChanged(fn func()) { c.onLower = fn }

// OnUpperValueChanged sets the callback fired when the max thumb commits.
func (c *Controller) OnUpperValueChanged(fn func()) { c.onUpper = fn }

// SetConfig replaces the tuning. An in-flight gesture keeps running with the
// new values.
func (c *Controller) SetConfig(cfg Config) { c.cfg = cfg }

func (c *Controller) Config() Config { return c.cfg }

func (c *Controller) PressedThumb() Thumb { return c.thumb }

// Pressed reports whether a thumb should be drawn in its pressed style.
func (c *Controller) Pressed() bool { return c.pressed }

func (c *Controller) Dragging() bool { return c.dragging }

func (c *Controller) State() State {
	switch {
	case c.thumb == ThumbNone:
		return Idle
	case c.dragging:
		return Dragging
	default:
		return Pressed
	}
}

// ActivePointer returns the id of the pointer driving the gesture.
func (c *Controller) ActivePointer() (int, bool) {
	if c.thumb == ThumbNone {
		return 0, false
	}
	return c.active, true
}

// Handle processes one event and reports whether the widget consumed it.
func (c *Controller) Handle(e Event) bool {
	switch e.Kind {
	case Press:
		return c.press(e)
	case Move:
		return c.move(e)
	case Release:
		return c.release(e)
	case Cancel:
		return c.cancel()
	}
	return false
}

// HitTest resolves which thumb lies under x. When both do, the one with
// more room to travel wins: Min on the right half of the track, Max on the
// left.
func (c *Controller) HitTest(x float64) Thumb {
	g := c.geom()
	minHit := !c.cfg.SingleThumb && c.inThumbRange(g, x, c.values.NormalizedMin())
	maxHit := c.inThumbRange(g, x, c.values.NormalizedMax())
	switch {
	case minHit && maxHit:
		if g.Width > 0 && x/g.Width > 0.5 {
			return ThumbMin
		}
		return ThumbMax
	case minHit:
		return ThumbMin
	case maxHit:
		return ThumbMax
	}
	return ThumbNone
}

func (c *Controller) inThumbRange(g Geometry, x, n float64) bool {
	return math.Abs(x-model.NormalizedToScreen(n, g.Width, g.Padding)) <= g.ThumbHalfWidth
}

func (c *Controller) press(e Event) bool {
	if c.thumb != ThumbNone {
		// another finger joins an existing gesture
		c.pointers[e.PointerID] = e.X
		c.logger.Debugf("[GESTURE] secondary pointer %d down at %.1f", e.PointerID, e.X)
		c.requestRedraw()
		return true
	}

	t := c.HitTest(e.X)
	if t == ThumbNone {
		c.logger.Debugf("[GESTURE] press at %.1f missed both thumbs", e.X)
		return false
	}

	c.thumb = t
	c.pressed = true
	c.dragging = false
	c.active = e.PointerID
	c.downX = e.X
	c.pointers[e.PointerID] = e.X
	c.before = c.values.Snapshot()
	c.logger.Debugf("[GESTURE] pointer %d pressed %s thumb at %.1f", e.PointerID, t, e.X)

	c.requestRedraw()
	c.track(e.X)
	c.claimDrag()
	return true
}

func (c *Controller) move(e Event) bool {
	if c.thumb == ThumbNone {
		return false
	}
	if _, ok := c.pointers[e.PointerID]; !ok {
		return true
	}
	c.pointers[e.PointerID] = e.X
	if e.PointerID != c.active {
		return true
	}

	if !c.dragging {
		if math.Abs(e.X-c.downX) <= c.cfg.TouchSlop {
			return true
		}
		c.dragging = true
		c.pressed = true
		c.logger.Debugf("[GESTURE] pointer %d crossed slop, dragging %s", e.PointerID, c.thumb)
		c.requestRedraw()
		c.claimDrag()
	}

	c.track(e.X)
	if c.cfg.NotifyWhileDragging {
		c.notify(c.thumb)
	}
	return true
}

func (c *Controller) release(e Event) bool {
	if c.thumb == ThumbNone {
		return false
	}
	if _, ok := c.pointers[e.PointerID]; !ok {
		return true
	}

	if len(c.pointers) > 1 {
		delete(c.pointers, e.PointerID)
		if e.PointerID == c.active {
			c.active = lowestID(c.pointers)
			c.downX = c.pointers[c.active]
			c.logger.Debugf("[GESTURE] pointer %d lifted, continuing with %d", e.PointerID, c.active)
		}
		c.requestRedraw()
		return true
	}

	if c.dragging {
		c.logger.Debugf("[GESTURE] drag of %s thumb ended at %.1f", c.thumb, e.X)
	} else {
		c.logger.Debugf("[GESTURE] tap-seek of %s thumb to %.1f", c.thumb, e.X)
	}
	c.track(e.X)

	// The thumb is captured before the state is cleared so the commit
	// notification always reaches the thumb that moved.
	committed := c.thumb
	c.reset()
	c.requestRedraw()
	c.notify(committed)
	return true
}

func (c *Controller) cancel() bool {
	if c.thumb == ThumbNone {
		return false
	}
	c.logger.Debugf("[GESTURE] %s gesture cancelled, restoring %.3f..%.3f", c.thumb, c.before.MinNorm, c.before.MaxNorm)
	c.values.Restore(c.before)
	c.reset()
	c.requestRedraw()
	return true
}

func (c *Controller) reset() {
	c.thumb = ThumbNone
	c.pressed = false
	c.dragging = false
	clear(c.pointers)
}

// track moves the pressed thumb to the pointer position.
func (c *Controller) track(x float64) {
	g := c.geom()
	n := model.ScreenToNormalized(x, g.Width, g.Padding)
	switch {
	case c.thumb == ThumbMin && !c.cfg.SingleThumb:
		c.values.SetNormalizedMin(n)
	case c.thumb == ThumbMax:
		c.values.SetNormalizedMax(n)
	}
}

func (c *Controller) notify(t Thumb) {
	switch t {
	case ThumbMin:
		if c.onLower != nil {
			c.onLower()
		}
	case ThumbMax:
		if c.onUpper != nil {
			c.onUpper()
		}
	}
}

func (c *Controller) requestRedraw() {
	if c.host != nil {
		c.host.RequestRedraw()
	}
}

func (c *Controller) claimDrag() {
	if c.host != nil {
		c.host.ClaimDrag()
	}
}

func lowestID(m map[int]float64) int {
	first := true
	low := 0
	for id := range m {
		if first || id < low {
			low = id
			first = false
		}
	}
	return low
}
