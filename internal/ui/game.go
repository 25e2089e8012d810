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

const (
	margin       = 16 // outer padding in px
	rowGap       = 12 // vertical space between rows
	buttonWidth  = 60
	buttonHeight = 24
)

var colBG = color.RGBA{30, 30, 30, 255}

// fillScreen is a variable so tests can run Draw without a GPU image.
var fillScreen = func(dst *ebiten.Image, c color.Color) { dst.Fill(c) }

type row struct {
	view  *SliderView
	reset *Button
}

// Game stacks slider rows vertically. Each row has a reset button to its
// right. It implements ebiten.Game.
type Game struct {
	rows    []*row
	tracker PointerTracker
	logger  *game_log.Logger

	// owners maps a pointer slot to the widget that accepted its press
	owners map[int]func(PointerEvent) bool

	onCommit []func(*engine.Slider)
	tasks    chan func()

	// dirty forces a repaint of the whole screen, e.g. after a resize or a
	// button changing state
	dirty      bool
	winW, winH int
}

func New(logger *game_log.Logger) *Game {
	if logger == nil {
		logger = game_log.Discard()
	}
	return &Game{
		logger: logger,
		owners: make(map[int]func(PointerEvent) bool),
		tasks:  make(chan func(), 64),
		dirty:  true,
	}
}

// Do queues fn to run on the game loop at the start of the next Update.
// It is the only Game method safe to call from other goroutines.
func (g *Game) Do(fn func()) { g.tasks <- fn }

// AddSlider appends a row hosting a new slider built from opts.
func (g *Game) AddSlider(opts engine.Options) *engine.Slider {
	v := newSliderView(opts, g.logger)
	r := &row{view: v}
	r.reset = NewButton("Reset", func() { g.ResetSlider(v.slider) })
	g.rows = append(g.rows, r)
	if g.winW > 0 {
		g.layoutRows()
	}
	return v.slider
}

// OnCommit registers fn to run when a selection is changed outside a thumb
// gesture (a reset, an edit from another control), since such changes fire
// no slider events.
func (g *Game) OnCommit(fn func(*engine.Slider)) { g.onCommit = append(g.onCommit, fn) }

// Commit runs the OnCommit hooks for sl and schedules a repaint. Call it on
// the game loop after changing sl programmatically.
func (g *Game) Commit(sl *engine.Slider) {
	g.dirty = true
	for _, fn := range g.onCommit {
		fn(sl)
	}
}

// ResetSlider restores sl's configured range and full selection, then
// commits it.
func (g *Game) ResetSlider(sl *engine.Slider) {
	sl.ResetToDefaults()
	g.logger.Infof("[GAME] slider %s reset", sl.ID())
	g.Commit(sl)
}

// Sliders returns the hosted sliders in row order.
func (g *Game) Sliders() []*engine.Slider {
	out := make([]*engine.Slider, len(g.rows))
	for i, r := range g.rows {
		out[i] = r.view.slider
	}
	return out
}

func (g *Game) Layout(w, h int) (int, int) {
	if w != g.winW || h != g.winH {
		g.winW, g.winH = w, h
		g.dirty = true
		g.layoutRows()
		g.logger.Debugf("[GAME] Layout: winW: %d, winH: %d, rows: %d", w, h, len(g.rows))
	}
	return w, h
}

func (g *Game) layoutRows() {
	y := margin
	sliderW := g.winW - 2*margin - buttonWidth - margin
	if sliderW < 1 {
		sliderW = 1
	}
	for _, r := range g.rows {
		sz := r.view.slider.Measure(layout.Constraints{Width: float64(sliderW)})
		h := int(sz.Height + 0.5)
		r.view.SetRect(image.Rect(margin, y, margin+sliderW, y+h))

		bx := margin + sliderW + margin
		by := y + (h-buttonHeight)/2
		r.reset.SetRect(image.Rect(bx, by, bx+buttonWidth, by+buttonHeight))
		y += h + rowGap
	}
}

func (g *Game) Update() error {
	for drained := false; !drained; {
		select {
		case fn := <-g.tasks:
			fn()
			g.dirty = true
		default:
			drained = true
		}
	}
	for _, ev := range g.tracker.Poll() {
		g.dispatch(ev)
	}
	return nil
}

// dispatch routes one pointer event. A press is offered to each widget in
// turn and the first to accept it owns the pointer until release.
func (g *Game) dispatch(ev PointerEvent) {
	switch ev.Kind {
	case gesture.Press:
		if _, busy := g.owners[ev.PointerID]; busy {
			return
		}
		for _, r := range g.rows {
			if r.reset.Handle(ev) {
				g.owners[ev.PointerID] = g.buttonHandler(r.reset)
				g.dirty = true
				return
			}
			if r.view.Handle(ev) {
				g.owners[ev.PointerID] = r.view.Handle
				g.logger.Debugf("[GAME] pointer %d captured by slider %s", ev.PointerID, r.view.slider.ID())
				return
			}
		}
	case gesture.Move:
		if h, ok := g.owners[ev.PointerID]; ok {
			h(ev)
		}
	case gesture.Release:
		if h, ok := g.owners[ev.PointerID]; ok {
			h(ev)
			delete(g.owners, ev.PointerID)
		}
	case gesture.Cancel:
		for _, r := range g.rows {
			if r.reset.Handle(ev) {
				g.dirty = true
			}
			r.view.Handle(ev)
		}
		clear(g.owners)
		g.logger.Debugf("[GAME] gestures cancelled")
	}
}

// buttonHandler routes a pointer to b and marks the screen dirty whenever
// b's pressed state may have changed.
func (g *Game) buttonHandler(b *Button) func(PointerEvent) bool {
	return func(ev PointerEvent) bool {
		was := b.Pressed()
		ok := b.Handle(ev)
		if b.Pressed() != was {
			g.dirty = true
		}
		return ok
	}
}

// needsDraw reports whether anything changed since the last Draw. The
// screen is not cleared between frames, so a clean frame can be skipped.
func (g *Game) needsDraw() bool {
	if g.dirty {
		return true
	}
	for _, r := range g.rows {
		if r.view.Dirty() {
			return true
		}
	}
	return false
}

func (g *Game) Draw(screen *ebiten.Image) {
	if !g.needsDraw() {
		return
	}
	g.dirty = false
	fillScreen(screen, colBG)
	for _, r := range g.rows {
		r.view.Draw(screen)
		r.reset.Draw(screen)
	}
}
