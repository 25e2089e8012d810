package ui

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/rangeslider/core/gesture"
)

// maxPointers bounds the tracked pointers: slot 0 is the mouse, 1-9 touches.
const maxPointers = 10

// PointerEvent is a gesture event in screen coordinates.
type PointerEvent struct {
	Kind      gesture.Kind
	PointerID int
	X, Y      float64
}

type pointerState struct {
	down       bool
	suppressed bool
	lastX      int
	lastY      int
	touchID    ebiten.TouchID
	touchInUse bool
}

// PointerTracker turns polled mouse and touch state into press, move and
// release edges, one slot per pointer. Escape cancels whatever is in
// flight.
type PointerTracker struct {
	slots      [maxPointers]pointerState
	touchIDs   []ebiten.TouchID
	escapePrev bool
}

// Poll reads the current input state and returns the edges since the last
// call, mouse first.
func (t *PointerTracker) Poll() []PointerEvent {
	var out []PointerEvent

	mx, my := cursorPosition()
	out = t.step(out, 0, mx, my, isMouseButtonPressed(ebiten.MouseButtonLeft))

	t.touchIDs = appendTouchIDs(t.touchIDs[:0])
	var seen [maxPointers]bool
	for _, id := range t.touchIDs {
		slot := t.touchSlot(id)
		if slot < 0 {
			continue
		}
		seen[slot] = true
		x, y := touchPosition(id)
		out = t.step(out, slot, x, y, true)
	}
	for i := 1; i < maxPointers; i++ {
		s := &t.slots[i]
		if s.touchInUse && !seen[i] {
			out = t.step(out, i, s.lastX, s.lastY, false)
			s.touchInUse = false
		}
	}

	esc := isKeyPressed(ebiten.KeyEscape)
	if esc && !t.escapePrev && t.anyDown() {
		out = append(out, PointerEvent{Kind: gesture.Cancel})
		for i := range t.slots {
			if t.slots[i].down {
				t.slots[i].down = false
				t.slots[i].suppressed = true
			}
		}
	}
	t.escapePrev = esc
	return out
}

func (t *PointerTracker) anyDown() bool {
	for _, s := range t.slots {
		if s.down {
			return true
		}
	}
	return false
}

func (t *PointerTracker) step(out []PointerEvent, slot, x, y int, pressed bool) []PointerEvent {
	s := &t.slots[slot]
	if s.suppressed {
		// a cancelled pointer stays silent until it lifts
		s.suppressed = pressed
		s.lastX, s.lastY = x, y
		return out
	}
	ev := PointerEvent{PointerID: slot, X: float64(x), Y: float64(y)}
	switch {
	case pressed && !s.down:
		ev.Kind = gesture.Press
		out = append(out, ev)
	case pressed && (x != s.lastX || y != s.lastY):
		ev.Kind = gesture.Move
		out = append(out, ev)
	case !pressed && s.down:
		ev.Kind = gesture.Release
		out = append(out, ev)
	}
	s.down = pressed
	s.lastX, s.lastY = x, y
	return out
}

// touchSlot maps a touch id to a pointer slot, allocating one if needed.
// It returns -1 when every slot is taken.
func (t *PointerTracker) touchSlot(id ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if t.slots[i].touchInUse && t.slots[i].touchID == id {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !t.slots[i].touchInUse {
			t.slots[i] = pointerState{touchID: id, touchInUse: true}
			return i
		}
	}
	return -1
}
