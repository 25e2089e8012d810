package ui

import (
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// fakeInput is a scripted mouse, keyboard and touch screen.
type fakeInput struct {
	x, y    int
	down    bool
	esc     bool
	touches map[ebiten.TouchID][2]int
	order   []ebiten.TouchID
}

func installInput(t *testing.T) *fakeInput {
	t.Helper()
	in := &fakeInput{touches: map[ebiten.TouchID][2]int{}}
	restore := SetInputForTest(
		func() (int, int) { return in.x, in.y },
		func(b ebiten.MouseButton) bool { return b == ebiten.MouseButtonLeft && in.down },
		func(k ebiten.Key) bool { return k == ebiten.KeyEscape && in.esc },
		func(ids []ebiten.TouchID) []ebiten.TouchID { return append(ids, in.order...) },
		func(id ebiten.TouchID) (int, int) { p := in.touches[id]; return p[0], p[1] },
	)
	t.Cleanup(restore)
	return in
}

func (in *fakeInput) touch(id ebiten.TouchID, x, y int) {
	if _, ok := in.touches[id]; !ok {
		in.order = append(in.order, id)
	}
	in.touches[id] = [2]int{x, y}
}

func (in *fakeInput) lift(id ebiten.TouchID) {
	delete(in.touches, id)
	for i, o := range in.order {
		if o == id {
			in.order = append(in.order[:i], in.order[i+1:]...)
			break
		}
	}
}

type drawCall struct {
	kind   string
	x, y   float64
	w, h   float64
	c      color.Color
	filled bool
	text   string
}

// captureDraws swaps the draw primitives for recorders.
func captureDraws(t *testing.T) *[]drawCall {
	t.Helper()
	var calls []drawCall
	oldRect, oldCircle, oldText, oldButton, oldFill := drawRect, drawCircle, drawText, drawButton, fillScreen
	drawRect = func(_ *ebiten.Image, x, y, w, h float64, c color.Color, filled bool) {
		calls = append(calls, drawCall{kind: "rect", x: x, y: y, w: w, h: h, c: c, filled: filled})
	}
	drawCircle = func(_ *ebiten.Image, cx, cy, r float64, c color.Color, filled bool) {
		calls = append(calls, drawCall{kind: "circle", x: cx, y: cy, w: r, c: c, filled: filled})
	}
	drawText = func(_ *ebiten.Image, s string, x, y float64) {
		calls = append(calls, drawCall{kind: "text", x: x, y: y, text: s})
	}
	drawButton = func(_ *ebiten.Image, x, y, w, h float64, fill, _ color.Color, pressed bool) {
		calls = append(calls, drawCall{kind: "button", x: x, y: y, w: w, h: h, c: fill, filled: pressed})
	}
	fillScreen = func(*ebiten.Image, color.Color) {}
	t.Cleanup(func() {
		drawRect, drawCircle, drawText, drawButton, fillScreen = oldRect, oldCircle, oldText, oldButton, oldFill
	})
	return &calls
}

func countKind(calls []drawCall, kind string) int {
	n := 0
	for _, c := range calls {
		if c.kind == kind {
			n++
		}
	}
	return n
}
