package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// The draw primitives are variables so tests can capture draw calls
// without a graphics context.

var drawRect = func(dst *ebiten.Image, x, y, w, h float64, c color.Color, filled bool) {
	if filled {
		vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), c, true)
	} else {
		vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(h), 1, c, true)
	}
}

var drawCircle = func(dst *ebiten.Image, cx, cy, r float64, c color.Color, filled bool) {
	if filled {
		vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(r), c, true)
	} else {
		vector.StrokeCircle(dst, float32(cx), float32(cy), float32(r), 2, c, true)
	}
}

// drawText prints with the built-in debug font; y is the top of the line.
var drawText = func(dst *ebiten.Image, s string, x, y float64) {
	ebitenutil.DebugPrintAt(dst, s, int(x), int(y))
}

// drawButton renders a filled rectangle with a border.
var drawButton = func(dst *ebiten.Image, x, y, w, h float64, fill, border color.Color, pressed bool) {
	fc := fill
	if pressed {
		if c, ok := fill.(color.RGBA); ok {
			fc = color.RGBA{c.R / 2, c.G / 2, c.B / 2, c.A}
		}
	}
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), fc, false)
	vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(h), 1, border, false)
}

// debugGlyphWidth and debugLineHeight describe ebitenutil's debug font.
const (
	debugGlyphWidth = 6
	debugLineHeight = 16
)
