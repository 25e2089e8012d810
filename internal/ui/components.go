package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/rangeslider/core/gesture"
)

// ButtonStyle describes rectangular button visuals.
type ButtonStyle struct {
	Fill   color.Color
	Border color.Color
}

var defaultButtonStyle = ButtonStyle{
	Fill:   color.RGBA{60, 60, 60, 255},
	Border: color.RGBA{160, 160, 160, 255},
}

// Draw renders the button rectangle using the global drawButton primitive.
func (s ButtonStyle) Draw(dst *ebiten.Image, r image.Rectangle, pressed bool) {
	drawButton(dst, float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()), s.Fill, s.Border, pressed)
}

// Button fires OnClick when a pointer is pressed and released inside it.
type Button struct {
	r       image.Rectangle
	Label   string
	Style   ButtonStyle
	OnClick func()

	pointer int
	pressed bool
}

func NewButton(label string, onClick func()) *Button {
	return &Button{Label: label, Style: defaultButtonStyle, OnClick: onClick}
}

func (b *Button) SetRect(r image.Rectangle) { b.r = r }

func (b *Button) Rect() image.Rectangle { return b.r }

func (b *Button) Pressed() bool { return b.pressed }

// Handle reports whether the event belonged to the button.
func (b *Button) Handle(ev PointerEvent) bool {
	in := image.Pt(int(ev.X), int(ev.Y)).In(b.r)
	switch ev.Kind {
	case gesture.Press:
		if in && !b.pressed {
			b.pressed = true
			b.pointer = ev.PointerID
			return true
		}
	case gesture.Release:
		if b.pressed && ev.PointerID == b.pointer {
			b.pressed = false
			if in && b.OnClick != nil {
				b.OnClick()
			}
			return true
		}
	case gesture.Cancel:
		if b.pressed {
			b.pressed = false
			return true
		}
	}
	return false
}

func (b *Button) Draw(dst *ebiten.Image) {
	b.Style.Draw(dst, b.r, b.pressed)
	tx := float64(b.r.Min.X) + (float64(b.r.Dx())-float64(len(b.Label)*debugGlyphWidth))/2
	ty := float64(b.r.Min.Y) + (float64(b.r.Dy())-debugLineHeight)/2
	drawText(dst, b.Label, tx, ty)
}
