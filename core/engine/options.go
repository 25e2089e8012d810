package engine

import (
	"image/color"

	"github.com/google/uuid"

	"github.com/ingyamilmolinar/rangeslider/core/model"
)

// Style holds the colours a renderer paints with.
type Style struct {
	ActiveColor  color.RGBA
	DefaultColor color.RGBA
	LabelColor   color.RGBA
	ShadowColor  color.RGBA
}

// Shadow describes the drop shadow drawn under each thumb.
type Shadow struct {
	Enabled bool
	XOffset float64
	YOffset float64
	Blur    float64
}

// Options configure a Slider. Start from DefaultOptions and override.
type Options struct {
	ID   uuid.UUID
	Name string

	Min, Max float64

	SingleThumb         bool
	AlwaysActive        bool
	ActivateOnDefault   bool
	ShowLabels          bool
	ShowTextAboveThumbs bool
	NotifyWhileDragging bool

	InternalPad     float64
	BarHeight       float64
	ThumbHalfWidth  float64
	ThumbHalfHeight float64
	TouchSlop       float64
	DefaultEpsilon  float64

	TextSize            float64
	TextDistanceToTop   float64
	TextDistanceToThumb float64
	MinEdgeLabel        string
	MaxEdgeLabel        string

	Shadow Shadow
	Style  Style
}

// DefaultOptions returns a fresh set of defaults. Each call builds a new
// value; there is no shared default to mutate.
func DefaultOptions() Options {
	return Options{
		Name:                "range",
		Min:                 model.DefaultMinimum,
		Max:                 model.DefaultMaximum,
		ShowLabels:          true,
		ShowTextAboveThumbs: true,
		InternalPad:         8,
		BarHeight:           1,
		ThumbHalfWidth:      12,
		ThumbHalfHeight:     12,
		TouchSlop:           8,
		TextSize:            14,
		TextDistanceToTop:   8,
		TextDistanceToThumb: 8,
		MinEdgeLabel:        "min",
		MaxEdgeLabel:        "max",
		Shadow: Shadow{
			XOffset: 0,
			YOffset: 2,
			Blur:    2,
		},
		Style: Style{
			ActiveColor:  color.RGBA{0x33, 0xB5, 0xE5, 0xFF},
			DefaultColor: color.RGBA{0x88, 0x88, 0x88, 0xFF},
			LabelColor:   color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
			ShadowColor:  color.RGBA{0, 0, 0, 75},
		},
	}
}
