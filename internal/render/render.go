// Package render paints a slider frame in software with gogpu/gg. It backs
// the PNG snapshot command and golden-pixel tests; it does not need a
// window or a GPU.
package render

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ingyamilmolinar/rangeslider/core/engine"
	"github.com/ingyamilmolinar/rangeslider/core/gesture"
	"github.com/ingyamilmolinar/rangeslider/core/layout"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
)

// pressedRing is the stroke width of the halo drawn around a pressed thumb.
const pressedRing = 2

// Renderer holds the font and optional thumb images shared by every draw.
type Renderer struct {
	source *text.FontSource
	face   text.Face
	thumbs map[layout.Visual]*gg.ImageBuf
	logger *game_log.Logger
}

// New loads the Go Regular font at textSize points.
func New(textSize float64, logger *game_log.Logger) (*Renderer, error) {
	if logger == nil {
		logger = game_log.Discard()
	}
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "load label font")
	}
	return &Renderer{
		source: src,
		face:   src.Face(textSize),
		thumbs: make(map[layout.Visual]*gg.ImageBuf),
		logger: logger,
	}, nil
}

func (r *Renderer) Close() error {
	if r == nil || r.source == nil {
		return nil
	}
	return r.source.Close()
}

type faceMeasurer struct{ face text.Face }

func (m faceMeasurer) MeasureText(s string) float64 {
	w, _ := text.Measure(s, m.face)
	return w
}

// Measurer measures labels with the renderer's font so layout and pixels
// agree. Install it with Slider.SetMeasurer.
func (r *Renderer) Measurer() layout.Measurer { return faceMeasurer{face: r.face} }

// SetThumbImage replaces the drawn circle for one visual state. A nil image
// restores the circle.
func (r *Renderer) SetThumbImage(v layout.Visual, img image.Image) {
	if img == nil {
		delete(r.thumbs, v)
		return
	}
	r.thumbs[v] = gg.ImageBufFromImage(img)
}

// Draw paints s onto dc with its top-left corner at (ox, oy).
func (r *Renderer) Draw(dc *gg.Context, s *engine.Slider, ox, oy float64) error {
	f := s.Frame()
	opts := s.Options()
	st := opts.Style

	fg := st.DefaultColor
	if f.Active {
		fg = st.ActiveColor
	}

	if err := fillRect(dc, f.Track, ox, oy, st.DefaultColor); err != nil {
		return errors.Wrap(err, "fill track")
	}
	if f.Active {
		if err := fillRect(dc, f.Highlight, ox, oy, st.ActiveColor); err != nil {
			return errors.Wrap(err, "fill highlight")
		}
	}

	pressed := s.Controller().PressedThumb()
	if f.ShowMinThumb {
		if err := r.drawThumb(dc, f.MinThumb, f.ThumbVisual(pressed == gesture.ThumbMin), opts, fg, ox, oy); err != nil {
			return err
		}
	}
	if err := r.drawThumb(dc, f.MaxThumb, f.ThumbVisual(pressed == gesture.ThumbMax), opts, fg, ox, oy); err != nil {
		return err
	}

	dc.SetFont(r.face)
	dc.SetColor(st.LabelColor)
	if f.ShowEdgeLabels {
		dc.DrawString(f.MinEdge.Text, ox+f.MinEdge.X, oy+f.MinEdge.Y)
		dc.DrawString(f.MaxEdge.Text, ox+f.MaxEdge.X, oy+f.MaxEdge.Y)
	}
	if f.ShowValueLabels {
		if f.ShowMinThumb {
			dc.DrawString(f.MinLabel.Text, ox+f.MinLabel.X, oy+f.MinLabel.Y)
		}
		dc.DrawString(f.MaxLabel.Text, ox+f.MaxLabel.X, oy+f.MaxLabel.Y)
	}
	return nil
}

func fillRect(dc *gg.Context, rc layout.Rect, ox, oy float64, c color.RGBA) error {
	dc.SetColor(c)
	dc.DrawRectangle(ox+rc.X0, oy+rc.Y0, rc.Dx(), math.Max(rc.Dy(), 1))
	return dc.Fill()
}

func (r *Renderer) drawThumb(dc *gg.Context, rc layout.Rect, v layout.Visual, opts engine.Options, fg color.RGBA, ox, oy float64) error {
	cx := ox + (rc.X0+rc.X1)/2
	cy := oy + (rc.Y0+rc.Y1)/2
	rad := math.Min(rc.Dx(), rc.Dy()) / 2

	if opts.Shadow.Enabled {
		dc.SetColor(opts.Style.ShadowColor)
		dc.DrawCircle(cx+opts.Shadow.XOffset, cy+opts.Shadow.YOffset, rad+opts.Shadow.Blur/2)
		if err := dc.Fill(); err != nil {
			return errors.Wrap(err, "fill thumb shadow")
		}
	}

	if img, ok := r.thumbs[v]; ok {
		dc.DrawImageEx(img, gg.DrawImageOptions{X: ox + rc.X0, Y: oy + rc.Y0, DstWidth: rc.Dx(), DstHeight: rc.Dy()})
		return nil
	}

	c := fg
	if v == layout.VisualDisabled {
		c = opts.Style.DefaultColor
	}
	dc.SetColor(c)
	dc.DrawCircle(cx, cy, rad)
	if err := dc.Fill(); err != nil {
		return errors.Wrap(err, "fill thumb")
	}
	if v == layout.VisualPressed {
		halo := c
		halo.A /= 2
		dc.SetColor(halo)
		dc.SetLineWidth(pressedRing)
		dc.DrawCircle(cx, cy, rad+pressedRing)
		if err := dc.Stroke(); err != nil {
			return errors.Wrap(err, "stroke pressed ring")
		}
	}
	return nil
}

// canvas draws s alone on a transparent context sized by Slider.Measure at
// the slider's current width. The caller closes the context.
func (r *Renderer) canvas(s *engine.Slider) (*gg.Context, error) {
	size := s.Measure(layout.Constraints{Width: s.Width()})
	w, h := int(math.Ceil(size.Width)), int(math.Ceil(size.Height))
	if w <= 0 || h <= 0 {
		return nil, errors.Errorf("cannot render a %dx%d slider", w, h)
	}
	dc := gg.NewContext(w, h)
	if err := r.Draw(dc, s, 0, 0); err != nil {
		dc.Close()
		return nil, err
	}
	return dc, nil
}

// Render returns the slider as an image.
func (r *Renderer) Render(s *engine.Slider) (image.Image, error) {
	dc, err := r.canvas(s)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// WritePNG renders s and encodes it as PNG.
func (r *Renderer) WritePNG(w io.Writer, s *engine.Slider) error {
	dc, err := r.canvas(s)
	if err != nil {
		return err
	}
	defer dc.Close()
	return errors.Wrap(dc.EncodePNG(w), "encode png")
}

// SavePNG writes the rendered slider to path.
func (r *Renderer) SavePNG(path string, s *engine.Slider) error {
	var buf bytes.Buffer
	if err := r.WritePNG(&buf, s); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	r.logger.Infof("[RENDER] wrote %s", path)
	return nil
}
