//go:build fyne

// Package panel is a desktop control window that edits the sliders'
// range and selection through text fields.
package panel

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ingyamilmolinar/rangeslider/core/engine"
	"github.com/ingyamilmolinar/rangeslider/internal/binding"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
	"github.com/ingyamilmolinar/rangeslider/internal/ui"
)

// Run binds every slider of g to an element and opens the control window
// on its own goroutine. Call it before the game loop starts; edits are
// applied on the game loop through g.Do.
func Run(g *ui.Game, logger *game_log.Logger) {
	if logger == nil {
		logger = game_log.Discard()
	}
	sliders := g.Sliders()
	elems := make([]*binding.Element, len(sliders))
	for i, sl := range sliders {
		elems[i] = newElement(sl, logger)
	}

	go func() {
		a := app.New()
		w := a.NewWindow("Controls")
		rows := container.NewVBox()
		for i, sl := range sliders {
			rows.Add(sliderForm(g, w, sl, elems[i]))
		}
		w.SetContent(rows)
		w.Resize(fyne.NewSize(320, 0))
		w.ShowAndRun()
	}()
}

func newElement(sl *engine.Slider, logger *game_log.Logger) *binding.Element {
	e := binding.NewElement()
	e.Minimum.Set(sl.AbsoluteMin())
	e.Maximum.Set(sl.AbsoluteMax())
	e.Lower.Set(sl.SelectedMin())
	e.Upper.Set(sl.SelectedMax())
	binding.Bind(e, sl, logger)
	return e
}

func sliderForm(g *ui.Game, w fyne.Window, sl *engine.Slider, e *binding.Element) fyne.CanvasObject {
	form := widget.NewForm(
		numberField(g, w, sl, "Minimum", e.Minimum),
		numberField(g, w, sl, "Maximum", e.Maximum),
		numberField(g, w, sl, "Lower", e.Lower),
		numberField(g, w, sl, "Upper", e.Upper),
	)
	reset := widget.NewButton("Reset", func() {
		g.Do(func() {
			g.ResetSlider(sl)
			e.Minimum.Set(sl.AbsoluteMin())
			e.Maximum.Set(sl.AbsoluteMax())
			e.CommitLower(sl.SelectedMin())
			e.CommitUpper(sl.SelectedMax())
		})
	})
	return widget.NewCard(sl.Options().Name, sl.ID().String(), container.NewVBox(form, reset))
}

// numberField shows p in an entry. Submitting a number writes p on the game
// loop and commits sl; writes from the slider side refresh the text.
func numberField(g *ui.Game, w fyne.Window, sl *engine.Slider, label string, p *binding.Property) *widget.FormItem {
	entry := widget.NewEntry()
	entry.SetText(engine.FormatValue(p.Get()))
	p.AddListener(func(v float64) { entry.SetText(engine.FormatValue(v)) })
	entry.OnSubmitted = func(s string) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		g.Do(func() {
			p.Set(v)
			g.Commit(sl)
		})
	}
	return widget.NewFormItem(label, entry)
}
