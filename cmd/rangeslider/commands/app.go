package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ingyamilmolinar/rangeslider/core/engine"
	"github.com/ingyamilmolinar/rangeslider/internal/config"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
	"github.com/ingyamilmolinar/rangeslider/internal/render"
	"github.com/ingyamilmolinar/rangeslider/internal/statews"
	"github.com/ingyamilmolinar/rangeslider/internal/store"
	"github.com/ingyamilmolinar/rangeslider/internal/ui"
)

// app is everything a run wires together: the game, and the optional
// store and live feed.
type app struct {
	cfg    config.Config
	logger *game_log.Logger
	game   *ui.Game
	store  *store.Store
	live   *statews.Server
}

func build(cfg config.Config, logger *game_log.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, game: ui.New(logger)}

	for _, sc := range cfg.Sliders {
		opts, err := sc.Options()
		if err != nil {
			return nil, errors.Wrapf(err, "slider %q", sc.Name)
		}
		a.game.AddSlider(opts)
	}

	if cfg.State.Path != "" {
		st, err := store.Open(cfg.State.Path, logger)
		if err != nil {
			return nil, err
		}
		a.store = st
		for _, sl := range a.game.Sliders() {
			store.Bind(st, sl)
		}
	}

	if cfg.Live.Addr != "" {
		a.live = statews.NewServer(logger, statews.ServerConfig{})
		for _, sl := range a.game.Sliders() {
			a.live.Attach(sl)
		}
	}

	a.game.OnCommit(a.afterCommit)
	return a, nil
}

// afterCommit pushes a reset or panel edit to the outputs that only hear
// about thumb commits.
func (a *app) afterCommit(sl *engine.Slider) {
	if a.store != nil {
		if err := a.store.Save(sl.ID(), sl.SaveState(nil)); err != nil {
			a.logger.Errorf("[CLI] save after commit: %v", err)
		}
	}
	if a.live != nil {
		a.live.Publish(sl)
	}
}

// StartLive serves the websocket feed in the background until ctx ends.
func (a *app) StartLive(ctx context.Context) {
	if a.live == nil {
		return
	}
	go func() {
		if err := a.live.ListenAndServe(ctx, a.cfg.Live.Addr); err != nil {
			a.logger.Errorf("[CLI] live feed: %v", err)
		}
	}()
}

// RenderPNG draws every slider headlessly. With one slider the image goes
// to path; with more, each gets path's stem suffixed with its name.
func (a *app) RenderPNG(path string) error {
	sliders := a.game.Sliders()
	if len(sliders) == 0 {
		return errors.New("no sliders to render")
	}
	r, err := render.New(sliders[0].Options().TextSize, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.Close(); err != nil {
			a.logger.Errorf("[CLI] close renderer: %v", err)
		}
	}()

	for _, sl := range sliders {
		sl.SetMeasurer(r.Measurer())
		out := path
		if len(sliders) > 1 {
			out = pngName(path, sl.Options().Name)
		}
		if err := r.SavePNG(out, sl); err != nil {
			return err
		}
		a.logger.Infof("[CLI] wrote %s", out)
	}
	return nil
}

func pngName(path, name string) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%s%s", strings.TrimSuffix(path, ext), name, ext)
}

func (a *app) Close() error {
	return a.store.Close()
}
