package commands

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingyamilmolinar/rangeslider/internal/config"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
)

func twoSliders() config.Config {
	cfg := config.Default()
	a, b := config.DefaultSlider(), config.DefaultSlider()
	a.Name, b.Name = "a", "b"
	b.Min, b.Max = -10, 10
	cfg.Sliders = []config.SliderConfig{a, b}
	return cfg
}

func TestBuildAddsSliders(t *testing.T) {
	a, err := build(twoSliders(), game_log.Discard())
	require.NoError(t, err)
	defer a.Close()

	sl := a.game.Sliders()
	require.Len(t, sl, 2)
	assert.Equal(t, -10.0, sl[1].AbsoluteMin())
	assert.Nil(t, a.store)
	assert.Nil(t, a.live)
}

func TestBuildRejectsBadColor(t *testing.T) {
	cfg := config.Default()
	cfg.Sliders[0].Colors.Active = "blue"
	_, err := build(cfg, game_log.Discard())
	require.Error(t, err)
}

func TestStatePersistsAcrossRuns(t *testing.T) {
	cfg := twoSliders()
	cfg.State.Path = filepath.Join(t.TempDir(), "state.db")

	a, err := build(cfg, game_log.Discard())
	require.NoError(t, err)
	sl := a.game.Sliders()[1]
	sl.SetSelectedMax(5)
	a.afterCommit(sl)
	require.NoError(t, a.Close())

	b, err := build(cfg, game_log.Discard())
	require.NoError(t, err)
	defer b.Close()
	assert.InDelta(t, 5, b.game.Sliders()[1].SelectedMax(), 1e-9)
	assert.Equal(t, 100.0, b.game.Sliders()[0].SelectedMax())
}

func TestLiveFeedAttachesSliders(t *testing.T) {
	cfg := twoSliders()
	cfg.Live.Addr = "127.0.0.1:0"
	a, err := build(cfg, game_log.Discard())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.live)
	snap := a.live.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "b", snap[1].Name)

	sl := a.game.Sliders()[0]
	sl.SetSelectedMin(30)
	a.afterCommit(sl)
	assert.Equal(t, 30.0, a.live.Snapshot()[0].SelectedMin)
}

func TestRenderPNGPerSlider(t *testing.T) {
	a, err := build(twoSliders(), game_log.Discard())
	require.NoError(t, err)
	defer a.Close()

	out := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, a.RenderPNG(out))
	assert.FileExists(t, filepath.Join(filepath.Dir(out), "shot-a.png"))
	assert.FileExists(t, filepath.Join(filepath.Dir(out), "shot-b.png"))
	assert.NoFileExists(t, out)
}

func TestRenderPNGSingleSlider(t *testing.T) {
	a, err := build(config.Default(), game_log.Discard())
	require.NoError(t, err)
	defer a.Close()

	out := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, a.RenderPNG(out))
	assert.FileExists(t, out)
}

func TestPngName(t *testing.T) {
	assert.Equal(t, "out/x-price.png", pngName("out/x.png", "price"))
	assert.Equal(t, "x-price", pngName("x", "price"))
}

func TestOverridesOnlyChangedFlags(t *testing.T) {
	cmd := &cobra.Command{}
	f := cmd.Flags()
	f.Float64Var(&maxValue, "max", 100, "")
	f.Float64Var(&minValue, "min", 0, "")
	f.BoolVar(&singleThumb, "single-thumb", false, "")
	require.NoError(t, f.Set("max", "50"))
	require.NoError(t, f.Set("single-thumb", "true"))

	o := overridesFromFlags(cmd)
	require.NotNil(t, o.Max)
	assert.Equal(t, 50.0, *o.Max)
	require.NotNil(t, o.SingleThumb)
	assert.True(t, *o.SingleThumb)
	assert.Nil(t, o.Min)
	assert.Nil(t, o.LogLevel)

	cfg := config.Default()
	o.Apply(&cfg)
	assert.Equal(t, 50.0, cfg.Sliders[0].Max)
	assert.True(t, cfg.Sliders[0].SingleThumb)
}
