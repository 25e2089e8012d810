package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingyamilmolinar/rangeslider/core/engine"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, game_log.LevelInfo, cfg.LogLevel())
	require.Len(t, cfg.Sliders, 1)

	o, err := cfg.Sliders[0].Options()
	require.NoError(t, err)
	def := engine.DefaultOptions()
	assert.Equal(t, def.Style, o.Style)
	assert.Equal(t, def.Min, o.Min)
	assert.Equal(t, def.Max, o.Max)
	assert.Equal(t, def.ThumbHalfWidth, o.ThumbHalfWidth)
}

func TestParsePartialSliderKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
logging:
  level: debug
sliders:
  - name: price
    max: 500
    single_thumb: true
    colors:
      active: "#FF0000"
  - name: volume
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Sliders, 2)

	price := cfg.Sliders[0]
	assert.Equal(t, 500.0, price.Max)
	assert.Equal(t, 0.0, price.Min)
	assert.True(t, price.SingleThumb)
	assert.True(t, price.ShowLabels, "unset flags keep their default")
	assert.Equal(t, "#888888", price.Colors.Default)

	o, err := price.Options()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xFF, 0, 0, 0xFF}, o.Style.ActiveColor)

	assert.Equal(t, DefaultSlider().ThumbSize, cfg.Sliders[1].ThumbSize)
	assert.Equal(t, 640, cfg.Window.Width, "window defaults survive")
}

func TestParseEmptyDocumentIsDefault(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("logging:\n  lvl: debug\n"))
	require.Error(t, err)
	_, err = Parse([]byte("window:\n  depth: 3\n"))
	require.Error(t, err)
}

func TestParseRejectsTrailingDocument(t *testing.T) {
	_, err := Parse([]byte("logging:\n  level: info\n---\nlogging:\n  level: debug\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "slider.yaml")
	require.NoError(t, os.WriteFile(p, []byte("state:\n  path: /tmp/s.db\nlive:\n  addr: :8089\n"), 0o644))

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/s.db", cfg.State.Path)
	assert.Equal(t, ":8089", cfg.Live.Addr)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	_, err = Load("")
	require.Error(t, err)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"window", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"no sliders", func(c *Config) { c.Sliders = nil }, "sliders must not be empty"},
		{"empty name", func(c *Config) { c.Sliders[0].Name = "" }, "name must not be empty"},
		{"bad id", func(c *Config) { c.Sliders[0].ID = "nope" }, "id"},
		{"bar", func(c *Config) { c.Sliders[0].BarHeight = 0 }, "bar_height"},
		{"thumb", func(c *Config) { c.Sliders[0].ThumbSize = -1 }, "thumb_size"},
		{"text", func(c *Config) { c.Sliders[0].TextSize = 0 }, "text_size"},
		{"slop", func(c *Config) { c.Sliders[0].TouchSlop = -2 }, "touch_slop"},
		{"epsilon", func(c *Config) { c.Sliders[0].DefaultEpsilon = 0.5 }, "default_epsilon"},
		{"colour", func(c *Config) { c.Sliders[0].Colors.Label = "white" }, "colors.label"},
		{"duplicate", func(c *Config) { c.Sliders = append(c.Sliders, c.Sliders[0]) }, "duplicate name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#33B5E5")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x33, 0xB5, 0xE5, 0xFF}, c)

	c, err = ParseColor("0000004B")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 0, 0x4B}, c)

	for _, bad := range []string{"", "#FFF", "#GGGGGG", "#1234567"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestOptionsIDs(t *testing.T) {
	s := DefaultSlider()
	s.Name = "volume"
	a, err := s.Options()
	require.NoError(t, err)
	b, err := s.Options()
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID, "name derived ids are stable")
	assert.NotEqual(t, uuid.Nil, a.ID)

	s.ID = "7d444840-9dc0-11d1-b245-5ffdce74fad2"
	c, err := s.Options()
	require.NoError(t, err)
	assert.Equal(t, uuid.MustParse(s.ID), c.ID)
}

func TestOptionsCopiesFields(t *testing.T) {
	s := DefaultSlider()
	s.ThumbSize = 30
	s.TouchSlop = 3
	s.NotifyWhileDragging = true
	s.Shadow.Enabled = true
	s.Shadow.Blur = 4

	o, err := s.Options()
	require.NoError(t, err)
	assert.Equal(t, 15.0, o.ThumbHalfWidth)
	assert.Equal(t, 15.0, o.ThumbHalfHeight)
	assert.Equal(t, 3.0, o.TouchSlop)
	assert.True(t, o.NotifyWhileDragging)
	assert.Equal(t, engine.Shadow{Enabled: true, XOffset: 0, YOffset: 2, Blur: 4}, o.Shadow)
}

func TestFlagOverrides(t *testing.T) {
	cfg := Default()
	cfg.Sliders = append(cfg.Sliders, DefaultSlider())
	cfg.Sliders[1].Name = "second"

	lvl, db, lo, single := "error", "state.db", 10.0, true
	FlagOverrides{LogLevel: &lvl, StatePath: &db, Min: &lo, SingleThumb: &single}.Apply(&cfg)

	assert.Equal(t, game_log.LevelError, cfg.LogLevel())
	assert.Equal(t, "state.db", cfg.State.Path)
	assert.Equal(t, "", cfg.Live.Addr)
	for _, s := range cfg.Sliders {
		assert.Equal(t, 10.0, s.Min)
		assert.Equal(t, 100.0, s.Max)
		assert.True(t, s.SingleThumb)
		assert.False(t, s.NotifyWhileDragging)
	}

	FlagOverrides{}.Apply(nil)
}
