// Package config loads the YAML configuration for the range slider demo
// host and turns each slider entry into engine.Options.
package config

import (
	"bytes"
	"image/color"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/gogpu/gg"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ingyamilmolinar/rangeslider/core/engine"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
	"github.com/ingyamilmolinar/rangeslider/internal/utils"
)

// Config is the top-level YAML document.
type Config struct {
	Logging LoggingConfig  `yaml:"logging"`
	Window  WindowConfig   `yaml:"window"`
	State   StateConfig    `yaml:"state"`
	Live    LiveConfig     `yaml:"live"`
	Sliders []SliderConfig `yaml:"sliders"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// StateConfig points at the bolt file used to persist selections between
// runs. An empty path disables persistence.
type StateConfig struct {
	Path string `yaml:"path"`
}

// LiveConfig enables the websocket feed of selection changes.
type LiveConfig struct {
	Addr string `yaml:"addr"`
}

type ColorsConfig struct {
	Active  string `yaml:"active"`
	Default string `yaml:"default"`
	Label   string `yaml:"label"`
}

type ShadowConfig struct {
	Enabled bool    `yaml:"enabled"`
	XOffset float64 `yaml:"x_offset"`
	YOffset float64 `yaml:"y_offset"`
	Blur    float64 `yaml:"blur"`
	Color   string  `yaml:"color"`
}

// SliderConfig is one slider. Fields missing from the YAML keep the values
// from DefaultSlider.
type SliderConfig struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id,omitempty"`

	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`

	SingleThumb         bool `yaml:"single_thumb"`
	AlwaysActive        bool `yaml:"always_active"`
	ActivateOnDefault   bool `yaml:"activate_on_default_values"`
	ShowLabels          bool `yaml:"show_labels"`
	ShowTextAboveThumbs bool `yaml:"show_text_above_thumbs"`
	NotifyWhileDragging bool `yaml:"notify_while_dragging"`

	InternalPadding float64 `yaml:"internal_padding"`
	BarHeight       float64 `yaml:"bar_height"`
	ThumbSize       float64 `yaml:"thumb_size"`
	TouchSlop       float64 `yaml:"touch_slop"`
	DefaultEpsilon  float64 `yaml:"default_epsilon"`
	TextSize        float64 `yaml:"text_size"`

	Colors ColorsConfig `yaml:"colors"`
	Shadow ShadowConfig `yaml:"shadow"`
}

// DefaultSlider mirrors engine.DefaultOptions in YAML form.
func DefaultSlider() SliderConfig {
	o := engine.DefaultOptions()
	return SliderConfig{
		Name:                o.Name,
		Min:                 o.Min,
		Max:                 o.Max,
		ShowLabels:          o.ShowLabels,
		ShowTextAboveThumbs: o.ShowTextAboveThumbs,
		InternalPadding:     o.InternalPad,
		BarHeight:           o.BarHeight,
		ThumbSize:           2 * o.ThumbHalfWidth,
		TouchSlop:           o.TouchSlop,
		TextSize:            o.TextSize,
		Colors: ColorsConfig{
			Active:  "#33B5E5",
			Default: "#888888",
			Label:   "#FFFFFF",
		},
		Shadow: ShadowConfig{
			XOffset: o.Shadow.XOffset,
			YOffset: o.Shadow.YOffset,
			Blur:    o.Shadow.Blur,
			Color:   "#0000004B",
		},
	}
}

// UnmarshalYAML decodes on top of DefaultSlider so partial entries work.
func (s *SliderConfig) UnmarshalYAML(n *yaml.Node) error {
	type plain SliderConfig
	p := plain(DefaultSlider())
	if err := n.Decode(&p); err != nil {
		return err
	}
	*s = SliderConfig(p)
	return nil
}

// Default returns a complete configuration with a single default slider.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Window:  WindowConfig{Title: "Range slider", Width: 640, Height: 480},
		Sliders: []SliderConfig{DefaultSlider()},
	}
}

// Load reads path and decodes it over the defaults. Unknown keys are
// rejected to catch typos.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config file")
	}
	return Parse(b)
}

// Parse decodes YAML bytes over the defaults.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, errors.Wrap(err, "decode config yaml")
	}
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}
	return cfg, nil
}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ParseColor accepts #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (color.RGBA, error) {
	if !hexColor.MatchString(s) {
		return color.RGBA{}, errors.Errorf("invalid colour %q (want #RRGGBB or #RRGGBBAA)", s)
	}
	c := gg.Hex(s).Color()
	return color.RGBAModel.Convert(c).(color.RGBA), nil
}

// Validate checks every value and returns the first problem found.
func (c *Config) Validate() error {
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return errors.Errorf("logging.level %q is not one of debug, info, warn, error, none", c.Logging.Level)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if len(c.Sliders) == 0 {
		return errors.New("sliders must not be empty")
	}
	names := map[string]bool{}
	for i := range c.Sliders {
		s := &c.Sliders[i]
		if err := s.Validate(); err != nil {
			return errors.Wrapf(err, "sliders[%d]", i)
		}
		if names[s.Name] {
			return errors.Errorf("sliders[%d]: duplicate name %q", i, s.Name)
		}
		names[s.Name] = true
	}
	return nil
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true, "none": true}

// LogLevel is the configured level for the root logger.
func (c *Config) LogLevel() game_log.Level { return game_log.LevelFromString(c.Logging.Level) }

// Validate checks one slider entry.
func (s *SliderConfig) Validate() error {
	if s.Name == "" {
		return errors.New("name must not be empty")
	}
	if s.ID != "" {
		if _, err := uuid.Parse(s.ID); err != nil {
			return errors.Wrapf(err, "id %q", s.ID)
		}
	}
	if !utils.Finite(s.Min) || !utils.Finite(s.Max) {
		return errors.Errorf("min/max must be finite, got %v..%v", s.Min, s.Max)
	}
	nonNeg := map[string]float64{
		"internal_padding": s.InternalPadding,
		"touch_slop":       s.TouchSlop,
		"shadow.blur":      s.Shadow.Blur,
	}
	for k, v := range nonNeg {
		if v < 0 || !utils.Finite(v) {
			return errors.Errorf("%s must be >= 0, got %v", k, v)
		}
	}
	if s.BarHeight <= 0 {
		return errors.Errorf("bar_height must be > 0, got %v", s.BarHeight)
	}
	if s.ThumbSize <= 0 {
		return errors.Errorf("thumb_size must be > 0, got %v", s.ThumbSize)
	}
	if s.TextSize <= 0 {
		return errors.Errorf("text_size must be > 0, got %v", s.TextSize)
	}
	if s.DefaultEpsilon < 0 || s.DefaultEpsilon >= 0.5 {
		return errors.Errorf("default_epsilon must be in [0, 0.5), got %v", s.DefaultEpsilon)
	}
	for k, v := range map[string]string{
		"colors.active":  s.Colors.Active,
		"colors.default": s.Colors.Default,
		"colors.label":   s.Colors.Label,
		"shadow.color":   s.Shadow.Color,
	} {
		if _, err := ParseColor(v); err != nil {
			return errors.Wrap(err, k)
		}
	}
	return nil
}

// Options converts a validated entry into engine options. Without an
// explicit id the slider gets a stable id derived from its name so its
// persisted state survives restarts.
func (s SliderConfig) Options() (engine.Options, error) {
	if err := s.Validate(); err != nil {
		return engine.Options{}, err
	}
	o := engine.DefaultOptions()
	o.Name = s.Name
	if s.ID != "" {
		o.ID = uuid.MustParse(s.ID)
	} else {
		o.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("rangeslider:"+s.Name))
	}
	o.Min, o.Max = s.Min, s.Max
	o.SingleThumb = s.SingleThumb
	o.AlwaysActive = s.AlwaysActive
	o.ActivateOnDefault = s.ActivateOnDefault
	o.ShowLabels = s.ShowLabels
	o.ShowTextAboveThumbs = s.ShowTextAboveThumbs
	o.NotifyWhileDragging = s.NotifyWhileDragging
	o.InternalPad = s.InternalPadding
	o.BarHeight = s.BarHeight
	o.ThumbHalfWidth = s.ThumbSize / 2
	o.ThumbHalfHeight = s.ThumbSize / 2
	o.TouchSlop = s.TouchSlop
	o.DefaultEpsilon = s.DefaultEpsilon
	o.TextSize = s.TextSize
	o.Shadow = engine.Shadow{
		Enabled: s.Shadow.Enabled,
		XOffset: s.Shadow.XOffset,
		YOffset: s.Shadow.YOffset,
		Blur:    s.Shadow.Blur,
	}
	// colours were checked by Validate
	o.Style.ActiveColor, _ = ParseColor(s.Colors.Active)
	o.Style.DefaultColor, _ = ParseColor(s.Colors.Default)
	o.Style.LabelColor, _ = ParseColor(s.Colors.Label)
	o.Style.ShadowColor, _ = ParseColor(s.Shadow.Color)
	return o, nil
}

// FlagOverrides carries command line values that win over the file. A nil
// pointer leaves the file value alone. Slider overrides apply to every
// slider entry.
type FlagOverrides struct {
	LogLevel            *string
	StatePath           *string
	LiveAddr            *string
	Min                 *float64
	Max                 *float64
	SingleThumb         *bool
	NotifyWhileDragging *bool
}

// Apply merges the set overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.StatePath != nil {
		cfg.State.Path = *o.StatePath
	}
	if o.LiveAddr != nil {
		cfg.Live.Addr = *o.LiveAddr
	}
	for i := range cfg.Sliders {
		s := &cfg.Sliders[i]
		if o.Min != nil {
			s.Min = *o.Min
		}
		if o.Max != nil {
			s.Max = *o.Max
		}
		if o.SingleThumb != nil {
			s.SingleThumb = *o.SingleThumb
		}
		if o.NotifyWhileDragging != nil {
			s.NotifyWhileDragging = *o.NotifyWhileDragging
		}
	}
}
