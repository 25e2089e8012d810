// Package commands is the rangeslider command line.
package commands

import (
	"context"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/rangeslider/internal/config"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
)

var (
	configPath          string
	logLevel            string
	minValue            float64
	maxValue            float64
	singleThumb         bool
	notifyWhileDragging bool
	stateDB             string
	wsAddr              string
	pngPath             string
	showPanel           bool
)

var rootCmd = &cobra.Command{
	Use:   "rangeslider",
	Short: "Dual-thumb range slider demo",
	Long: `rangeslider opens a window with one or more range sliders described by a
YAML config. Selections can be persisted to a bolt file and streamed over a
websocket. With --png it renders the sliders headlessly and exits.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := game_log.New(os.Stderr, cfg.LogLevel())

		a, err := build(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		if pngPath != "" {
			return a.RenderPNG(pngPath)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		a.StartLive(ctx)
		if showPanel {
			startPanel(a.game, logger)
		}

		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
		ebiten.SetWindowTitle(cfg.Window.Title)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		// Game.Draw skips frames where nothing changed
		ebiten.SetScreenClearedEveryFrame(false)
		return errors.Wrap(ebiten.RunGame(a.game), "run game")
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	f.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error or none")
	f.Float64Var(&minValue, "min", 0, "absolute minimum for every slider")
	f.Float64Var(&maxValue, "max", 100, "absolute maximum for every slider")
	f.BoolVar(&singleThumb, "single-thumb", false, "hide the min thumb")
	f.BoolVar(&notifyWhileDragging, "notify-while-dragging", false, "fire value changes on every drag move")
	f.StringVar(&stateDB, "state-db", "", "bolt file to persist selections in")
	f.StringVar(&wsAddr, "ws-addr", "", "address to serve the live selection feed on, e.g. :8090")
	f.StringVar(&pngPath, "png", "", "render the sliders to this PNG file and exit")
	f.BoolVar(&showPanel, "panel", false, "open the control panel window (fyne builds only)")
}

// loadConfig reads the file named by --config, or the defaults, and lays
// the explicitly set flags over it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return cfg, err
		}
	}
	overridesFromFlags(cmd).Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func overridesFromFlags(cmd *cobra.Command) config.FlagOverrides {
	var o config.FlagOverrides
	changed := cmd.Flags().Changed
	if changed("log-level") {
		o.LogLevel = &logLevel
	}
	if changed("state-db") {
		o.StatePath = &stateDB
	}
	if changed("ws-addr") {
		o.LiveAddr = &wsAddr
	}
	if changed("min") {
		o.Min = &minValue
	}
	if changed("max") {
		o.Max = &maxValue
	}
	if changed("single-thumb") {
		o.SingleThumb = &singleThumb
	}
	if changed("notify-while-dragging") {
		o.NotifyWhileDragging = &notifyWhileDragging
	}
	return o
}

// Execute executes root CLI command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
