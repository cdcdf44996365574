// Package main provides a desktop viewer for the page backdrop presets.
//
// Usage:
//
//	go run ./cmd/backdrops [flags]
//
// Flags:
//
//	--preset <name>    Start with a specific preset (default: all presets, in name order)
//	--file <path>      Load a preset file from disk instead of the embedded presets
//	--seed <n>         Fixed random seed (0 = random)
//	--data <dir>       Directory containing data/backdrops (default: current directory)
//	--verbose          Enable debug logging
//
// Controls:
//
//	Tab  - Switch to the next preset
//	F11  - Toggle fullscreen
//
// 需要在仓库根目录运行，或用 --data 指定
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/gonewx/martianblue/pkg/app"
	"github.com/gonewx/martianblue/pkg/config"
	"github.com/gonewx/martianblue/pkg/embedded"
)

var (
	presetFlag  = flag.String("preset", "", "Start with a specific preset name")
	fileFlag    = flag.String("file", "", "Load a preset file from disk")
	seedFlag    = flag.Int64("seed", 0, "Fixed random seed (0 = random)")
	dataFlag    = flag.String("data", ".", "Directory containing data/backdrops")
	verboseFlag = flag.Bool("verbose", false, "Enable debug logging")
)

func loadPresets() ([]*config.Backdrop, error) {
	if *fileFlag != "" {
		cfg, err := config.LoadBackdropConfig(*fileFlag)
		if err != nil {
			return nil, err
		}
		return []*config.Backdrop{cfg}, nil
	}

	names, err := config.PresetNames()
	if err != nil {
		return nil, err
	}
	// --preset 指定的预设排在第一个
	if *presetFlag != "" {
		ordered := []string{*presetFlag}
		for _, n := range names {
			if n != *presetFlag {
				ordered = append(ordered, n)
			}
		}
		names = ordered
	}

	presets := make([]*config.Backdrop, 0, len(names))
	for _, n := range names {
		cfg, err := config.LoadPreset(n)
		if err != nil {
			return nil, err
		}
		presets = append(presets, cfg)
	}
	return presets, nil
}

func run() error {
	var logger *zap.Logger
	var err error
	if *verboseFlag {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	defer logger.Sync()

	embedded.Init(os.DirFS(*dataFlag))

	presets, err := loadPresets()
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}

	a, err := app.NewApp(app.Config{Presets: presets, Seed: *seedFlag, Logger: logger})
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("backdrop viewer starting", zap.String("preset", a.Current()), zap.Int("presets", len(presets)))

	ebiten.SetWindowSize(app.DefaultWidth, app.DefaultHeight)
	ebiten.SetWindowTitle("Martian Blue Backdrops")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(a)
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "backdrops:", err)
		os.Exit(1)
	}
}
