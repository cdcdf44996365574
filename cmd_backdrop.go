package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gonewx/martianblue/pkg/backdrop"
	"github.com/gonewx/martianblue/pkg/config"
	"github.com/gonewx/martianblue/pkg/render"
)

var backdropCmd = &cobra.Command{
	Use:   "backdrop",
	Short: "Page backdrop presets and previews",
}

var backdropListCmd = &cobra.Command{
	Use:   "list",
	Short: "List embedded backdrop presets",
	RunE:  runBackdropList,
}

var termFlags struct {
	file string
	seed int64
	fps  int
}

var backdropTermCmd = &cobra.Command{
	Use:   "term [preset]",
	Short: "Play a backdrop in the terminal",
	Long: `Renders a backdrop preset in the terminal. Each cell stands for an 8×16
pixel block of the page. Press q, Esc or Ctrl-C to quit.

Example:
  martianblue backdrop term home-mars`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackdropTerm,
}

var statsFlags struct {
	frames int
	width  int
	height int
	seed   int64
	asJSON bool
}

var backdropStatsCmd = &cobra.Command{
	Use:   "stats [preset...]",
	Short: "Step presets headless and report entity counts",
	Long: `Runs each preset for a fixed number of frames without a display and prints
the entity counts and draw-call totals of the last frame. With no arguments
every embedded preset is measured.`,
	RunE: runBackdropStats,
}

func init() {
	backdropTermCmd.Flags().StringVar(&termFlags.file, "file", "", "Load a preset file from disk")
	backdropTermCmd.Flags().Int64Var(&termFlags.seed, "seed", 0, "Fixed random seed (0 = random)")
	backdropTermCmd.Flags().IntVar(&termFlags.fps, "fps", 0, "Override the preset frame rate")

	f := backdropStatsCmd.Flags()
	f.IntVar(&statsFlags.frames, "frames", 600, "Frames to simulate")
	f.IntVar(&statsFlags.width, "width", 1280, "Canvas width")
	f.IntVar(&statsFlags.height, "height", 720, "Canvas height")
	f.Int64Var(&statsFlags.seed, "seed", 1, "Random seed")
	f.BoolVar(&statsFlags.asJSON, "json", false, "Print JSON")

	backdropCmd.AddCommand(backdropListCmd, backdropTermCmd, backdropStatsCmd)
}

func runBackdropList(cmd *cobra.Command, args []string) error {
	names, err := config.PresetNames()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBOUNDARY\tBACKGROUND\tDESCRIPTION")
	for _, n := range names {
		cfg, err := config.LoadPreset(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cfg.Name, cfg.Boundary, cfg.Background.Mode, cfg.Description)
	}
	return w.Flush()
}

func loadTermPreset(args []string) (*config.Backdrop, error) {
	if termFlags.file != "" {
		return config.LoadBackdropConfig(termFlags.file)
	}
	name := "home"
	if len(args) > 0 {
		name = args[0]
	}
	return config.LoadPreset(name)
}

func runBackdropTerm(cmd *cobra.Command, args []string) error {
	cfg, err := loadTermPreset(args)
	if err != nil {
		return err
	}
	fps := cfg.FPS
	if termFlags.fps > 0 {
		fps = termFlags.fps
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	surface := render.NewTermSurface(screen, render.MustParseColor(cfg.Background.Color))
	viewport := backdrop.NewResizableViewport(surface.ViewportSize())

	opts := []backdrop.Option{backdrop.WithLogger(logger.Named("backdrop"))}
	if termFlags.seed != 0 {
		opts = append(opts, backdrop.WithSeed(termFlags.seed))
	}
	driver := backdrop.NewDriver(cfg, viewport, backdrop.NewTickerScheduler(fps), opts...)
	if err := driver.Start(surface); err != nil {
		return err
	}
	defer driver.Stop()

	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			viewport.Resize(surface.ViewportSize())
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				logger.Debug("quit requested", zap.Uint64("frames", driver.Frames()))
				return nil
			}
		case nil:
			return nil
		}
	}
}

// presetStats 一个预设的无界面运行结果
type presetStats struct {
	Preset  string         `json:"preset"`
	Stats   backdrop.Stats `json:"stats"`
	Ops     map[string]int `json:"ops"`
	Elapsed time.Duration  `json:"elapsedNs"`
}

// measurePreset 以固定种子推进 frames 帧，统计最后一帧的绘制操作
func measurePreset(cfg *config.Backdrop, frames, width, height int, seed int64) presetStats {
	start := time.Now()
	field := backdrop.NewField(cfg, float64(width), float64(height), seed)
	rec := render.NewRecorder(float64(width), float64(height))
	for i := 0; i < frames; i++ {
		rec.Reset()
		field.Update()
		field.Draw(rec)
	}
	ops := make(map[string]int)
	for _, op := range rec.Ops() {
		ops[op.Kind.String()]++
	}
	return presetStats{
		Preset:  cfg.Name,
		Stats:   field.Stats(),
		Ops:     ops,
		Elapsed: time.Since(start),
	}
}

func runBackdropStats(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		var err error
		if names, err = config.PresetNames(); err != nil {
			return err
		}
	}

	results := make([]presetStats, len(names))
	g, _ := errgroup.WithContext(cmd.Context())
	for i, name := range names {
		g.Go(func() error {
			cfg, err := config.LoadPreset(name)
			if err != nil {
				return err
			}
			results[i] = measurePreset(cfg, statsFlags.frames, statsFlags.width, statsFlags.height, statsFlags.seed)
			logger.Debug("preset measured", zap.String("preset", name), zap.Duration("elapsed", results[i].Elapsed))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statsFlags.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tNODES\tEDGES\tFLOW\tSTARS\tNEBULAE\tSHOOTING\tDUST\tBODIES\tDRAW OPS")
	for _, r := range results {
		s := r.Stats
		total := 0
		for _, n := range r.Ops {
			total += n
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Preset, s.Nodes, s.Edges, s.FlowLines, s.Stars, s.Nebulae, s.ShootingStars, s.Dust, s.DistantBodies, total)
	}
	return w.Flush()
}
