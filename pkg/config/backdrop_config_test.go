package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonewx/martianblue/internal/particle"
	"github.com/gonewx/martianblue/pkg/embedded"
)

func TestLoadBackdropConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *Backdrop)
	}{
		{
			name: "minimal config uses defaults",
			yamlContent: `
name: minimal
counts:
  nodes: 10
`,
			validate: func(t *testing.T, cfg *Backdrop) {
				if cfg.FPS != 60 {
					t.Errorf("expected default fps 60, got %d", cfg.FPS)
				}
				if cfg.Connections.Threshold != 180 {
					t.Errorf("expected default threshold 180, got %v", cfg.Connections.Threshold)
				}
				if cfg.Nodes.PhaseStep != 0.03 {
					t.Errorf("expected default phaseStep 0.03, got %v", cfg.Nodes.PhaseStep)
				}
				if cfg.Boundary != BoundaryBounce || cfg.Background.Mode != BackgroundClear {
					t.Errorf("unexpected defaults: boundary=%s mode=%s", cfg.Boundary, cfg.Background.Mode)
				}
			},
		},
		{
			name: "range syntax",
			yamlContent: `
name: ranges
boundary: wrap
nodes:
  speed: "[-0.5 0.5]"
  radius: 2
`,
			validate: func(t *testing.T, cfg *Backdrop) {
				if cfg.Nodes.Speed.Min != -0.5 || cfg.Nodes.Speed.Max != 0.5 {
					t.Errorf("unexpected speed range %s", cfg.Nodes.Speed)
				}
				if cfg.Nodes.Radius.Min != 2 || cfg.Nodes.Radius.Max != 2 {
					t.Errorf("unexpected radius %s", cfg.Nodes.Radius)
				}
				if !cfg.Wrap() {
					t.Error("expected Wrap() to be true")
				}
			},
		},
		{
			name:        "missing name",
			yamlContent: "counts:\n  nodes: 3\n",
			wantErr:     true,
			errContains: "name is required",
		},
		{
			name:        "unknown background mode",
			yamlContent: "name: x\nbackground:\n  mode: blur\n",
			wantErr:     true,
			errContains: "unknown background mode",
		},
		{
			name:        "unknown boundary",
			yamlContent: "name: x\nboundary: teleport\n",
			wantErr:     true,
			errContains: "unknown boundary policy",
		},
		{
			name:        "negative count",
			yamlContent: "name: x\ncounts:\n  stars: -1\n",
			wantErr:     true,
			errContains: "count stars must be >= 0",
		},
		{
			name:        "non-positive threshold",
			yamlContent: "name: x\nconnections:\n  threshold: 0\n",
			wantErr:     true,
			errContains: "threshold must be positive",
		},
		{
			name:        "inverted range",
			yamlContent: "name: x\nnodes:\n  radius: \"[3 1]\"\n",
			wantErr:     true,
			errContains: "nodes.radius range invalid",
		},
		{
			name:        "bad range string",
			yamlContent: "name: x\nnodes:\n  radius: \"[1 2\"\n",
			wantErr:     true,
			errContains: "unterminated range",
		},
		{
			name:        "bad colour",
			yamlContent: "name: x\npalette:\n  nodeCore: cyan\n",
			wantErr:     true,
			errContains: "invalid colour",
		},
		{
			name:        "spawn chance above one",
			yamlContent: "name: x\nspawn:\n  dustChance: 1.5\n",
			wantErr:     true,
			errContains: "dustChance must be in [0,1]",
		},
		{
			name:        "too many distant bodies",
			yamlContent: "name: x\ncounts:\n  distantBodies: 5\n",
			wantErr:     true,
			errContains: "distantBodies must be <= 4",
		},
		{
			name:        "nebulae without palette",
			yamlContent: "name: x\ncounts:\n  nebulaePerSide: 2\npalette:\n  nebulae: []\n",
			wantErr:     true,
			errContains: "palette.nebulae must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "backdrop.yaml")
			if err := os.WriteFile(path, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}

			cfg, err := LoadBackdropConfig(path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errContains)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

// TestDefaultBackdropRanges 默认值中的区间
func TestDefaultBackdropRanges(t *testing.T) {
	d := DefaultBackdrop()
	tests := []struct {
		name     string
		got      particle.Range
		min, max float64
	}{
		{"nodes.speed", d.Nodes.Speed, -0.25, 0.25},
		{"nodes.radius", d.Nodes.Radius, 1, 3.5},
		{"flowLines.speed", d.FlowLines.Speed, 0.5, 1.5},
		{"flowLines.length", d.FlowLines.Length, 40, 120},
		{"flowLines.width", d.FlowLines.Width, 0.5, 1.5},
		{"flowLines.life", d.FlowLines.Life, 150, 350},
	}
	for _, tt := range tests {
		if tt.got.Min != tt.min || tt.got.Max != tt.max {
			t.Errorf("%s = %v, 期望 [%v %v]", tt.name, tt.got, tt.min, tt.max)
		}
	}
}

func TestLoadBackdropConfigMissingFile(t *testing.T) {
	_, err := LoadBackdropConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read backdrop config") {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestPresets 加载仓库内置的四个页面预设
func TestPresets(t *testing.T) {
	embedded.Init(os.DirFS(filepath.Join("..", "..")))
	defer embedded.Reset()

	names, err := PresetNames()
	if err != nil {
		t.Fatalf("PresetNames: %v", err)
	}
	want := []string{"contact", "home", "home-mars", "services"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("PresetNames = %v, want %v", names, want)
	}

	tests := []struct {
		name     string
		boundary string
		mode     string
		nodes    int
		flow     int
		base     float64
	}{
		{"home", BoundaryBounce, BackgroundClear, 50, 0, 0.3},
		{"contact", BoundaryWrap, BackgroundFade, 60, 12, 0.2},
		{"services", BoundaryWrap, BackgroundFade, 55, 12, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadPreset(tt.name)
			if err != nil {
				t.Fatalf("LoadPreset(%q): %v", tt.name, err)
			}
			if cfg.Name != tt.name {
				t.Errorf("Name = %q", cfg.Name)
			}
			if cfg.Boundary != tt.boundary || cfg.Background.Mode != tt.mode {
				t.Errorf("boundary=%s mode=%s, want %s %s", cfg.Boundary, cfg.Background.Mode, tt.boundary, tt.mode)
			}
			if cfg.Counts.Nodes != tt.nodes || cfg.Counts.FlowLines != tt.flow {
				t.Errorf("nodes=%d flowLines=%d, want %d %d", cfg.Counts.Nodes, cfg.Counts.FlowLines, tt.nodes, tt.flow)
			}
			if cfg.Connections.BaseOpacity != tt.base {
				t.Errorf("baseOpacity = %v, want %v", cfg.Connections.BaseOpacity, tt.base)
			}
			if cfg.Connections.Threshold != 180 {
				t.Errorf("threshold = %v, want 180", cfg.Connections.Threshold)
			}
		})
	}

	t.Run("home-mars", func(t *testing.T) {
		cfg, err := LoadPreset("home-mars")
		if err != nil {
			t.Fatalf("LoadPreset: %v", err)
		}
		c := cfg.Counts
		if c.Stars != 200 || c.NebulaePerSide != 8 || c.MaxShootingStars != 3 || c.MaxDust != 60 || c.DistantBodies != 2 {
			t.Errorf("unexpected counts: %+v", c)
		}
		if c.Nodes != 0 {
			t.Errorf("home-mars should have no nodes, got %d", c.Nodes)
		}
		if cfg.Spawn.ShootingStarChance != 0.01 || cfg.Spawn.DustChance != 0.15 {
			t.Errorf("unexpected spawn chances: %+v", cfg.Spawn)
		}
	})

	t.Run("invalid names", func(t *testing.T) {
		for _, name := range []string{"", "../server", "missing"} {
			if _, err := LoadPreset(name); err == nil {
				t.Errorf("LoadPreset(%q) expected error", name)
			}
		}
	})
}
