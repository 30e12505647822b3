// Package config loads the demo's display and engine settings from a TOML
// file, falling back to defaults when the file is absent.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the root of the settings file.
type Config struct {
	Window Window `toml:"window"`
	Engine Engine `toml:"engine"`
}

// Window holds display settings.
type Window struct {
	Title    string `toml:"title"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	VSync    bool   `toml:"vsync"`
	FPSLimit int    `toml:"fps_limit"` // frames per second; 0 disables the cap
}

// Engine holds tick-loop settings.
type Engine struct {
	// MeshBudgetMillis is the soft per-tick time budget for re-meshing.
	MeshBudgetMillis float64 `toml:"mesh_budget_ms"`
}

// MeshBudget returns the re-meshing budget as a duration.
func (e Engine) MeshBudget() time.Duration {
	return time.Duration(e.MeshBudgetMillis * float64(time.Millisecond))
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Window: Window{
			Title:    "morass",
			Width:    900,
			Height:   600,
			VSync:    true,
			FPSLimit: 120,
		},
		Engine: Engine{
			MeshBudgetMillis: 3,
		},
	}
}

// Load reads settings from path. A missing file is not an error; the
// defaults are returned. Values outside their working ranges are clamped.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.clamp()
	return c, nil
}

func (c *Config) clamp() {
	c.Window.Width = clampInt(c.Window.Width, 320, 7680)
	c.Window.Height = clampInt(c.Window.Height, 240, 4320)
	if c.Window.FPSLimit != 0 {
		c.Window.FPSLimit = clampInt(c.Window.FPSLimit, 24, 1000)
	}
	if c.Engine.MeshBudgetMillis < 0.5 {
		c.Engine.MeshBudgetMillis = 0.5
	}
	if c.Engine.MeshBudgetMillis > 100 {
		c.Engine.MeshBudgetMillis = 100
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
