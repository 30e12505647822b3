package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/kazimuth/morass/internal/config"
	"github.com/kazimuth/morass/internal/graphics"
	"github.com/kazimuth/morass/internal/mesh"
	"github.com/kazimuth/morass/internal/raycast"
	"github.com/kazimuth/morass/internal/store"
	"github.com/kazimuth/morass/internal/world"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	path := "morass.toml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		slog.Warn("using default config", "err", err)
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Window)
	if err != nil {
		panic(fmt.Errorf("window setup: %w", err))
	}

	// Storage and its consumers. Every change-log reader is created before
	// the scene is seeded so none of them misses the initial insertions.
	chunks := store.New()
	index := world.NewChunkIndex()
	indexFeed := chunks.NewReader()

	r, err := graphics.NewRenderer(chunks.NewReader(), chunks)
	if err != nil {
		panic(fmt.Errorf("renderer setup: %w", err))
	}
	defer r.Dispose()

	mesher := mesh.NewSystem(chunks.NewReader(), chunks, index, r)
	deltas := &world.DeltaQueue{}

	camera := graphics.NewCamera(window.GetFramebufferSize())
	caster := &raycast.Caster{Index: index, Chunks: chunks}

	sc := seedScene(chunks)
	setupInputHandlers(window, camera, caster, deltas)

	newGameLoop(window, cfg, sc, chunks, index, indexFeed, deltas, mesher, r, camera).run()
}

func setupWindow(cfg config.Window) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		return nil, err
	}

	// Either the driver paces us or the frame limiter does, never both.
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	return window, nil
}
