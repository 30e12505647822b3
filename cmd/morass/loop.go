package main

import (
	"fmt"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/kazimuth/morass/internal/config"
	"github.com/kazimuth/morass/internal/graphics"
	"github.com/kazimuth/morass/internal/mesh"
	"github.com/kazimuth/morass/internal/profiling"
	"github.com/kazimuth/morass/internal/store"
	"github.com/kazimuth/morass/internal/world"
)

// gameLoop owns the per-frame pipeline: poll input, let the scene churn
// storage, apply queued voxel edits, sync the index from the change log,
// remesh under budget, then draw. Index sync must precede meshing so every
// dirty chunk the mesher picks up already resolves through the index.
type gameLoop struct {
	window    *glfw.Window
	cfg       config.Config
	scene     *scene
	chunks    *store.Store
	index     *world.ChunkIndex
	indexFeed *store.Reader
	deltas    *world.DeltaQueue
	mesher    *mesh.System
	renderer  *graphics.Renderer
	camera    *graphics.Camera

	limiter      *frameLimiter
	frames       int
	lastFPSCheck time.Time
}

func newGameLoop(window *glfw.Window, cfg config.Config, sc *scene, chunks *store.Store, index *world.ChunkIndex, indexFeed *store.Reader, deltas *world.DeltaQueue, mesher *mesh.System, renderer *graphics.Renderer, camera *graphics.Camera) *gameLoop {
	return &gameLoop{
		window:       window,
		cfg:          cfg,
		scene:        sc,
		chunks:       chunks,
		index:        index,
		indexFeed:    indexFeed,
		deltas:       deltas,
		mesher:       mesher,
		renderer:     renderer,
		camera:       camera,
		limiter:      &frameLimiter{},
		lastFPSCheck: time.Now(),
	}
}

func (g *gameLoop) run() {
	for !g.window.ShouldClose() {
		g.tick()
	}
}

func (g *gameLoop) tick() {
	profiling.ResetFrame()
	frameStart := time.Now()

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	func() { defer profiling.Track("scene.Update")(); g.scene.update(frameStart) }()

	func() { defer profiling.Track("world.ApplyDeltas")(); g.deltas.Apply(g.index, g.chunks) }()
	func() { defer profiling.Track("world.SyncIndex")(); g.index.Apply(g.indexFeed.Drain(), g.chunks) }()

	func() { defer profiling.Track("mesh.Run")(); g.mesher.Run(g.cfg.Engine.MeshBudget()) }()

	func() { defer profiling.Track("render.Prune")(); g.renderer.Prune() }()
	func() {
		defer profiling.Track("render.Draw")()
		g.renderer.Draw(g.camera.View(), g.camera.Projection())
	}()

	func() { defer profiling.Track("glfw.SwapBuffers")(); g.window.SwapBuffers() }()

	// With vsync on the swap blocks until the display is ready, so count
	// only the frame's work against the target.
	workDur := time.Since(frameStart) - profiling.SumWithPrefix("glfw.")

	g.frames++
	if time.Since(g.lastFPSCheck) >= time.Second {
		g.window.SetTitle(fmt.Sprintf("%s | %d fps | %d meshes | %s",
			g.cfg.Window.Title, g.frames, g.renderer.MeshCount(), profiling.TopN(3)))
		g.frames = 0
		g.lastFPSCheck = time.Now()
	}

	if limit := g.cfg.Window.FPSLimit; limit > 0 {
		target := time.Second / time.Duration(limit)
		if workDur > target {
			fmt.Printf("Frame took too long: %.2fms (target: %.2fms) [world: %v, mesh: %v, render: %v]\n",
				float64(workDur.Nanoseconds())/1000000.0,
				float64(target.Nanoseconds())/1000000.0,
				profiling.SumWithPrefix("world."),
				profiling.SumWithPrefix("mesh."),
				profiling.SumWithPrefix("render."))
		}
	}

	if !g.cfg.Window.VSync {
		g.limiter.Wait(g.cfg.Window.FPSLimit)
	}
}
