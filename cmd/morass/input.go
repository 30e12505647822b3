package main

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/kazimuth/morass/internal/graphics"
	"github.com/kazimuth/morass/internal/raycast"
	"github.com/kazimuth/morass/internal/world"
)

const orbitSensitivity = 0.005

// Rays are resolved inside this fixed region. It comfortably contains the
// seeded scene and every camera position the dolly clamp allows.
var (
	castMin = world.Coord(-256, -256, -256)
	castMax = world.Coord(255, 255, 255)
)

// interaction wires mouse and keyboard events to the camera and the voxel
// edit queue. Callbacks run on the main thread inside glfw.PollEvents.
type interaction struct {
	window *glfw.Window
	camera *graphics.Camera
	caster *raycast.Caster
	deltas *world.DeltaQueue

	orbiting     bool
	lastX, lastY float64
}

func setupInputHandlers(window *glfw.Window, camera *graphics.Camera, caster *raycast.Caster, deltas *world.DeltaQueue) {
	in := &interaction{window: window, camera: camera, caster: caster, deltas: deltas}

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	// Left digs, right places, middle drag orbits, scroll dollies.
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		switch {
		case button == glfw.MouseButtonLeft && action == glfw.Press:
			in.dig()
		case button == glfw.MouseButtonRight && action == glfw.Press:
			in.place()
		case button == glfw.MouseButtonMiddle:
			in.orbiting = action == glfw.Press
			if in.orbiting {
				in.lastX, in.lastY = w.GetCursorPos()
			}
		}
	})

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if !in.orbiting {
			return
		}
		dx := xpos - in.lastX
		dy := ypos - in.lastY
		in.lastX, in.lastY = xpos, ypos
		in.camera.Orbit(float32(dx)*orbitSensitivity, float32(-dy)*orbitSensitivity)
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		in.camera.Dolly(float32(yoff) * 1.5)
	})

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
		camera.SetViewport(width, height)
	})
}

// pick casts a ray from the camera through the cursor and returns the first
// solid voxel it enters.
func (in *interaction) pick() (raycast.Hit, mgl32.Vec3, mgl32.Vec3, bool) {
	cx, cy := in.window.GetCursorPos()
	width, height := in.window.GetSize()
	origin, dir := in.camera.Ray(cx, cy, width, height)
	if !inCastBox(world.Canonicalize(origin)) {
		return raycast.Hit{}, origin, dir, false
	}
	hit, ok := in.caster.Cast(origin, dir, castMin, castMax, func(v world.Voxel) bool {
		return !v.Transparent()
	})
	return hit, origin, dir, ok
}

func (in *interaction) dig() {
	hit, _, _, ok := in.pick()
	if !ok {
		return
	}
	in.deltas.DeferSet(hit.Voxel, world.Air)
}

func (in *interaction) place() {
	hit, origin, dir, ok := in.pick()
	if !ok || hit.Dist <= 0 {
		return
	}
	// Back up just short of the crossing to land in the voxel the ray came
	// from, the one sharing the struck face.
	at := world.Canonicalize(origin.Add(dir.Mul(hit.Dist - 1e-3)))
	if at == hit.Voxel {
		return
	}
	in.deltas.DeferSet(at, world.Stone)
}

func inCastBox(v world.VoxelCoord) bool {
	return v.X >= castMin.X && v.X <= castMax.X &&
		v.Y >= castMin.Y && v.Y <= castMax.Y &&
		v.Z >= castMin.Z && v.Z <= castMax.Z
}
