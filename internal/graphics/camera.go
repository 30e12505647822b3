package graphics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits a target point at a fixed distance. The demo steers it with
// mouse drags; everything else only reads matrices from it.
type Camera struct {
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32 // radians around +y; pi puts the eye on the -z side
	Pitch    float32 // radians above the horizon

	FOV       float32 // degrees
	Aspect    float32
	NearPlane float32
	FarPlane  float32
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		Distance:  20,
		Yaw:       math32.Pi,
		FOV:       60.0,
		Aspect:    float32(width) / float32(height),
		NearPlane: 0.1,
		FarPlane:  1000.0,
	}
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() mgl32.Vec3 {
	cp := math32.Cos(c.Pitch)
	return c.Target.Add(mgl32.Vec3{
		cp * math32.Sin(c.Yaw),
		math32.Sin(c.Pitch),
		cp * math32.Cos(c.Yaw),
	}.Mul(c.Distance))
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.NearPlane, c.FarPlane)
}

// Orbit rotates the camera around the target. Pitch stops short of the
// poles so the up vector never degenerates.
func (c *Camera) Orbit(dyaw, dpitch float32) {
	const limit = math32.Pi/2 - 0.01
	c.Yaw += dyaw
	c.Pitch += dpitch
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

// Dolly moves the camera toward or away from the target.
func (c *Camera) Dolly(delta float32) {
	c.Distance -= delta
	if c.Distance < 2 {
		c.Distance = 2
	}
	if c.Distance > 200 {
		c.Distance = 200
	}
}

// SetViewport updates the projection for a resized framebuffer.
func (c *Camera) SetViewport(width, height int) {
	if height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// Ray returns the world-space ray from the eye through a window position,
// with cursorY measured down from the top edge as GLFW reports it.
func (c *Camera) Ray(cursorX, cursorY float64, width, height int) (origin, dir mgl32.Vec3) {
	origin = c.Eye()
	fallback := c.Target.Sub(origin).Normalize()

	winY := float32(height) - float32(cursorY)
	view, proj := c.View(), c.Projection()
	near, err := mgl32.UnProject(mgl32.Vec3{float32(cursorX), winY, 0}, view, proj, 0, 0, width, height)
	if err != nil {
		return origin, fallback
	}
	far, err := mgl32.UnProject(mgl32.Vec3{float32(cursorX), winY, 1}, view, proj, 0, 0, width, height)
	if err != nil {
		return origin, fallback
	}
	return origin, far.Sub(near).Normalize()
}
