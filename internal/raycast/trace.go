// Package raycast finds the first interesting voxel along a ray.
//
// The single-grid walk implements the traversal from "A Fast Voxel
// Traversal Algorithm for Ray Tracing", Amanatides & Woo, 1987. Caster
// layers chunk hopping on top: regions with no loaded chunk are crossed by
// re-running the same walk in a coordinate system where whole chunks are
// unit cells.
package raycast

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/kazimuth/morass/internal/world"
)

// Kind states how a traversal ended.
type Kind uint8

const (
	// Contained: the predicate matched the reported voxel.
	Contained Kind = iota
	// Border: the traversal entered a voxel on the bounding-box limit.
	// The predicate is not consulted for that voxel.
	Border
)

// Hit is a traversal result. Dist is a multiple of the direction vector,
// not a euclidean distance.
type Hit struct {
	Dist  float32
	Voxel world.VoxelCoord
	Kind  Kind
}

const maxSteps = 100000

// Trace walks the voxel grid from startVoxel along dir until interesting
// reports true for a newly entered voxel, or the walk enters a voxel lying
// on the inclusive box [min, max] limit along the axis just advanced. If the
// starting voxel is already interesting it returns immediately with zero
// distance.
//
// startVoxel is passed explicitly rather than derived from start so a
// caller can resume a walk across coordinate-space conversions; it must be
// the voxel the ray is actually inside. When axes tie for the next
// boundary, X advances before Y before Z.
//
// Preconditions, enforced by panic: start and dir contain no NaN, and
// startVoxel lies within the box.
func Trace(startVoxel world.VoxelCoord, start, dir mgl32.Vec3, min, max world.VoxelCoord, interesting func(world.VoxelCoord) bool) Hit {
	for i := range 3 {
		if math32.IsNaN(start[i]) || math32.IsNaN(dir[i]) {
			panic("raycast: NaN in ray start or direction")
		}
	}

	if interesting(startVoxel) {
		return Hit{Dist: 0, Voxel: startVoxel, Kind: Contained}
	}

	x, y, z := startVoxel.X, startVoxel.Y, startVoxel.Z
	if x < min.X || x > max.X || y < min.Y || y > max.Y || z < min.Z || z > max.Z {
		panic(fmt.Sprintf("raycast: start voxel %v outside box %v..%v", startVoxel, min, max))
	}

	stepX, stepY, stepZ := step(dir.X()), step(dir.Y()), step(dir.Z())

	// Stopping layer per axis.
	limX, limY, limZ := min.X, min.Y, min.Z
	if stepX > 0 {
		limX = max.X
	}
	if stepY > 0 {
		limY = max.Y
	}
	if stepZ > 0 {
		limZ = max.Z
	}

	tMaxX, tDX := axisInit(start.X(), dir.X())
	tMaxY, tDY := axisInit(start.Y(), dir.Y())
	tMaxZ, tDZ := axisInit(start.Z(), dir.Z())

	for range maxSteps {
		if tMaxX <= tMaxY && tMaxX <= tMaxZ {
			x += stepX
			cur := world.Coord(x, y, z)
			if x == limX {
				return Hit{Dist: tMaxX, Voxel: cur, Kind: Border}
			}
			if interesting(cur) {
				return Hit{Dist: tMaxX, Voxel: cur, Kind: Contained}
			}
			tMaxX += tDX
		} else if tMaxY < tMaxX && tMaxY <= tMaxZ {
			y += stepY
			cur := world.Coord(x, y, z)
			if y == limY {
				return Hit{Dist: tMaxY, Voxel: cur, Kind: Border}
			}
			if interesting(cur) {
				return Hit{Dist: tMaxY, Voxel: cur, Kind: Contained}
			}
			tMaxY += tDY
		} else {
			z += stepZ
			cur := world.Coord(x, y, z)
			if z == limZ {
				return Hit{Dist: tMaxZ, Voxel: cur, Kind: Border}
			}
			if interesting(cur) {
				return Hit{Dist: tMaxZ, Voxel: cur, Kind: Contained}
			}
			tMaxZ += tDZ
		}
	}
	panic("raycast: nothing hit")
}

// step derives the integer step from the float direction component, so a
// small component like 0.3 still advances its axis.
func step(d float32) int32 {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	}
	return 0
}

// axisInit computes the parametric distance to the first voxel boundary
// along one axis, and the distance between successive boundaries. Voxel
// centers sit at integers, so boundaries are the half-integer planes. A
// zero direction component never reaches a boundary.
func axisInit(c, dc float32) (tMax, tDelta float32) {
	if dc == 0 {
		inf := math32.Inf(1)
		return inf, inf
	}
	var boundary float32
	if dc > 0 {
		boundary = math32.Floor(c+0.5) + 0.5
	} else {
		boundary = math32.Ceil(c-0.5) - 0.5
	}
	tMax = (boundary - c) / dc
	if tMax < 0 {
		tMax = math32.Inf(1)
	}
	return tMax, math32.Abs(1 / dc)
}
