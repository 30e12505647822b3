// Package mesh turns voxel chunks into vertex buffers.
//
// The mesher walks every pair of voxel layers adjacent along each of the six
// face directions and emits one quad wherever a solid voxel meets a
// transparent one, so only surface faces reach the GPU. Faces are never
// merged; one visible voxel face is one quad. Layer pairs that straddle a
// chunk border read the neighboring chunk, or a virtual all-Air chunk when
// no neighbor is loaded.
package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kazimuth/morass/internal/world"
)

// Direction identifies one of the six cube face orientations.
type Direction uint8

const (
	East  Direction = iota // +x
	Up                     // +y
	North                  // +z
	West                   // -x
	Down                   // -y
	South                  // -z
)

func (d Direction) String() string {
	return [...]string{"east", "up", "north", "west", "down", "south"}[d]
}

// Normal returns the direction's outward unit normal.
func (d Direction) Normal() world.VoxelCoord { return normals[d] }

// AllDirections lists the six directions in table order.
var AllDirections = [6]Direction{East, Up, North, West, Down, South}

// The iteration pairs are chosen so that the corner order
// [h1+h2, -h1+h2, -h1-h2, h1-h2] winds counter-clockwise seen from outside
// (it1 x it2 equals the outward normal), and so that the three forward
// directions walk the voxel array with increasing indices while the three
// backward ones walk it with decreasing indices.
var (
	normals = [6]world.VoxelCoord{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: -1},
	}
	iters = [6][2]world.VoxelCoord{
		{{X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}},
		{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 0}},
		{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
		{{X: 0, Y: 0, Z: -1}, {X: 0, Y: -1, Z: 0}},
		{{X: -1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -1}},
		{{X: 0, Y: -1, Z: 0}, {X: -1, Y: 0, Z: 0}},
	}
	backwards = [6]bool{false, false, false, true, true, true}
)

// Stand-in for absent neighbors. Read-only.
var emptyChunk = world.NewChunk(world.Coord(0, 0, 0))

// BuildChunk meshes the chunk at the given canonical coordinate. Neighboring
// chunks are resolved through the index so faces on shared borders are culled
// against real neighbor content; an unloaded neighbor culls nothing.
//
// The chunk itself must be loaded; meshing an absent chunk panics.
func BuildChunk(coord world.VoxelCoord, ix *world.ChunkIndex, chunks world.ChunkSource) *Data {
	center := chunkAt(coord, ix, chunks)
	if center == nil {
		panic(fmt.Sprintf("mesh: no chunk loaded at %v", coord))
	}

	data := &Data{}
	for _, d := range AllDirections {
		start, end, sub := int32(0), int32(world.ChunkSize-1), int32(1)
		if backwards[d] {
			start, end, sub = 1, world.ChunkSize, -1
		}
		for off := start; off < end; off++ {
			meshLayer(center, off, center, off+sub, d, data)
		}

		adjacent := chunkAt(coord.Add(normals[d].Scale(world.ChunkSize)), ix, chunks)
		if adjacent == nil {
			adjacent = emptyChunk
		}
		nearLayer, farLayer := int32(world.ChunkSize-1), int32(0)
		if backwards[d] {
			nearLayer, farLayer = 0, world.ChunkSize-1
		}
		meshLayer(center, nearLayer, adjacent, farLayer, d, data)
	}
	return data
}

func chunkAt(coord world.VoxelCoord, ix *world.ChunkIndex, chunks world.ChunkSource) *world.Chunk {
	id, ok := ix.Lookup(coord)
	if !ok {
		return nil
	}
	ch, ok := chunks.Chunk(id)
	if !ok {
		return nil
	}
	return ch
}

// meshLayer emits the quads for one direction between two adjacent voxel
// layers: the near layer in the chunk being meshed and the far layer it
// faces, which may live in a neighboring chunk. A quad appears where the
// near voxel is solid and the far voxel is transparent, centered half a
// voxel along the normal from the near voxel's center.
func meshLayer(near *world.Chunk, nearLevel int32, far *world.Chunk, farLevel int32, d Direction, out *Data) {
	normal := normals[d]
	axis := world.Coord(abs(normal.X), abs(normal.Y), abs(normal.Z))
	it1, it2 := iters[d][0], iters[d][1]

	nearOff := axis.Scale(nearLevel)
	farOff := axis.Scale(farLevel)

	halfNormal := normal.Vec3().Mul(0.5)
	h1 := it1.Vec3().Mul(0.5)
	h2 := it2.Vec3().Mul(0.5)
	corners := [4]mgl32.Vec3{
		h1.Add(h2),
		h2.Sub(h1),
		h1.Add(h2).Mul(-1),
		h1.Sub(h2),
	}
	normalF := normal.Vec3()

	row := world.Coord(0, 0, 0)
	if backwards[d] {
		row = it1.Scale(-(world.ChunkSize - 1))
	}
	for i := 0; i < world.ChunkSize; i++ {
		loc := row
		if backwards[d] {
			loc = row.Add(it2.Scale(-(world.ChunkSize - 1)))
		}
		for j := 0; j < world.ChunkSize; j++ {
			nearLoc := nearOff.Add(loc)
			nv := near.AtUnchecked(nearLoc)
			fv := far.AtUnchecked(farOff.Add(loc))
			if !nv.Transparent() && fv.Transparent() {
				faceCenter := nearLoc.Vec3().Add(halfNormal)
				color := nv.Color()
				for _, c := range corners {
					out.Positions = append(out.Positions, faceCenter.Add(c))
					out.Colors = append(out.Colors, color)
					out.Normals = append(out.Normals, normalF)
				}
			}
			loc = loc.Add(it2)
		}
		row = row.Add(it1)
	}
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
