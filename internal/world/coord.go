// Package world holds the chunked voxel grid: coordinates, chunk data, the
// chunk index and deferred edits.
//
// A voxel at coordinate c occupies the world-space cube extending 0.5 units
// from c on each axis. Chunks are 16x16x16 voxel blocks identified by their
// canonical coordinate, the minimum voxel corner, which is a multiple of 16
// on every axis.
package world

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Chunk dimensions in voxels. A power of two, so canonicalization reduces to
// shift and mask arithmetic.
const (
	ChunkSize  = 16
	chunkShift = 4
	chunkMask  = ChunkSize - 1
)

// VoxelCoord addresses a single voxel on the infinite grid.
type VoxelCoord struct {
	X, Y, Z int32
}

// Coord builds a VoxelCoord from components.
func Coord(x, y, z int32) VoxelCoord {
	return VoxelCoord{X: x, Y: y, Z: z}
}

func (c VoxelCoord) Add(o VoxelCoord) VoxelCoord {
	return VoxelCoord{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

func (c VoxelCoord) Sub(o VoxelCoord) VoxelCoord {
	return VoxelCoord{X: c.X - o.X, Y: c.Y - o.Y, Z: c.Z - o.Z}
}

func (c VoxelCoord) Scale(s int32) VoxelCoord {
	return VoxelCoord{X: c.X * s, Y: c.Y * s, Z: c.Z * s}
}

// Vec3 returns the world-space center of the voxel.
func (c VoxelCoord) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X), float32(c.Y), float32(c.Z)}
}

func (c VoxelCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Canonicalize maps a world-space position to the voxel containing it.
// Positions exactly halfway between two voxels round away from zero.
func Canonicalize(p mgl32.Vec3) VoxelCoord {
	return VoxelCoord{
		X: int32(math32.Round(p.X())),
		Y: int32(math32.Round(p.Y())),
		Z: int32(math32.Round(p.Z())),
	}
}

// CanonicalChunk maps a voxel coordinate to the canonical coordinate of the
// chunk containing it. Floors toward negative infinity, so it is correct for
// negative coordinates.
func CanonicalChunk(c VoxelCoord) VoxelCoord {
	return VoxelCoord{X: c.X &^ chunkMask, Y: c.Y &^ chunkMask, Z: c.Z &^ chunkMask}
}

// ChunkCell maps a voxel coordinate into chunk-cell space, where every chunk
// is a unit cube.
func ChunkCell(c VoxelCoord) VoxelCoord {
	return VoxelCoord{X: c.X >> chunkShift, Y: c.Y >> chunkShift, Z: c.Z >> chunkShift}
}

// LocalOffset returns the voxel's offset within its chunk, each component in
// [0, ChunkSize).
func LocalOffset(c VoxelCoord) VoxelCoord {
	return VoxelCoord{X: c.X & chunkMask, Y: c.Y & chunkMask, Z: c.Z & chunkMask}
}
