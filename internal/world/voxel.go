package world

import "github.com/go-gl/mathgl/mgl32"

// Voxel is the material filling one grid cell. The variant set is closed;
// per-variant behavior lives in a fixed lookup table rather than dynamic
// dispatch.
type Voxel uint8

// Voxel variants. Air is the zero value so a zeroed chunk is empty.
const (
	Air Voxel = iota
	Grass
	Stone
	Wood

	voxelCount
)

var voxelTable = [voxelCount]struct {
	name        string
	transparent bool
	color       mgl32.Vec4
}{
	Air:   {"air", true, mgl32.Vec4{0, 0, 0, 0}},
	Grass: {"grass", false, mgl32.Vec4{118.0 / 255.0, 166.0 / 255.0, 70.0 / 255.0, 1}},
	Stone: {"stone", false, mgl32.Vec4{132.0 / 255.0, 116.0 / 255.0, 119.0 / 255.0, 1}},
	Wood:  {"wood", false, mgl32.Vec4{92.0 / 255.0, 44.0 / 255.0, 29.0 / 255.0, 1}},
}

// Transparent reports whether adjacent voxel faces show through this voxel.
// The mesher only emits faces where a solid voxel meets a transparent one.
func (v Voxel) Transparent() bool { return voxelTable[v].transparent }

// Color returns the voxel's RGBA base color.
func (v Voxel) Color() mgl32.Vec4 { return voxelTable[v].color }

func (v Voxel) String() string { return voxelTable[v].name }
