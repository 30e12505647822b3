package world

// Chunk is a 16x16x16 block of voxels. The zero value is entirely Air.
//
// Coord is the chunk's canonical coordinate. The host also decides where the
// chunk sits when it stores it; the tag is not derived from that placement,
// so the two can disagree. Agreement is asserted when the chunk is
// registered with a ChunkIndex.
type Chunk struct {
	Coord  VoxelCoord
	Voxels [ChunkSize][ChunkSize][ChunkSize]Voxel
}

// NewChunk returns an empty chunk tagged with the given canonical coordinate.
func NewChunk(coord VoxelCoord) *Chunk {
	return &Chunk{Coord: coord}
}

// At returns the voxel at a chunk-local offset, or Air if the offset lies
// outside the chunk.
func (c *Chunk) At(local VoxelCoord) Voxel {
	if local.X < 0 || local.X >= ChunkSize ||
		local.Y < 0 || local.Y >= ChunkSize ||
		local.Z < 0 || local.Z >= ChunkSize {
		return Air
	}
	return c.Voxels[local.X][local.Y][local.Z]
}

// AtUnchecked returns the voxel at a chunk-local offset with no bounds check
// of its own. Callers must guarantee every component is in [0, ChunkSize);
// use At when in doubt.
func (c *Chunk) AtUnchecked(local VoxelCoord) Voxel {
	return c.Voxels[local.X][local.Y][local.Z]
}

// Set writes the voxel at a chunk-local offset. Writes outside the chunk are
// ignored.
func (c *Chunk) Set(local VoxelCoord, v Voxel) {
	if local.X < 0 || local.X >= ChunkSize ||
		local.Y < 0 || local.Y >= ChunkSize ||
		local.Z < 0 || local.Z >= ChunkSize {
		return
	}
	c.Voxels[local.X][local.Y][local.Z] = v
}

// SetWorld writes a voxel addressed by world coordinate. Coordinates outside
// this chunk are ignored.
func (c *Chunk) SetWorld(world VoxelCoord, v Voxel) {
	if CanonicalChunk(world) != c.Coord {
		return
	}
	c.Set(world.Sub(c.Coord), v)
}
