package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/kazimuth/morass/internal/store"
	"github.com/kazimuth/morass/internal/world"
)

// worldWith returns a store and index holding empty chunks at the given
// canonical coordinates.
func worldWith(coords ...world.VoxelCoord) (*store.Store, *world.ChunkIndex) {
	s := store.New()
	r := s.NewReader()
	ix := world.NewChunkIndex()
	for _, c := range coords {
		s.Insert(world.NewChunk(c))
	}
	ix.Apply(r.Drain(), s)
	return s, ix
}

func place(t *testing.T, s *store.Store, ix *world.ChunkIndex, p world.VoxelCoord, v world.Voxel) {
	t.Helper()
	id, ok := ix.Lookup(p)
	require.True(t, ok, "no chunk loaded for %v", p)
	require.True(t, s.Mutate(id, func(ch *world.Chunk) { ch.SetWorld(p, v) }))
}

type quad struct {
	positions [4]mgl32.Vec3
	color     mgl32.Vec4
	normal    mgl32.Vec3
}

// splitQuads regroups the flat vertex buffers into quads, checking that
// color and normal are constant across each quad.
func splitQuads(t *testing.T, d *Data) []quad {
	t.Helper()
	require.Zero(t, d.VertexCount()%4)
	require.Len(t, d.Colors, d.VertexCount())
	require.Len(t, d.Normals, d.VertexCount())

	var qs []quad
	for i := 0; i < d.VertexCount(); i += 4 {
		q := quad{color: d.Colors[i], normal: d.Normals[i]}
		copy(q.positions[:], d.Positions[i:i+4])
		for j := i; j < i+4; j++ {
			require.Equal(t, q.color, d.Colors[j])
			require.Equal(t, q.normal, d.Normals[j])
		}
		qs = append(qs, q)
	}
	return qs
}

func quadCenter(q quad) mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, p := range q.positions {
		sum = sum.Add(p)
	}
	return sum.Mul(0.25)
}

// quadWinding returns the normal implied by the quad's vertex order; for an
// outward-facing quad it must equal the stored normal.
func quadWinding(q quad) mgl32.Vec3 {
	return q.positions[1].Sub(q.positions[0]).Cross(q.positions[2].Sub(q.positions[0]))
}

func TestEmptyChunkMeshesToNothing(t *testing.T) {
	s, ix := worldWith(world.Coord(0, 0, 0))
	d := BuildChunk(world.Coord(0, 0, 0), ix, s)
	require.Zero(t, d.VertexCount())
}

func TestSingleVoxelMeshesToCube(t *testing.T) {
	s, ix := worldWith(world.Coord(0, 0, 0))
	place(t, s, ix, world.Coord(0, 0, 0), world.Grass)

	d := BuildChunk(world.Coord(0, 0, 0), ix, s)
	require.Equal(t, 24, d.VertexCount())

	qs := splitQuads(t, d)
	require.Len(t, qs, 6)

	seen := map[mgl32.Vec3]bool{}
	for _, q := range qs {
		require.Equal(t, world.Grass.Color(), q.color)
		require.Equal(t, q.normal, quadWinding(q), "quad winds against its normal")
		require.Equal(t, q.normal.Mul(0.5), quadCenter(q))
		seen[q.normal] = true
	}
	require.Len(t, seen, 6, "expected one quad per face direction")
}

func TestSharedFacesAreCulled(t *testing.T) {
	s, ix := worldWith(world.Coord(0, 0, 0))
	place(t, s, ix, world.Coord(4, 4, 4), world.Stone)
	place(t, s, ix, world.Coord(5, 4, 4), world.Stone)

	d := BuildChunk(world.Coord(0, 0, 0), ix, s)
	// Two cubes minus the pair of faces where they touch.
	require.Equal(t, 10, d.QuadCount())

	for _, q := range splitQuads(t, d) {
		require.NotEqual(t, float32(4.5), quadCenter(q).X(), "quad on the shared plane survived culling")
	}
}

func TestBorderFacesCulledAgainstLoadedNeighbor(t *testing.T) {
	s, ix := worldWith(world.Coord(0, 0, 0), world.Coord(16, 0, 0))
	place(t, s, ix, world.Coord(15, 8, 8), world.Stone)
	place(t, s, ix, world.Coord(16, 8, 8), world.Stone)

	d := BuildChunk(world.Coord(0, 0, 0), ix, s)
	require.Equal(t, 5, d.QuadCount())
	for _, q := range splitQuads(t, d) {
		require.NotEqual(t, mgl32.Vec3{1, 0, 0}, q.normal, "face hidden by the neighbor chunk was emitted")
	}

	d = BuildChunk(world.Coord(16, 0, 0), ix, s)
	require.Equal(t, 5, d.QuadCount())
	for _, q := range splitQuads(t, d) {
		require.NotEqual(t, mgl32.Vec3{-1, 0, 0}, q.normal)
	}
}

func TestBorderFacesEmittedAgainstMissingNeighbor(t *testing.T) {
	s, ix := worldWith(world.Coord(0, 0, 0))
	place(t, s, ix, world.Coord(15, 8, 8), world.Stone)

	d := BuildChunk(world.Coord(0, 0, 0), ix, s)
	require.Equal(t, 6, d.QuadCount())
}

func TestSolidChunkMeshesOnlyItsSurface(t *testing.T) {
	coords := []world.VoxelCoord{world.Coord(0, 0, 0)}
	for _, d := range AllDirections {
		coords = append(coords, d.Normal().Scale(world.ChunkSize))
	}
	s, ix := worldWith(coords...)

	id, ok := ix.Lookup(world.Coord(0, 0, 0))
	require.True(t, ok)
	require.True(t, s.Mutate(id, func(ch *world.Chunk) {
		for x := int32(0); x < world.ChunkSize; x++ {
			for y := int32(0); y < world.ChunkSize; y++ {
				for z := int32(0); z < world.ChunkSize; z++ {
					ch.Set(world.Coord(x, y, z), world.Stone)
				}
			}
		}
	}))

	d := BuildChunk(world.Coord(0, 0, 0), ix, s)
	// All interior faces cull; each of the six borders faces a loaded empty
	// chunk and stays visible in full.
	require.Equal(t, 6*world.ChunkSize*world.ChunkSize, d.QuadCount())
}

func TestMeshIsChunkLocal(t *testing.T) {
	s, ix := worldWith(world.Coord(-32, 16, 0))
	place(t, s, ix, world.Coord(-32, 16, 0), world.Wood)

	d := BuildChunk(world.Coord(-32, 16, 0), ix, s)
	require.Equal(t, 24, d.VertexCount())
	for _, q := range splitQuads(t, d) {
		// Face centers stay around the local origin no matter where the
		// chunk sits in the world.
		require.Equal(t, q.normal.Mul(0.5), quadCenter(q))
	}
}

func TestBuildChunkMissingPanics(t *testing.T) {
	s, ix := worldWith()
	require.Panics(t, func() { BuildChunk(world.Coord(0, 0, 0), ix, s) })
}
