package raycast

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/kazimuth/morass/internal/store"
	"github.com/kazimuth/morass/internal/world"
)

// castWorld loads chunks at the given canonical coordinates and returns a
// caster over them plus the store for seeding voxels.
func castWorld(t *testing.T, coords ...world.VoxelCoord) (*Caster, *store.Store) {
	t.Helper()
	s := store.New()
	ix := world.NewChunkIndex()
	r := s.NewReader()
	for _, c := range coords {
		s.Insert(world.NewChunk(c))
	}
	ix.Apply(r.Drain(), s)
	return &Caster{Index: ix, Chunks: s}, s
}

func setVoxel(t *testing.T, ca *Caster, s *store.Store, c world.VoxelCoord, v world.Voxel) {
	t.Helper()
	id, ok := ca.Index.Lookup(c)
	if !ok {
		t.Fatalf("no chunk loaded at %v", c)
	}
	s.Mutate(id, func(ch *world.Chunk) {
		ch.SetWorld(c, v)
	})
}

func solid(v world.Voxel) bool { return !v.Transparent() }

// pierce is the level-1-only reference: a plain voxel walk over the whole
// box, reading loaded chunks and treating unloaded space as transparent.
func pierce(ca *Caster, start, dir mgl32.Vec3, min, max world.VoxelCoord, interesting func(world.Voxel) bool) Hit {
	return Trace(world.Canonicalize(start), start, dir, min, max, func(vc world.VoxelCoord) bool {
		id, ok := ca.Index.Lookup(vc)
		if !ok {
			return false
		}
		ch, _ := ca.Chunks.Chunk(id)
		return interesting(ch.AtUnchecked(vc.Sub(world.CanonicalChunk(vc))))
	})
}

func TestCastWithinOneChunk(t *testing.T) {
	ca, s := castWorld(t, world.Coord(0, 0, 0))
	setVoxel(t, ca, s, world.Coord(9, 3, 3), world.Stone)

	start := mgl32.Vec3{1, 3, 3}
	h, ok := ca.Cast(start, mgl32.Vec3{1, 0, 0},
		world.Coord(0, 0, 0), world.Coord(15, 15, 15), solid)

	if !ok || h.Voxel != world.Coord(9, 3, 3) {
		t.Fatalf("got %+v ok=%v, want hit on (9, 3, 3)", h, ok)
	}
	if !closeTo(h.Dist, 7.5) {
		t.Fatalf("dist: got %v, want ~7.5", h.Dist)
	}
}

func TestCastStartInsideSolid(t *testing.T) {
	ca, s := castWorld(t, world.Coord(0, 0, 0))
	setVoxel(t, ca, s, world.Coord(5, 5, 5), world.Wood)

	h, ok := ca.Cast(mgl32.Vec3{5.2, 4.8, 5}, mgl32.Vec3{0, 1, 0},
		world.Coord(0, 0, 0), world.Coord(15, 15, 15), solid)

	if !ok || h.Dist != 0 || h.Voxel != world.Coord(5, 5, 5) {
		t.Fatalf("got %+v ok=%v, want zero-distance hit on (5, 5, 5)", h, ok)
	}
}

func TestCastAcrossLoadedChunks(t *testing.T) {
	// Four loaded chunks in a row; target in the third. With every chunk
	// loaded the two-level cast must agree exactly with the level-1-only
	// reference walk over the spanning box.
	ca, s := castWorld(t,
		world.Coord(0, 0, 0), world.Coord(16, 0, 0),
		world.Coord(32, 0, 0), world.Coord(48, 0, 0))
	setVoxel(t, ca, s, world.Coord(40, 8, 8), world.Stone)

	start := mgl32.Vec3{1, 8, 8}
	dir := mgl32.Vec3{1, 0, 0}
	min, max := world.Coord(0, 0, 0), world.Coord(63, 15, 15)

	h, ok := ca.Cast(start, dir, min, max, solid)
	if !ok || h.Voxel != world.Coord(40, 8, 8) {
		t.Fatalf("got %+v ok=%v, want hit on (40, 8, 8)", h, ok)
	}

	ref := pierce(ca, start, dir, min, max, solid)
	if h.Voxel != ref.Voxel || h.Kind != ref.Kind || !closeTo(h.Dist, ref.Dist) {
		t.Fatalf("two-level %+v diverged from reference %+v", h, ref)
	}
}

func TestCastHopsUnloadedGap(t *testing.T) {
	// Chunks loaded at cells 0 and 3 on the x axis; cells 1 and 2 missing.
	// The cast must skip the gap and land on the target with the same
	// distance the reference walk reports.
	ca, s := castWorld(t, world.Coord(0, 0, 0), world.Coord(48, 0, 0))
	setVoxel(t, ca, s, world.Coord(50, 8, 8), world.Stone)

	start := mgl32.Vec3{2, 8.2, 7.8}
	dir := mgl32.Vec3{1, 0, 0}
	min, max := world.Coord(0, 0, 0), world.Coord(63, 15, 15)

	h, ok := ca.Cast(start, dir, min, max, solid)
	if !ok || h.Voxel != world.Coord(50, 8, 8) {
		t.Fatalf("got %+v ok=%v, want hit on (50, 8, 8)", h, ok)
	}
	if !closeTo(h.Dist, 47.5) {
		t.Fatalf("dist: got %v, want ~47.5", h.Dist)
	}

	ref := pierce(ca, start, dir, min, max, solid)
	if h.Voxel != ref.Voxel || !closeTo(h.Dist, ref.Dist) {
		t.Fatalf("two-level %+v diverged from reference %+v", h, ref)
	}
}

func TestCastStartInUnloadedChunk(t *testing.T) {
	// Start inside unloaded space with the only chunk further along.
	ca, s := castWorld(t, world.Coord(32, 0, 0))
	setVoxel(t, ca, s, world.Coord(33, 2, 2), world.Grass)

	h, ok := ca.Cast(mgl32.Vec3{2, 2, 2}, mgl32.Vec3{1, 0, 0},
		world.Coord(0, 0, 0), world.Coord(47, 15, 15), solid)

	if !ok || h.Voxel != world.Coord(33, 2, 2) {
		t.Fatalf("got %+v ok=%v, want hit on (33, 2, 2)", h, ok)
	}
}

func TestCastMissAgreesWithReference(t *testing.T) {
	// Nothing loaded at all: the cast crosses three cells of empty space
	// and must report the same border voxel as the level-1-only walk.
	ca, _ := castWorld(t)

	start := mgl32.Vec3{0, 0, 0}
	dir := mgl32.Vec3{1, 0, 0}
	min, max := world.Coord(-16, -16, -16), world.Coord(31, 31, 31)

	h, ok := ca.Cast(start, dir, min, max, solid)
	if ok || h.Kind != Border {
		t.Fatalf("got %+v ok=%v, want border miss", h, ok)
	}

	ref := pierce(ca, start, dir, min, max, solid)
	if h.Voxel != ref.Voxel || !closeTo(h.Dist, ref.Dist) {
		t.Fatalf("two-level miss %+v diverged from reference %+v", h, ref)
	}
	if h.Voxel != world.Coord(31, 0, 0) {
		t.Fatalf("border voxel: got %v, want (31, 0, 0)", h.Voxel)
	}
}

func TestCastResumesWhenFinalCellLoaded(t *testing.T) {
	// The cell walk stops at its border without testing the border cell.
	// That cell holds a loaded chunk, so the voxel walk must resume inside
	// it and find the content.
	ca, s := castWorld(t, world.Coord(16, 0, 0))
	setVoxel(t, ca, s, world.Coord(20, 0, 0), world.Stone)

	h, ok := ca.Cast(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0},
		world.Coord(0, 0, 0), world.Coord(31, 15, 15), solid)

	if !ok || h.Voxel != world.Coord(20, 0, 0) {
		t.Fatalf("got %+v ok=%v, want hit on (20, 0, 0)", h, ok)
	}
	if !closeTo(h.Dist, 19.5) {
		t.Fatalf("dist: got %v, want ~19.5", h.Dist)
	}
}

func TestCastTailSweepReadsClippedChunk(t *testing.T) {
	// Cell space exhausts in an unloaded cell, but the final voxel sweep
	// crosses diagonally into a loaded chunk before reaching the border.
	// Content there must be found, not skipped.
	ca, s := castWorld(t, world.Coord(16, 16, 0))
	setVoxel(t, ca, s, world.Coord(17, 16, 0), world.Stone)

	start := mgl32.Vec3{0, 0, 0}
	dir := mgl32.Vec3{1, 0.9, 0}
	min, max := world.Coord(0, 0, 0), world.Coord(31, 31, 15)

	h, ok := ca.Cast(start, dir, min, max, solid)
	if !ok || h.Voxel != world.Coord(17, 16, 0) {
		t.Fatalf("got %+v ok=%v, want hit on (17, 16, 0)", h, ok)
	}
	// Entering y=16 crosses the plane y=15.5 at t = 15.5/0.9.
	if !closeTo(h.Dist, 15.5/0.9) {
		t.Fatalf("dist: got %v, want ~%v", h.Dist, 15.5/0.9)
	}

	ref := pierce(ca, start, dir, min, max, solid)
	if h.Voxel != ref.Voxel || !closeTo(h.Dist, ref.Dist) {
		t.Fatalf("two-level %+v diverged from reference %+v", h, ref)
	}
}
