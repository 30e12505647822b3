package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		pos  mgl32.Vec3
		want VoxelCoord
	}{
		{mgl32.Vec3{0, 0, 0}, Coord(0, 0, 0)},
		{mgl32.Vec3{0.4, -0.4, 0.4}, Coord(0, 0, 0)},
		{mgl32.Vec3{0.6, 1.4, -0.6}, Coord(1, 1, -1)},
		{mgl32.Vec3{15.7, -15.7, 31.9}, Coord(16, -16, 32)},
		{mgl32.Vec3{-100.2, 100.2, 0}, Coord(-100, 100, 0)},
	}
	for _, c := range cases {
		if got := Canonicalize(c.pos); got != c.want {
			t.Errorf("Canonicalize(%v): got %v, want %v", c.pos, got, c.want)
		}
	}
}

func TestCanonicalChunk(t *testing.T) {
	cases := []struct {
		in   VoxelCoord
		want VoxelCoord
	}{
		{Coord(0, 0, 0), Coord(0, 0, 0)},
		{Coord(15, 15, 15), Coord(0, 0, 0)},
		{Coord(16, 0, 0), Coord(16, 0, 0)},
		{Coord(17, 31, 47), Coord(16, 16, 32)},
		{Coord(-1, -1, -1), Coord(-16, -16, -16)},
		{Coord(-16, -16, -16), Coord(-16, -16, -16)},
		{Coord(-17, -31, -33), Coord(-32, -32, -48)},
	}
	for _, c := range cases {
		if got := CanonicalChunk(c.in); got != c.want {
			t.Errorf("CanonicalChunk(%v): got %v, want %v", c.in, got, c.want)
		}
		if cell := ChunkCell(c.in); cell.Scale(ChunkSize) != c.want {
			t.Errorf("ChunkCell(%v): got %v, want cell of %v", c.in, cell, c.want)
		}
	}
}

func TestLocalOffset(t *testing.T) {
	cases := []struct {
		in   VoxelCoord
		want VoxelCoord
	}{
		{Coord(0, 0, 0), Coord(0, 0, 0)},
		{Coord(5, 15, 16), Coord(5, 15, 0)},
		{Coord(-1, -16, -17), Coord(15, 0, 15)},
	}
	for _, c := range cases {
		if got := LocalOffset(c.in); got != c.want {
			t.Errorf("LocalOffset(%v): got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestLocalOffsetMatchesCanonicalChunk(t *testing.T) {
	// The decomposition into chunk corner plus local offset must round-trip.
	coords := []VoxelCoord{
		Coord(0, 0, 0), Coord(7, 200, -3), Coord(-1, -16, -17),
		Coord(1000, -1000, 12345), Coord(-12345, 31, -48),
	}
	for _, c := range coords {
		back := CanonicalChunk(c).Add(LocalOffset(c))
		if back != c {
			t.Errorf("decomposition of %v reassembles to %v", c, back)
		}
	}
}

func TestChunkAccessors(t *testing.T) {
	ch := NewChunk(Coord(16, 0, -16))
	if got := ch.At(Coord(3, 3, 3)); got != Air {
		t.Fatalf("fresh chunk: got %v, want air", got)
	}

	ch.Set(Coord(3, 3, 3), Stone)
	if got := ch.At(Coord(3, 3, 3)); got != Stone {
		t.Fatalf("after set: got %v, want stone", got)
	}
	if got := ch.AtUnchecked(Coord(3, 3, 3)); got != Stone {
		t.Fatalf("unchecked read: got %v, want stone", got)
	}

	// Out-of-range reads degrade to air, writes are dropped.
	if got := ch.At(Coord(-1, 0, 0)); got != Air {
		t.Fatalf("out-of-range read: got %v, want air", got)
	}
	ch.Set(Coord(16, 0, 0), Stone)
	if got := ch.At(Coord(15, 0, 0)); got != Air {
		t.Fatalf("out-of-range write leaked: got %v", got)
	}
}

func TestChunkSetWorld(t *testing.T) {
	ch := NewChunk(Coord(-16, 0, 0))
	ch.SetWorld(Coord(-1, 5, 5), Grass)
	if got := ch.At(Coord(15, 5, 5)); got != Grass {
		t.Fatalf("world-space write: got %v, want grass", got)
	}

	// A coordinate in a different chunk must not alias into this one.
	ch.SetWorld(Coord(0, 5, 5), Stone)
	for x := range int32(ChunkSize) {
		for y := range int32(ChunkSize) {
			for z := range int32(ChunkSize) {
				if x == 15 && y == 5 && z == 5 {
					continue
				}
				if got := ch.AtUnchecked(Coord(x, y, z)); got != Air {
					t.Fatalf("stray voxel %v at (%d, %d, %d)", got, x, y, z)
				}
			}
		}
	}
}
