package main

import (
	"time"

	"github.com/kazimuth/morass/internal/store"
	"github.com/kazimuth/morass/internal/world"
)

// scene seeds the demo world and keeps a far "beacon" chunk blinking in and
// out of storage, so chunk removal and re-insertion stay exercised for as
// long as the demo runs.
type scene struct {
	chunks *store.Store

	beacon     world.ChunkID // 0 while the beacon is out of storage
	beaconFlip time.Time
}

const beaconPeriod = 2 * time.Second

var beaconCoord = world.Coord(2*world.ChunkSize, 0, 3*world.ChunkSize)

func seedScene(chunks *store.Store) *scene {
	// Grass-topped stone slab, 3x3 chunks under the origin.
	for cx := int32(-1); cx <= 1; cx++ {
		for cz := int32(-1); cz <= 1; cz++ {
			chunks.Insert(slabChunk(world.Coord(cx*world.ChunkSize, -world.ChunkSize, cz*world.ChunkSize)))
		}
	}
	chunks.Insert(gardenChunk(world.Coord(0, 0, 0)))
	return &scene{chunks: chunks, beaconFlip: time.Now()}
}

func (s *scene) update(now time.Time) {
	if now.Sub(s.beaconFlip) < beaconPeriod {
		return
	}
	s.beaconFlip = now
	if s.beacon != 0 {
		s.chunks.Remove(s.beacon)
		s.beacon = 0
		return
	}
	s.beacon = s.chunks.Insert(beaconChunk(beaconCoord))
}

// slabChunk is solid stone with a single grass layer on top.
func slabChunk(coord world.VoxelCoord) *world.Chunk {
	ch := world.NewChunk(coord)
	for x := int32(0); x < world.ChunkSize; x++ {
		for z := int32(0); z < world.ChunkSize; z++ {
			for y := int32(0); y < world.ChunkSize-1; y++ {
				ch.Set(world.Coord(x, y, z), world.Stone)
			}
			ch.Set(world.Coord(x, world.ChunkSize-1, z), world.Grass)
		}
	}
	return ch
}

// gardenChunk scatters grass blocks near its floor and grows one tree.
func gardenChunk(coord world.VoxelCoord) *world.Chunk {
	ch := world.NewChunk(coord)
	for _, p := range [...][3]int32{
		{0, 0, 0}, {0, 0, 1}, {0, 0, 2}, {0, 3, 3}, {5, 0, 5}, {0, 5, 0},
	} {
		ch.Set(world.Coord(p[0], p[1], p[2]), world.Grass)
	}
	for y := int32(0); y < 5; y++ {
		ch.Set(world.Coord(10, y, 10), world.Wood)
	}
	for dx := int32(-1); dx <= 1; dx++ {
		for dz := int32(-1); dz <= 1; dz++ {
			ch.Set(world.Coord(10+dx, 5, 10+dz), world.Grass)
		}
	}
	ch.Set(world.Coord(10, 6, 10), world.Grass)
	return ch
}

// beaconChunk is a stone shaft with a wood cap, tall enough to read at a
// distance.
func beaconChunk(coord world.VoxelCoord) *world.Chunk {
	ch := world.NewChunk(coord)
	for y := int32(0); y < world.ChunkSize-1; y++ {
		for _, p := range [...][2]int32{{7, 7}, {8, 7}, {7, 8}, {8, 8}} {
			ch.Set(world.Coord(p[0], y, p[1]), world.Stone)
		}
	}
	for x := int32(6); x <= 9; x++ {
		for z := int32(6); z <= 9; z++ {
			ch.Set(world.Coord(x, world.ChunkSize-1, z), world.Wood)
		}
	}
	return ch
}
