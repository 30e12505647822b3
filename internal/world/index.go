package world

import (
	"fmt"
	"log/slog"
)

// ChunkIndex maintains the bidirectional mapping between canonical chunk
// coordinates and host chunk ids. It is driven by the host's change log
// through Apply, never by scanning storage.
type ChunkIndex struct {
	coordToID map[VoxelCoord]ChunkID
	idToCoord map[ChunkID]VoxelCoord
}

func NewChunkIndex() *ChunkIndex {
	return &ChunkIndex{
		coordToID: make(map[VoxelCoord]ChunkID),
		idToCoord: make(map[ChunkID]VoxelCoord),
	}
}

// Register records a chunk under its canonical coordinate. Registering an
// occupied coordinate or a known id is a host protocol violation: debug
// builds panic, release builds keep the first registration and log the
// conflict.
func (ix *ChunkIndex) Register(coord VoxelCoord, id ChunkID) {
	if debugAssert && CanonicalChunk(coord) != coord {
		panic(fmt.Sprintf("world: registering non-canonical chunk coordinate %v", coord))
	}
	if prev, ok := ix.coordToID[coord]; ok {
		if debugAssert {
			panic(fmt.Sprintf("world: chunk %v already registered as id %d", coord, prev))
		}
		slog.Error("duplicate chunk registration ignored", "coord", coord, "id", id, "existing", prev)
		return
	}
	if prev, ok := ix.idToCoord[id]; ok {
		if debugAssert {
			panic(fmt.Sprintf("world: chunk id %d already registered at %v", id, prev))
		}
		slog.Error("duplicate chunk id ignored", "id", id, "coord", coord, "existing", prev)
		return
	}
	ix.coordToID[coord] = id
	ix.idToCoord[id] = coord
}

// Unregister removes a chunk by id. Unregistering an id that was never
// registered means the index and the change log have diverged; that is not
// recoverable, so it panics in every build.
func (ix *ChunkIndex) Unregister(id ChunkID) {
	coord, ok := ix.idToCoord[id]
	if !ok {
		panic(fmt.Sprintf("world: unregistering unknown chunk id %d", id))
	}
	delete(ix.idToCoord, id)
	delete(ix.coordToID, coord)
}

// Lookup resolves a voxel coordinate to the id of the chunk containing it.
// The coordinate need not be canonical.
func (ix *ChunkIndex) Lookup(c VoxelCoord) (ChunkID, bool) {
	id, ok := ix.coordToID[CanonicalChunk(c)]
	return id, ok
}

// Len returns the number of registered chunks.
func (ix *ChunkIndex) Len() int {
	if debugAssert && len(ix.coordToID) != len(ix.idToCoord) {
		panic("world: chunk index maps out of sync")
	}
	return len(ix.coordToID)
}

// Apply folds one drained batch of storage changes into the index, in log
// order. A chunk that was inserted and removed again before the batch was
// drained no longer resolves in src; such pairs are dropped whole.
func (ix *ChunkIndex) Apply(changes []Change, src ChunkSource) {
	var vanished map[ChunkID]struct{}
	for _, ch := range changes {
		switch ch.Event {
		case Inserted:
			chunk, ok := src.Chunk(ch.ID)
			if !ok {
				if vanished == nil {
					vanished = make(map[ChunkID]struct{})
				}
				vanished[ch.ID] = struct{}{}
				continue
			}
			ix.Register(chunk.Coord, ch.ID)
		case Removed:
			if _, gone := vanished[ch.ID]; gone {
				delete(vanished, ch.ID)
				continue
			}
			ix.Unregister(ch.ID)
		case Modified:
			// Content changes never move a chunk.
		}
	}
}
