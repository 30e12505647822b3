package world

import (
	"log/slog"
	"sync"
)

// DeltaQueue collects voxel edits destined for chunks that may not be loaded
// yet and applies them in one batch per tick. DeferSet may be called from
// any goroutine. Apply holds the queue lock for the whole drain, so an
// observer sees either none or all of a batch.
type DeltaQueue struct {
	mu      sync.Mutex
	pending []delta
}

type delta struct {
	coord VoxelCoord
	voxel Voxel
}

// DeferSet queues a voxel write at a world coordinate.
func (q *DeltaQueue) DeferSet(c VoxelCoord, v Voxel) {
	q.mu.Lock()
	q.pending = append(q.pending, delta{coord: c, voxel: v})
	q.mu.Unlock()
}

// Len returns the number of queued edits.
func (q *DeltaQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Apply drains the queue in submission order, writing every edit through the
// host's mutation path so each touched chunk is flagged as modified. Later
// edits to the same coordinate win. Edits addressing unloaded chunks are
// dropped with a warning. Returns the number of edits applied.
func (q *DeltaQueue) Apply(ix *ChunkIndex, chunks ChunkWriter) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	applied := 0
	for _, d := range q.pending {
		id, ok := ix.Lookup(d.coord)
		if !ok {
			slog.Warn("dropping edit to unloaded chunk", "coord", d.coord, "voxel", d.voxel)
			continue
		}
		local := LocalOffset(d.coord)
		if !chunks.Mutate(id, func(ch *Chunk) {
			ch.Set(local, d.voxel)
		}) {
			slog.Warn("dropping edit to missing chunk", "coord", d.coord, "id", id)
			continue
		}
		applied++
	}
	q.pending = q.pending[:0]
	return applied
}
