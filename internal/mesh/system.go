package mesh

import (
	"log/slog"
	"time"

	"github.com/kazimuth/morass/internal/world"
	"github.com/kazimuth/morass/pkg/timebudget"
)

// Handle is a sink's opaque reference to an uploaded mesh.
type Handle uint64

// Sink receives finished chunk meshes, typically by uploading them to the
// GPU. Attach binds an uploaded mesh, together with the sink's default
// material, to the chunk's render-facing state.
type Sink interface {
	CreateMesh(d *Data) (Handle, error)
	Attach(id world.ChunkID, h Handle) error
}

// System keeps chunk meshes in sync with chunk content. It watches the
// host's change feed, flags changed chunks dirty, and re-meshes dirty chunks
// under a soft per-tick time budget, carrying whatever does not fit into the
// next tick.
//
// Dirtiness must come only from genuine mutation: a writer that opens a
// chunk for mutation without changing anything still triggers a remesh.
type System struct {
	limiter *timebudget.Limiter
	feed    world.ChangeFeed
	chunks  world.ChunkSource
	index   *world.ChunkIndex
	sink    Sink
	dirty   map[world.ChunkID]struct{}
}

// NewSystem returns a System draining the given feed. The feed must be the
// System's own cursor; sharing one with another consumer would lose changes.
func NewSystem(feed world.ChangeFeed, chunks world.ChunkSource, index *world.ChunkIndex, sink Sink) *System {
	return &System{
		limiter: timebudget.New(),
		feed:    feed,
		chunks:  chunks,
		index:   index,
		sink:    sink,
		dirty:   make(map[world.ChunkID]struct{}),
	}
}

// Run performs one tick of mesh maintenance: drain the feed into the dirty
// set, then mesh dirty chunks one at a time until the predicted cost of the
// next one no longer fits in budget. Call it after the index has absorbed
// the same changes, since neighbor lookups go through the index.
func (s *System) Run(budget time.Duration) {
	for _, c := range s.feed.Drain() {
		switch c.Event {
		case world.Inserted:
			s.dirty[c.ID] = struct{}{}
			s.markNeighbors(c.ID)
		case world.Modified:
			s.dirty[c.ID] = struct{}{}
		case world.Removed:
			delete(s.dirty, c.ID)
		}
	}

	s.limiter.RepeatWithBudget(budget, func() bool {
		id, ok := s.next()
		if !ok {
			return false
		}
		s.meshOne(id)
		return true
	})
}

// DirtyCount returns the number of chunks still awaiting a remesh.
func (s *System) DirtyCount() int { return len(s.dirty) }

// A freshly inserted chunk hides border faces of its six neighbors and
// exposes faces of its own, so the neighbors' meshes are stale too.
func (s *System) markNeighbors(id world.ChunkID) {
	ch, ok := s.chunks.Chunk(id)
	if !ok {
		return
	}
	for _, d := range AllDirections {
		adjacent := ch.Coord.Add(d.Normal().Scale(world.ChunkSize))
		if nid, ok := s.index.Lookup(adjacent); ok {
			s.dirty[nid] = struct{}{}
		}
	}
}

func (s *System) next() (world.ChunkID, bool) {
	for id := range s.dirty {
		delete(s.dirty, id)
		return id, true
	}
	return 0, false
}

func (s *System) meshOne(id world.ChunkID) {
	ch, ok := s.chunks.Chunk(id)
	if !ok {
		// Removed after the feed was drained; nothing left to mesh.
		return
	}
	data := BuildChunk(ch.Coord, s.index, s.chunks)
	h, err := s.sink.CreateMesh(data)
	if err != nil {
		slog.Error("mesh upload failed", "chunk", ch.Coord, "err", err)
		return
	}
	if err := s.sink.Attach(id, h); err != nil {
		slog.Error("mesh attach failed", "chunk", ch.Coord, "id", id, "err", err)
	}
}
