package world

// ChunkID is the host's opaque identity for a stored chunk. The host never
// reuses an id within a run.
type ChunkID uint32

// Event classifies one change-log entry.
type Event uint8

const (
	Inserted Event = iota
	Modified
	Removed
)

func (e Event) String() string {
	switch e {
	case Inserted:
		return "inserted"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// Change is one entry in the host's chunk change log.
type Change struct {
	ID    ChunkID
	Event Event
}

// ChunkSource is the read side of the host's chunk storage.
type ChunkSource interface {
	// Chunk returns the chunk stored under id.
	Chunk(id ChunkID) (*Chunk, bool)
	// Has reports whether id is currently stored.
	Has(id ChunkID) bool
}

// ChunkWriter is the write side of the host's chunk storage. Mutate runs fn
// with mutable access to the chunk and must record a Modified change as part
// of the same operation, so an edit cannot happen without its notification.
// It reports false if the id is not stored.
type ChunkWriter interface {
	Mutate(id ChunkID, fn func(*Chunk)) bool
}

// ChangeFeed delivers the host's change log to one consumer. Every feed has
// its own cursor; draining one feed does not disturb another.
type ChangeFeed interface {
	// Drain returns all changes logged since the previous call, in order.
	Drain() []Change
}
