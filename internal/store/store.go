// Package store provides the reference chunk storage host. It owns chunk
// memory, hands out monotonically increasing chunk ids, and publishes every
// insertion, mutation and removal on a change log consumed through
// per-reader cursors.
package store

import (
	"sync"

	"github.com/kazimuth/morass/internal/world"
)

// Store owns chunks and their change log. The log is retained until every
// reader has drained it, then trimmed.
type Store struct {
	mu      sync.RWMutex
	chunks  map[world.ChunkID]*world.Chunk
	nextID  world.ChunkID
	log     []world.Change
	base    uint64 // absolute log position of log[0]
	readers []*Reader
}

var (
	_ world.ChunkSource = (*Store)(nil)
	_ world.ChunkWriter = (*Store)(nil)
	_ world.ChangeFeed  = (*Reader)(nil)
)

func New() *Store {
	return &Store{chunks: make(map[world.ChunkID]*world.Chunk)}
}

// Insert takes ownership of a chunk, records an Inserted change and returns
// the chunk's new id. Ids are never reused.
func (s *Store) Insert(ch *world.Chunk) world.ChunkID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.chunks[id] = ch
	s.log = append(s.log, world.Change{ID: id, Event: world.Inserted})
	return id
}

// Remove drops the chunk under id and records a Removed change. Reports
// whether the id was stored.
func (s *Store) Remove(id world.ChunkID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[id]; !ok {
		return false
	}
	delete(s.chunks, id)
	s.log = append(s.log, world.Change{ID: id, Event: world.Removed})
	return true
}

// Chunk returns the chunk stored under id. Callers must not modify the
// result; every write goes through Mutate.
func (s *Store) Chunk(id world.ChunkID) (*world.Chunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.chunks[id]
	return ch, ok
}

// Has reports whether id is currently stored.
func (s *Store) Has(id world.ChunkID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.chunks[id]
	return ok
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Mutate runs fn with mutable access to the chunk under id and records a
// Modified change. This is the only write path, so a chunk cannot change
// without its consumers hearing about it. Reports false if id is not
// stored.
func (s *Store) Mutate(id world.ChunkID, fn func(*world.Chunk)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.chunks[id]
	if !ok {
		return false
	}
	fn(ch)
	s.log = append(s.log, world.Change{ID: id, Event: world.Modified})
	return true
}

// NewReader registers a change-log consumer. The reader observes changes
// recorded after this call.
func (s *Store) NewReader() *Reader {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Reader{store: s, pos: s.base + uint64(len(s.log))}
	s.readers = append(s.readers, r)
	return r
}

// trimLocked drops the log prefix that every reader has consumed.
func (s *Store) trimLocked() {
	min := s.base + uint64(len(s.log))
	for _, r := range s.readers {
		if r.pos < min {
			min = r.pos
		}
	}
	if min == s.base {
		return
	}
	n := copy(s.log, s.log[min-s.base:])
	s.log = s.log[:n]
	s.base = min
}

// Reader is one consumer's cursor into the store's change log. A Reader is
// not safe for concurrent use; each consumer owns exactly one.
type Reader struct {
	store *Store
	pos   uint64
}

// Drain returns all changes recorded since the previous call, in order.
func (r *Reader) Drain() []world.Change {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	start := int(r.pos - s.base)
	if start >= len(s.log) {
		return nil
	}
	out := make([]world.Change, len(s.log)-start)
	copy(out, s.log[start:])
	r.pos = s.base + uint64(len(s.log))
	s.trimLocked()
	return out
}

// Close unregisters the reader so it no longer holds back log trimming.
func (r *Reader) Close() {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.readers {
		if other == r {
			s.readers = append(s.readers[:i], s.readers[i+1:]...)
			break
		}
	}
	s.trimLocked()
}
