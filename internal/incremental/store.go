package incremental

import (
	"errors"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"mvvmgen/internal/guard"
)

// DefaultSize is the in-memory entry limit when none is configured.
const DefaultSize = 4096

// Stats counts cache traffic.
type Stats struct {
	Hits       uint64
	Misses     uint64
	DiskHits   uint64
	DiskWrites uint64
	DiskErrors uint64
}

// Store is a two-level memo cache: an LRU in front of an optional Disk.
// It is safe for concurrent use.
type Store struct {
	mem  *lru.Cache[Key, []byte]
	disk *Disk

	hits, misses, diskHits, diskWrites, diskErrors atomic.Uint64
}

// New creates a store holding up to size entries in memory. disk may be nil.
func New(size int, disk *Disk) (*Store, error) {
	if _, err := guard.InRange(size, 1, 1<<24, "cache size"); err != nil {
		return nil, err
	}
	mem, err := lru.New[Key, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("init memo cache: %w", err)
	}
	return &Store{mem: mem, disk: disk}, nil
}

// Get decodes the value cached under key into out.
func (s *Store) Get(key Key, out any) (bool, error) {
	if s == nil {
		return false, nil
	}
	if data, ok := s.mem.Get(key); ok {
		s.hits.Add(1)
		return true, Decode(data, out)
	}
	var p Payload
	ok, err := s.disk.Get(key, &p)
	switch {
	case errors.Is(err, ErrCacheSchema):
		s.misses.Add(1)
		return false, nil
	case err != nil:
		s.diskErrors.Add(1)
		s.misses.Add(1)
		return false, nil
	case !ok:
		s.misses.Add(1)
		return false, nil
	}
	s.hits.Add(1)
	s.diskHits.Add(1)
	s.mem.Add(key, p.Data)
	return true, Decode(p.Data, out)
}

// Put encodes v and stores it under key in memory and on disk.
func (s *Store) Put(key Key, stage string, v any) error {
	if s == nil {
		return nil
	}
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("encode %T: %w", v, err)
	}
	s.mem.Add(key, data)
	if s.disk == nil {
		return nil
	}
	if err := s.disk.Put(key, &Payload{Schema: SchemaVersion, Stage: stage, Data: data}); err != nil {
		s.diskErrors.Add(1)
		return fmt.Errorf("persist %s/%s: %w", stage, key, err)
	}
	s.diskWrites.Add(1)
	return nil
}

// Stats returns a snapshot of the counters.
func (s *Store) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		Hits:       s.hits.Load(),
		Misses:     s.misses.Load(),
		DiskHits:   s.diskHits.Load(),
		DiskWrites: s.diskWrites.Load(),
		DiskErrors: s.diskErrors.Load(),
	}
}

// Len returns the number of in-memory entries.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return s.mem.Len()
}

// Memo returns the cached result for (stage, input) or computes and caches
// it. A nil store always computes. The bool reports a cache hit.
func Memo[T any](s *Store, stage string, input any, compute func() (T, error)) (T, bool, error) {
	if s == nil {
		v, err := compute()
		return v, false, err
	}
	key, err := KeyOf(stage, input)
	if err != nil {
		var zero T
		return zero, false, err
	}
	var cached T
	if ok, err := s.Get(key, &cached); err == nil && ok {
		return cached, true, nil
	}
	v, err := compute()
	if err != nil {
		return v, false, err
	}
	// Persistence failures are counted in Stats and never fail the stage.
	_ = s.Put(key, stage, v)
	return v, false, nil
}
