package genstore

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	gen     uint64
	touched time.Time
}

// LocalGenStore keeps generations in a mutex-guarded map.
// With cleanupInterval and retention both > 0 a background loop prunes keys
// not bumped within retention; a pruned key reads as generation 0 again.
type LocalGenStore struct {
	mu   sync.RWMutex
	gens map[string]localEntry

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

var _ GenStore = (*LocalGenStore)(nil)

func NewLocalGenStore(cleanupInterval, retention time.Duration) *LocalGenStore {
	s := &LocalGenStore{gens: make(map[string]localEntry)}
	if cleanupInterval <= 0 || retention <= 0 {
		return s
	}
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTicker(cleanupInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.Cleanup(retention)
			case <-s.stop:
				return
			}
		}
	}()
	return s
}

func (s *LocalGenStore) Snapshot(_ context.Context, k string) (uint64, error) {
	s.mu.RLock()
	e := s.gens[k]
	s.mu.RUnlock()
	return e.gen, nil
}

func (s *LocalGenStore) Bump(_ context.Context, k string) (uint64, error) {
	now := time.Now()
	s.mu.Lock()
	e := s.gens[k]
	e.gen++
	e.touched = now
	s.gens[k] = e
	s.mu.Unlock()
	return e.gen, nil
}

// Len returns the number of tracked keys.
func (s *LocalGenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.gens)
}

func (s *LocalGenStore) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention)

	s.mu.Lock()
	for k, e := range s.gens {
		if e.touched.Before(cutoff) {
			delete(s.gens, k)
		}
	}
	s.mu.Unlock()
}

// Close stops the cleanup loop. Safe to call more than once.
func (s *LocalGenStore) Close(_ context.Context) error {
	s.once.Do(func() {
		if s.stop != nil {
			close(s.stop)
			s.wg.Wait()
		}
	})
	return nil
}
