package config

import (
	"slices"
	"sync"
)

// Observer is notified after the live config changes.
type Observer func(old, new Config)

// Store holds the live config behind one mutex. Readers take a Snapshot and
// release the lock immediately, so a long edit session never blocks a
// settings change.
type Store struct {
	mu        sync.Mutex
	cfg       Config
	observers []Observer
}

// NewStore returns a Store holding a copy of cfg.
func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg.Clone()}
}

// Snapshot returns a copy of the live config.
func (s *Store) Snapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// Replace swaps in cfg and notifies observers when anything changed.
// Observers run on the caller's goroutine after the lock is released.
func (s *Store) Replace(cfg Config) {
	s.mu.Lock()
	old := s.cfg
	s.cfg = cfg.Clone()
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	if equal(old, cfg) {
		return
	}
	for _, fn := range observers {
		fn(old.Clone(), cfg.Clone())
	}
}

// Update applies fn to a copy of the live config and replaces it.
func (s *Store) Update(fn func(*Config)) Config {
	cfg := s.Snapshot()
	fn(&cfg)
	s.Replace(cfg)
	return cfg
}

// Subscribe registers fn for future changes.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func equal(a, b Config) bool {
	return a.Editor == b.Editor &&
		a.Terminal == b.Terminal &&
		a.Hotkey.Key == b.Hotkey.Key &&
		slices.Equal(a.Hotkey.Modifiers, b.Hotkey.Modifiers)
}
