package docstore

import (
	"sync"
	"time"
)

// Handle is a transient reference to an uploaded POD file
type Handle struct {
	FileName    string    `json:"file_name"`
	Size        int64     `json:"size,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ChangeFunc is invoked after every mutating call with the new version
type ChangeFunc func(version uint64)

// Store is a process-lifetime keyed store of uploaded POD file handles.
// Every mutating call increments a monotonic version counter so
// observers can detect that the contents changed without diffing; the
// version can be polled or watched through OnChange.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]Handle
	version  uint64
	onChange []ChangeFunc
}

// New creates an empty document store
func New() *Store {
	return &Store{
		entries: make(map[string]Handle),
	}
}

// Set stores a handle under the given key, overwriting any prior entry
// (last-write-wins)
func (s *Store) Set(key string, h Handle) {
	s.mu.Lock()
	s.entries[key] = h
	version := s.bump()
	watchers := s.watchers()
	s.mu.Unlock()

	notify(watchers, version)
}

// Get returns the handle for the key, with found=false for absent keys
func (s *Store) Get(key string) (Handle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.entries[key]
	return h, ok
}

// Remove deletes the entry for the key. Removing an absent key is a
// no-op for the contents but still counts as a mutation.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	version := s.bump()
	watchers := s.watchers()
	s.mu.Unlock()

	notify(watchers, version)
}

// Len returns the number of stored handles
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns the keys of all stored handles
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return keys
}

// Version returns the current version counter. It strictly increases
// across mutating calls.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// OnChange registers a callback invoked after every mutation
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

func (s *Store) bump() uint64 {
	s.version++
	return s.version
}

func (s *Store) watchers() []ChangeFunc {
	return append([]ChangeFunc(nil), s.onChange...)
}

// notify runs outside the store lock so callbacks may read the store
func notify(watchers []ChangeFunc, version uint64) {
	for _, fn := range watchers {
		fn(version)
	}
}
