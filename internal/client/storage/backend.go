package storage

import (
	"encoding/json"
	"os"
	"sync"
)

// Backend abstracts the underlying key-value medium the Store writes
// through. Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// Set writes the value for key.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Keys returns all keys currently stored, app-owned or not.
	Keys() ([]string, error)
}

// FileBackend persists key-value pairs as a single JSON file, loading
// the full map at construction and rewriting the file on every mutation.
type FileBackend struct {
	path string
	mu   sync.Mutex
	data map[string]string
}

// NewFileBackend opens (or creates) the backing file at path.
func NewFileBackend(path string) (*FileBackend, error) {
	b := &FileBackend{path: path, data: make(map[string]string)}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return nil, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&b.data); err != nil {
		return nil, err
	}
	return b, nil
}

// save rewrites the backing file. Caller must hold mu.
func (b *FileBackend) save() error {
	f, err := os.Create(b.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(b.data)
}

// Get returns the stored value for key.
func (b *FileBackend) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[key]
	return v, ok, nil
}

// Set writes value under key and persists the map.
func (b *FileBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
	return b.save()
}

// Delete removes key and persists the map.
func (b *FileBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.data[key]; !ok {
		return nil
	}
	delete(b.data, key)
	return b.save()
}

// Keys returns every key in the backing file.
func (b *FileBackend) Keys() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// MemoryBackend is an in-memory Backend used by tests and by callers
// that do not need durability.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

// Get returns the stored value for key.
func (b *MemoryBackend) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[key]
	return v, ok, nil
}

// Set writes value under key.
func (b *MemoryBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
	return nil
}

// Delete removes key.
func (b *MemoryBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

// Keys returns every stored key.
func (b *MemoryBackend) Keys() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	return keys, nil
}
