package crmsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotStored is returned by Storage.Get for a missing key.
var ErrNotStored = errors.New("crmsdk: key not stored")

// Storage persists string blobs by key, the way a browser's localStorage
// does.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryStorage keeps blobs in process memory.
type MemoryStorage struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	if !ok {
		return "", ErrNotStored
	}
	return v, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// FileStorage keeps blobs in a JSON object on disk, written with 0600
// permissions. A missing or undecodable file reads as empty storage and is
// rewritten by the next Set or Remove.
type FileStorage struct {
	Path string

	mu sync.Mutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

func (f *FileStorage) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, _, err := f.load()
	if err != nil {
		return "", err
	}
	v, ok := items[key]
	if !ok {
		return "", ErrNotStored
	}
	return v, nil
}

func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, _, err := f.load()
	if err != nil {
		return err
	}
	items[key] = value
	return f.save(items)
}

func (f *FileStorage) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, corrupt, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok && !corrupt {
		return nil
	}
	delete(items, key)
	return f.save(items)
}

// load reads the file. corrupt reports contents that did not decode; they
// are dropped.
func (f *FileStorage) load() (items map[string]string, corrupt bool, err error) {
	items = make(map[string]string)

	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return items, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read storage: %w", err)
	}
	if len(raw) == 0 {
		return items, false, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return make(map[string]string), true, nil
	}
	return items, false, nil
}

func (f *FileStorage) save(items map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	// Write to a sibling file and rename so a crash never truncates the store.
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write storage: %w", err)
	}
	return os.Rename(tmp, f.Path)
}
