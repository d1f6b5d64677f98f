package persona

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound means the persona is not declared or its prompt file is absent.
var ErrNotFound = errors.New("persona not found")

// Store reads persona prompt texts from dir and caches them for the process
// lifetime; prompt files are not expected to change while running.
type Store struct {
	dir     string
	catalog *Catalog

	mu    sync.RWMutex
	cache map[string]string
}

func NewStore(dir string, catalog *Catalog) *Store {
	return &Store{dir: dir, catalog: catalog, cache: make(map[string]string)}
}

func (s *Store) Load(name string) (string, error) {
	s.mu.RLock()
	text, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return text, nil
	}

	def, ok := s.catalog.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	path := def.PromptFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s (%s)", ErrNotFound, name, path)
	}
	if err != nil {
		return "", fmt.Errorf("read persona %s: %w", name, err)
	}

	text = string(data)
	s.mu.Lock()
	s.cache[name] = text
	s.mu.Unlock()
	return text, nil
}

// Warm loads every declared persona so a missing prompt file fails startup
// instead of the first request.
func (s *Store) Warm() error {
	for _, name := range s.catalog.Names() {
		if _, err := s.Load(name); err != nil {
			return err
		}
	}
	return nil
}
