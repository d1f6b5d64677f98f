package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// rename is swapped in tests to fail the final replace.
var rename = os.Rename

// FileLog keeps one JSON array document per persona in dir.
// Every Append rewrites the whole document through a temp file and a rename.
type FileLog struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileLog(dir string) (*FileLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure history dir: %w", err)
	}
	return &FileLog{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Path returns the document location for persona.
func (l *FileLog) Path(persona string) string {
	return filepath.Join(l.dir, persona+".json")
}

func (l *FileLog) Load(persona string) ([]Exchange, error) {
	lk := l.lockFor(persona)
	lk.Lock()
	defer lk.Unlock()
	return l.loadUnlocked(persona)
}

func (l *FileLog) Append(persona string, ex Exchange) error {
	lk := l.lockFor(persona)
	lk.Lock()
	defer lk.Unlock()

	exchanges, err := l.loadUnlocked(persona)
	if err != nil {
		return err
	}
	exchanges = append(exchanges, ex)
	return l.saveUnlocked(persona, exchanges)
}

func (l *FileLog) lockFor(persona string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.locks[persona]
	if !ok {
		lk = &sync.Mutex{}
		l.locks[persona] = lk
	}
	return lk
}

// storedExchange mirrors Exchange with pointers so missing fields are detected.
type storedExchange struct {
	Timestamp *time.Time `json:"timestamp"`
	User      *string    `json:"user"`
	Bot       *string    `json:"bot"`
}

func (l *FileLog) loadUnlocked(persona string) ([]Exchange, error) {
	data, err := os.ReadFile(l.Path(persona))
	if errors.Is(err, os.ErrNotExist) {
		return []Exchange{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return decodeHistory(data)
}

func decodeHistory(data []byte) ([]Exchange, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []Exchange{}, nil
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: document is not a JSON array", ErrCorruptHistory)
	}

	var stored []storedExchange
	if err := json.Unmarshal(trimmed, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptHistory, err)
	}

	out := make([]Exchange, 0, len(stored))
	for i, s := range stored {
		if s.Timestamp == nil || s.User == nil || s.Bot == nil {
			return nil, fmt.Errorf("%w: record %d is missing timestamp, user or bot", ErrCorruptHistory, i)
		}
		out = append(out, Exchange{Timestamp: *s.Timestamp, User: *s.User, Bot: *s.Bot})
	}
	return out, nil
}

func (l *FileLog) saveUnlocked(persona string, exchanges []Exchange) error {
	data, err := json.MarshalIndent(exchanges, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp, err := os.CreateTemp(l.dir, persona+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	// no-op once the rename succeeded
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := rename(tmpName, l.Path(persona)); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
