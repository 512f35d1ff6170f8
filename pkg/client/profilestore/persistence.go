package profilestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Persistence loads and saves the whole snapshot. Load on an empty backend
// returns an empty snapshot, not an error.
type Persistence interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
}

type MemoryPersistence struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func NewMemoryPersistence() *MemoryPersistence { return &MemoryPersistence{} }

func (m *MemoryPersistence) Load(context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Snapshot{}
	if m.data == nil {
		return s, nil
	}
	if err := json.Unmarshal(m.data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *MemoryPersistence) Save(_ context.Context, s *Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = b
	m.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (m *MemoryPersistence) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FilePersistence keeps the snapshot as a JSON file. Writes go through a
// temp file and rename so a crash never leaves a truncated file behind.
type FilePersistence struct {
	Path string
}

func (f *FilePersistence) Load(context.Context) (*Snapshot, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile store: %w", err)
	}
	s := &Snapshot{}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("decode profile store %s: %w", f.Path, err)
	}
	return s, nil
}

func (f *FilePersistence) Save(_ context.Context, s *Snapshot) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create profile store dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".profile-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write profile store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}
