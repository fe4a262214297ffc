package regime

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"FlowState/internal/model"
)

// Store is the persistence port for the single regime state record.
// Implementations must round-trip the record losslessly.
type Store interface {
	Load() (*model.RegimeState, error)
	Save(state *model.RegimeState) error
}

// FileStore persists the regime state as an indented JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the state file. A missing file yields the fresh default state;
// a corrupt file yields an error the caller recovers from.
func (f *FileStore) Load() (*model.RegimeState, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewRegimeState(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	state := &model.RegimeState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	state.Normalize()
	return state, nil
}

// Save writes the state file, creating the parent directory if needed.
func (f *FileStore) Save(state *model.RegimeState) error {
	state.TrimHistory()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// MemoryStore keeps the state in process. Used in tests and as the
// fallback when no state file is configured.
type MemoryStore struct {
	state *model.RegimeState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (*model.RegimeState, error) {
	if m.state == nil {
		return model.NewRegimeState(), nil
	}
	return m.state.Clone(), nil
}

func (m *MemoryStore) Save(state *model.RegimeState) error {
	m.state = state.Clone()
	return nil
}
