package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/lazyvibe/propertydesk/internal/model"
)

// data represents the JSON file structure.
type data struct {
	Properties []model.Property `json:"properties"`
}

// JSONStore implements PropertyStore using JSON file persistence.
type JSONStore struct {
	mu       sync.RWMutex
	path     string
	data     *data
	revision uint64
}

// NewJSONStore creates a new JSON file-based store in dataDir.
func NewJSONStore(dataDir string) (*JSONStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	s := &JSONStore{
		path:     filepath.Join(dataDir, "properties.json"),
		data:     &data{Properties: []model.Property{}},
		revision: 1,
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := s.load(); err != nil {
			return nil, err
		}
	} else if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) load() error {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(content, s.data); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	return nil
}

// save writes data to a temp file and renames it over the store file.
func (s *JSONStore) save() error {
	content, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Close is a no-op; every write is persisted immediately.
func (s *JSONStore) Close() error {
	return nil
}

// Revision returns the current write revision.
func (s *JSONStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// List returns all properties sorted by name.
func (s *JSONStore) List(_ context.Context) ([]model.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Property, len(s.data.Properties))
	copy(result, s.data.Properties)
	sortProperties(result)
	return result, nil
}

// Search returns the properties matching c.
func (s *JSONStore) Search(_ context.Context, c Criteria) ([]model.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Property, 0, len(s.data.Properties))
	for _, p := range s.data.Properties {
		if c.Match(p) {
			result = append(result, p)
		}
	}
	sortProperties(result)
	return result, nil
}

// Get retrieves a property by ID.
func (s *JSONStore) Get(_ context.Context, id string) (*model.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		p := s.data.Properties[i]
		return &p, nil
	}
	return nil, ErrNotFound
}

// Upsert creates or replaces a property.
func (s *JSONStore) Upsert(_ context.Context, p *model.Property) (string, error) {
	if err := p.Validate(); err != nil {
		return "", ValidationErrors{err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *p
	stored.Touch()
	next := make([]model.Property, len(s.data.Properties), len(s.data.Properties)+1)
	copy(next, s.data.Properties)
	if stored.ID == "" {
		stored.ID = uuid.New().String()
		next = append(next, stored)
	} else if i := s.indexOf(stored.ID); i >= 0 {
		next[i] = stored
	} else {
		return "", ErrNotFound
	}
	if err := s.replace(next); err != nil {
		return "", err
	}
	return stored.ID, nil
}

// UpdateFields applies every update or none of them.
func (s *JSONStore) UpdateFields(_ context.Context, updates []FieldUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patched := make([]model.Property, len(s.data.Properties))
	copy(patched, s.data.Properties)

	var problems ValidationErrors
	for _, u := range updates {
		i := s.indexOf(u.ID)
		if i < 0 {
			problems = append(problems, u.ID+": "+ErrNotFound.Error())
			continue
		}
		if msgs := applyUpdate(&patched[i], u); len(msgs) > 0 {
			problems = append(problems, msgs...)
			continue
		}
		patched[i].Touch()
	}
	if len(problems) > 0 {
		return problems
	}

	return s.replace(patched)
}

// Delete removes a property by ID.
func (s *JSONStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	remaining := make([]model.Property, 0, len(s.data.Properties)-1)
	remaining = append(remaining, s.data.Properties[:i]...)
	remaining = append(remaining, s.data.Properties[i+1:]...)

	return s.replace(remaining)
}

// replace swaps in props, persists them and bumps the revision. A failed
// write restores the previous rows. Callers hold mu.
func (s *JSONStore) replace(props []model.Property) error {
	previous := s.data.Properties
	s.data.Properties = props
	if err := s.save(); err != nil {
		s.data.Properties = previous
		return err
	}
	s.revision++
	return nil
}

func (s *JSONStore) indexOf(id string) int {
	for i := range s.data.Properties {
		if s.data.Properties[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *JSONStore) insert(_ context.Context, p model.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(p.ID) >= 0 {
		return ErrAlreadyExists
	}
	next := make([]model.Property, len(s.data.Properties), len(s.data.Properties)+1)
	copy(next, s.data.Properties)
	return s.replace(append(next, p))
}
