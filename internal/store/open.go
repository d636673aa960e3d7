package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/lazyvibe/propertydesk/internal/model"
	"gopkg.in/yaml.v3"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open creates the store for the named backend.
func Open(backend, dataDir string) (PropertyStore, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(dataDir)
	case BackendSQLite:
		return NewSQLiteStore(dataDir)
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

type fixtureFile struct {
	Properties []model.Property `yaml:"properties"`
}

// LoadFixtures reads a YAML fixture file and upserts every property into s.
// It returns the number of records written.
func LoadFixtures(ctx context.Context, s PropertyStore, path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var f fixtureFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return 0, fmt.Errorf("parse fixtures: %w", err)
	}

	for i := range f.Properties {
		p := f.Properties[i]
		cat, err := model.ParseCategory(string(p.Category))
		if err != nil {
			return i, fmt.Errorf("fixture %d (%s): %w", i, p.Name, err)
		}
		p.Category = cat
		if p.ID != "" {
			// Fixture IDs are kept so reseeding is idempotent.
			if _, err := s.Get(ctx, p.ID); errors.Is(err, ErrNotFound) {
				if err := insertWithID(ctx, s, p); err != nil {
					return i, err
				}
				continue
			}
		}
		if _, err := s.Upsert(ctx, &p); err != nil {
			return i, fmt.Errorf("fixture %d (%s): %w", i, p.Name, err)
		}
	}
	return len(f.Properties), nil
}

// idInserter is implemented by stores that can create a record under a
// caller-chosen ID.
type idInserter interface {
	insert(ctx context.Context, p model.Property) error
}

func insertWithID(ctx context.Context, s PropertyStore, p model.Property) error {
	ins, ok := s.(idInserter)
	if !ok {
		return fmt.Errorf("store %T cannot seed fixed ids", s)
	}
	if err := p.Validate(); err != nil {
		return ValidationErrors{err.Error()}
	}
	p.Touch()
	return ins.insert(ctx, p)
}
