package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/lazyvibe/propertydesk/internal/model"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS properties (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       REAL NOT NULL CHECK (price >= 0),
	category    TEXT NOT NULL,
	image_url   TEXT NOT NULL DEFAULT '',
	updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_properties_name ON properties(name, id);
`

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA foreign_keys = ON",
}

const selectColumns = `SELECT id, name, description, price, category, image_url, updated_at FROM properties`

// SQLiteStore implements PropertyStore on an SQLite database.
type SQLiteStore struct {
	db       *sql.DB
	revision atomic.Uint64
}

// NewSQLiteStore opens (or creates) properties.db in dataDir.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(dataDir, "properties.db"))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One writer keeps the all-or-nothing batch updates simple.
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	s.revision.Store(1)
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Revision returns the current write revision.
func (s *SQLiteStore) Revision() uint64 {
	return s.revision.Load()
}

// List returns all properties sorted by name.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Property, error) {
	return s.query(ctx, selectColumns+` ORDER BY name, id`)
}

// Search returns the properties matching c.
func (s *SQLiteStore) Search(ctx context.Context, c Criteria) ([]model.Property, error) {
	var (
		where []string
		args  []any
	)
	if term := strings.TrimSpace(c.Term); term != "" {
		where = append(where, `(instr(lower(name), lower(?)) > 0 OR instr(lower(description), lower(?)) > 0)`)
		args = append(args, term, term)
	}
	if cats := c.Categories.List(); len(cats) > 0 {
		marks := make([]string, len(cats))
		for i, cat := range cats {
			marks[i] = "?"
			args = append(args, string(cat))
		}
		where = append(where, `category IN (`+strings.Join(marks, ",")+`)`)
	}
	if c.PriceCeiling != nil {
		where = append(where, `price <= ?`)
		args = append(args, *c.PriceCeiling)
	}

	q := selectColumns
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	return s.query(ctx, q+` ORDER BY name, id`, args...)
}

// Get retrieves a property by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Property, error) {
	return getProperty(ctx, s.db, id)
}

// Upsert creates or replaces a property.
func (s *SQLiteStore) Upsert(ctx context.Context, p *model.Property) (string, error) {
	if err := p.Validate(); err != nil {
		return "", ValidationErrors{err.Error()}
	}
	stored := *p
	stored.Touch()

	if stored.ID == "" {
		stored.ID = uuid.New().String()
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO properties (id, name, description, price, category, image_url, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			stored.ID, stored.Name, stored.Description, stored.Price, string(stored.Category), stored.ImageURL, stored.UpdatedAt)
		if err != nil {
			return "", fmt.Errorf("insert property: %w", err)
		}
	} else {
		res, err := s.db.ExecContext(ctx, updateSQL, updateArgs(stored)...)
		if err != nil {
			return "", fmt.Errorf("update property: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return "", ErrNotFound
		}
	}
	s.revision.Add(1)
	return stored.ID, nil
}

// UpdateFields applies every update in one transaction, or none of them.
func (s *SQLiteStore) UpdateFields(ctx context.Context, updates []FieldUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var problems ValidationErrors
	for _, u := range updates {
		p, err := getProperty(ctx, tx, u.ID)
		if errors.Is(err, ErrNotFound) {
			problems = append(problems, u.ID+": "+ErrNotFound.Error())
			continue
		}
		if err != nil {
			return err
		}
		if msgs := applyUpdate(p, u); len(msgs) > 0 {
			problems = append(problems, msgs...)
			continue
		}
		p.Touch()
		if _, err := tx.ExecContext(ctx, updateSQL, updateArgs(*p)...); err != nil {
			return fmt.Errorf("update property %s: %w", u.ID, err)
		}
	}
	if len(problems) > 0 {
		return problems
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.revision.Add(1)
	return nil
}

// Delete removes a property by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.revision.Add(1)
	return nil
}

const updateSQL = `UPDATE properties
	SET name = ?, description = ?, price = ?, category = ?, image_url = ?, updated_at = ?
	WHERE id = ?`

func updateArgs(p model.Property) []any {
	return []any{p.Name, p.Description, p.Price, string(p.Category), p.ImageURL, p.UpdatedAt, p.ID}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getProperty(ctx context.Context, q queryer, id string) (*model.Property, error) {
	var p model.Property
	var cat string
	err := q.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &cat, &p.ImageURL, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Category = model.Category(cat)
	return &p, nil
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]model.Property, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []model.Property{}
	for rows.Next() {
		var p model.Property
		var cat string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &cat, &p.ImageURL, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Category = model.Category(cat)
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) insert(ctx context.Context, p model.Property) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO properties (id, name, description, price, category, image_url, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, string(p.Category), p.ImageURL, p.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return ErrAlreadyExists
		}
		return err
	}
	s.revision.Add(1)
	return nil
}
