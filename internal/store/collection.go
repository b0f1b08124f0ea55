package store

import (
	"strings"

	"gorm.io/gorm"
)

// Collection wraps one entity table with the operations every list screen
// needs: filtered listing, lookup, create, save, delete. The per-entity
// handlers differ only in their searchable-field projection.
type Collection[T any] struct {
	db      *gorm.DB
	project func(T) []string
}

// NewCollection builds a collection whose List filters on the fields the
// projection returns for each record.
func NewCollection[T any](db *gorm.DB, project func(T) []string) *Collection[T] {
	return &Collection[T]{db: db, project: project}
}

// List returns records in insertion order. A non-empty query keeps only the
// records where at least one projected field contains the query,
// case-insensitively; the empty query returns everything. Matching happens
// in Go rather than in SQL: SQLite's lower() folds ASCII only, so a LIKE
// against it would miss accented names, and the query stays a literal
// substring with no pattern metacharacters.
func (c *Collection[T]) List(query string) ([]T, error) {
	var records []T
	if err := c.db.Model(new(T)).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || c.project == nil {
		return records, nil
	}

	matched := make([]T, 0, len(records))
	for _, rec := range records {
		for _, field := range c.project(rec) {
			if strings.Contains(strings.ToLower(field), query) {
				matched = append(matched, rec)
				break
			}
		}
	}
	return matched, nil
}

// Find reports whether the id references an existing record. Callers map a
// false result to a display placeholder instead of an error.
func (c *Collection[T]) Find(id uint) (*T, bool) {
	var rec T
	if err := c.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, false
	}
	return &rec, true
}

func (c *Collection[T]) Create(rec *T) error {
	return c.db.Create(rec).Error
}

func (c *Collection[T]) Save(rec *T) error {
	return c.db.Save(rec).Error
}

// Delete removes exactly the record with the given id; every other record,
// including relative order, is untouched.
func (c *Collection[T]) Delete(id uint) error {
	return c.db.Delete(new(T), "id = ?", id).Error
}
