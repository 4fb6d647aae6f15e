// Package jsonfile persists a record collection as a single pretty-printed
// JSON array on disk. The contract is deliberately load-all/save-all: every
// read re-parses the file and every write rewrites it whole. A per-collection
// mutex serializes writers so concurrent updates cannot silently drop each
// other, and saves go through a temp file + rename so a crash mid-write
// leaves the previous contents intact.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type Collection[T any] struct {
	mu   sync.Mutex
	path string
}

func NewCollection[T any](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

// Load returns all records, or an empty slice when the backing file does not
// exist yet.
func (c *Collection[T]) Load() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.load()
}

// Save overwrites the whole collection.
func (c *Collection[T]) Save(items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.save(items)
}

// Update runs a read-modify-write cycle under the collection lock. fn gets
// the current records and returns the records to persist; returning an error
// aborts without writing.
func (c *Collection[T]) Update(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()

	if err != nil {
		return err
	}

	next, err := fn(items)

	if err != nil {
		return err
	}

	return c.save(next)
}

func (c *Collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)

	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	var items []T

	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", c.path, err)
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

func (c *Collection[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")

	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}

	dir := filepath.Dir(c.path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")

	if err != nil {
		return fmt.Errorf("temp file for %s: %w", c.path, err)
	}

	_, err = tmp.Write(data)

	if err == nil {
		err = tmp.Sync()
	}

	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", c.path, err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", c.path, err)
	}

	return nil
}
