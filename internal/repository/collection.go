package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"progresstracker/pkg/metrics"
)

// Collection reads and writes a whole JSON array of T through a Backend.
type Collection[T any] struct {
	name    string
	backend Backend
	logger  *zap.Logger
}

func NewCollection[T any](name string, backend Backend, logger *zap.Logger) *Collection[T] {
	return &Collection[T]{name: name, backend: backend, logger: logger}
}

func (c *Collection[T]) Name() string { return c.name }

// Load never fails: a missing or unreadable collection is logged and read as empty.
func (c *Collection[T]) Load(ctx context.Context) []T {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOperation("load", c.name, c.backend.Name(), time.Since(start))
	}()

	data, err := c.backend.Read(ctx, c.name)
	if errors.Is(err, ErrCollectionNotFound) {
		return []T{}
	}
	if err != nil {
		c.logger.Error("Failed to read collection",
			zap.String("collection", c.name),
			zap.String("backend", c.backend.Name()),
			zap.Error(err),
		)
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Error("Failed to parse collection",
			zap.String("collection", c.name),
			zap.String("backend", c.backend.Name()),
			zap.Error(err),
		)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Save overwrites the collection with items, two-space indented.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOperation("save", c.name, c.backend.Name(), time.Since(start))
	}()

	data, err := Encode(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.name, err)
	}
	if err := c.backend.Write(ctx, c.name, data); err != nil {
		c.logger.Error("Failed to write collection",
			zap.String("collection", c.name),
			zap.String("backend", c.backend.Name()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to write %s: %w", c.name, err)
	}
	return nil
}

// Encode renders items the way they are stored: a two-space indented array
// with non-ASCII text kept as is.
func Encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
