package repository

import (
	"context"
	"errors"
)

const (
	ProjectsCollection = "projects"
	ProgressCollection = "progress"
)

// Collections lists every collection the service persists.
var Collections = []string{ProjectsCollection, ProgressCollection}

var ErrCollectionNotFound = errors.New("collection not found")

// Backend stores each collection as one opaque JSON document.
// Write replaces the whole document; there is no partial update.
type Backend interface {
	Name() string
	Read(ctx context.Context, collection string) ([]byte, error)
	Write(ctx context.Context, collection string, data []byte) error
	Ping(ctx context.Context) error
}
