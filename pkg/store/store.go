// Package store is the only code that touches the videos table.
package store

import (
	"context"
	"errors"

	"video-catalog/pkg/models"
)

var (
	// ErrVideoNotFound is returned by Delete when no row has the id.
	ErrVideoNotFound = errors.New("video not found")
	// ErrVideoExists is returned when a write would duplicate a primary key.
	ErrVideoExists = errors.New("video id already exists")
)

// VideoStore is the table-scoped query surface used by the service layer.
type VideoStore interface {
	// List returns every row when filter is empty, otherwise the rows whose
	// title contains filter (case-sensitive).
	List(ctx context.Context, filter string) ([]models.VideoRecord, error)
	// GetByID returns nil, nil when the id is absent.
	GetByID(ctx context.Context, id string) (*models.VideoRecord, error)
	Insert(ctx context.Context, record models.VideoRecord) error
	// Update rewrites every column of the row keyed by id, including id
	// itself. Zero matches is not an error.
	Update(ctx context.Context, id string, record models.VideoRecord) (int64, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
