package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/models"
)

// Repository is the local task store.
type Repository interface {
	// Get returns common.ErrorNotFound when id is absent.
	Get(ctx context.Context, id string) (*models.Task, error)
	// Put inserts or fully replaces the record with t.ID.
	Put(ctx context.Context, t *models.Task) error
	// Delete removes id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]*models.Task, error)
}
