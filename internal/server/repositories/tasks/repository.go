// Package tasks stores the remote copy of every user's tasks in PostgreSQL.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/models"
)

// Repository is the server-side task store. Every method is scoped by owner
// except Get, which the service uses to check ownership.
type Repository interface {
	// Get returns common.ErrorNotFound when no task has this id.
	Get(ctx context.Context, id string) (*models.Task, error)

	// Upsert inserts t or replaces the stored copy. It returns
	// common.ErrorForbidden when the id belongs to another owner.
	Upsert(ctx context.Context, t *models.Task) error

	// Update applies the set fields of patch. It returns common.ErrorNotFound
	// when the owner has no task with this id.
	Update(ctx context.Context, ownerID, id string, patch models.TaskPatch) error

	// Delete removes the task. Deleting an absent task is not an error.
	Delete(ctx context.Context, ownerID, id string) error

	ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)

	// CountByOwner returns the number of tasks and how many of them are done.
	CountByOwner(ctx context.Context, ownerID string) (total, completed int64, err error)
}
