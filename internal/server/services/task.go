package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

// TaskService is the remote task store. Every call is scoped by the owner
// taken from the access token. Writes always overwrite the stored copy, so
// a client that reports success can mark its local record synced.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// Create stores t under ownerID, replacing an existing copy with the same id
// whatever its LastUpdated.
func (s *TaskService) Create(ctx context.Context, ownerID string, t *models.Task) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("task id is required")
	}
	if t.OwnerID != "" && t.OwnerID != ownerID {
		return common.ErrorForbidden
	}
	t.OwnerID = ownerID

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		existing, err := repo.Get(ctx, t.ID)
		switch {
		case errors.Is(err, common.ErrorNotFound):
		case err != nil:
			return fmt.Errorf("error reading task: %w", err)
		case existing.OwnerID != ownerID:
			return common.ErrorForbidden
		}

		if err := repo.Upsert(ctx, t); err != nil {
			if errors.Is(err, common.ErrorForbidden) {
				return err
			}
			return fmt.Errorf("error storing task: %w", err)
		}
		return nil
	})
}

// Update applies patch to the owner's task. A missing task yields
// common.ErrorNotFound.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, patch models.TaskPatch) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		existing, err := repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return err
			}
			return fmt.Errorf("error reading task: %w", err)
		}
		if existing.OwnerID != ownerID {
			return common.ErrorForbidden
		}

		if err := repo.Update(ctx, ownerID, id, patch); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return err
			}
			return fmt.Errorf("error updating task: %w", err)
		}
		return nil
	})
}

// Delete removes the owner's task. Deleting an absent task succeeds.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	repo := s.repomanager.Tasks(s.db)

	existing, err := repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return fmt.Errorf("error reading task: %w", err)
	}
	if existing.OwnerID != ownerID {
		return common.ErrorForbidden
	}

	if err := repo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}

func (s *TaskService) List(ctx context.Context, ownerID string) ([]*models.Task, error) {
	list, err := s.repomanager.Tasks(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return list, nil
}
