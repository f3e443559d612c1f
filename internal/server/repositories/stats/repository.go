// Package stats keeps per-user login analytics in PostgreSQL.
package stats

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound for a user who never logged in.
	Get(ctx context.Context, userID string) (*models.UserStats, error)
	Save(ctx context.Context, s *models.UserStats) error
}
