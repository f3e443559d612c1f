// Package refreshtokens stores the single-use refresh tokens issued at login
// and on every token rotation.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, valid until expiresAt.
	Create(ctx context.Context, userID, token string, expiresAt time.Time) error

	// Consume deletes token and returns the row it removed. A token that
	// is unknown or already consumed yields common.ErrorNotFound, so only
	// one of several concurrent callers can exchange it.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)
}
