package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	query := `
		SELECT user_id, total_logins, weekly_logins, week_start, last_login
		FROM user_stats
		WHERE user_id = $1
	`
	s := &models.UserStats{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&s.UserID, &s.TotalLogins, &s.WeeklyLogins, &s.WeekStart, &s.LastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// Save inserts or overwrites the row of s.UserID.
func (r *PostgresRepository) Save(ctx context.Context, s *models.UserStats) error {
	query := `
		INSERT INTO user_stats (user_id, total_logins, weekly_logins, week_start, last_login)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			total_logins = EXCLUDED.total_logins,
			weekly_logins = EXCLUDED.weekly_logins,
			week_start = EXCLUDED.week_start,
			last_login = EXCLUDED.last_login
	`
	if _, err := r.db.ExecContext(ctx, query,
		s.UserID, s.TotalLogins, s.WeeklyLogins, s.WeekStart, s.LastLogin); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
