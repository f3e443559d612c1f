package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/models"
)

// PostgresRepository implements Repository over dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t        models.Task
		lat, lng sql.NullFloat64
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.ScheduledTime, &t.Done, &t.LastUpdated, &lat, &lng); err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		t.Location = &models.Location{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &t, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	query := `
		SELECT id, owner_id, title, scheduled_time, done, last_updated, lat, lng
		FROM tasks
		WHERE id = $1
	`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, t *models.Task) error {
	var lat, lng sql.NullFloat64
	if t.Location != nil {
		lat = sql.NullFloat64{Float64: t.Location.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: t.Location.Lng, Valid: true}
	}

	query := `
		INSERT INTO tasks (id, owner_id, title, scheduled_time, done, last_updated, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			scheduled_time = EXCLUDED.scheduled_time,
			done = EXCLUDED.done,
			last_updated = EXCLUDED.last_updated,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng
		WHERE tasks.owner_id = EXCLUDED.owner_id
	`
	res, err := r.db.ExecContext(ctx, query,
		t.ID, t.OwnerID, t.Title, t.ScheduledTime, t.Done, t.LastUpdated, lat, lng)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	// the conflict guard skipped the row: the id is someone else's
	if n == 0 {
		return common.ErrorForbidden
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, ownerID, id string, patch models.TaskPatch) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.ScheduledTime != nil {
		add("scheduled_time", *patch.ScheduledTime)
	}
	if patch.Done != nil {
		add("done", *patch.Done)
	}
	if patch.LastUpdated != nil {
		add("last_updated", *patch.LastUpdated)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d AND owner_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `
		DELETE FROM tasks
		WHERE id = $1 AND owner_id = $2
	`
	if _, err := r.db.ExecContext(ctx, query, id, ownerID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	query := `
		SELECT id, owner_id, title, scheduled_time, done, last_updated, lat, lng
		FROM tasks
		WHERE owner_id = $1
		ORDER BY scheduled_time, id
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string) (int64, int64, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE done)
		FROM tasks
		WHERE owner_id = $1
	`
	var total, completed int64
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&total, &completed); err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}
	return total, completed, nil
}
