package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/models"
)

const taskColumns = `id, owner_id, title, scheduled_time, done, last_updated, synced, lat, lng`

// SQLiteRepository implements Repository over a DBTX, so the same code
// runs on *sql.DB or inside a transaction.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t        models.Task
		lat, lng sql.NullFloat64
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.ScheduledTime, &t.Done, &t.LastUpdated, &t.Synced, &lat, &lng); err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		t.Location = &models.Location{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &t, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to get task[%s]: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, t *models.Task) error {
	var lat, lng sql.NullFloat64
	if t.Location != nil {
		lat = sql.NullFloat64{Float64: t.Location.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: t.Location.Lng, Valid: true}
	}

	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			title = excluded.title,
			scheduled_time = excluded.scheduled_time,
			done = excluded.done,
			last_updated = excluded.last_updated,
			synced = excluded.synced,
			lat = excluded.lat,
			lng = excluded.lng`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.OwnerID, t.Title, t.ScheduledTime, t.Done, t.LastUpdated, t.Synced, lat, lng)
	if err != nil {
		return fmt.Errorf("failed to put task[%s]: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete task[%s]: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}
	return result, nil
}
