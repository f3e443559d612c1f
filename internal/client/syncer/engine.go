package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/connectivity"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/models"
)

// ErrReplayInProgress is returned when SyncPending is called while another
// replay is still running.
var ErrReplayInProgress = errors.New("replay already in progress")

// RemoteStore is the server side of the task store. client.GRPCClient
// satisfies it.
type RemoteStore interface {
	CreateTask(ctx context.Context, t *models.Task) error
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, ownerID string) ([]*models.Task, error)
}

// DB is the local database handle: plain statements plus transactions.
// *sql.DB satisfies it.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

// ReadOptions tunes GetTasks.
type ReadOptions struct {
	// SkipMerge returns the local view without asking the server.
	SkipMerge bool
}

// ReplayReport summarises one SyncPending run.
type ReplayReport struct {
	Pending int
	Synced  int
	Failed  int
	Skipped int
}

type Engine struct {
	db     DB
	repo   func(dbx.DBTX) tasks.Repository
	remote RemoteStore
	gate   *connectivity.Gate
	log    logging.Logger
	now    func() time.Time

	replayMu sync.Mutex
}

func NewEngine(db DB, remote RemoteStore, gate *connectivity.Gate, log logging.Logger) *Engine {
	return &Engine{
		db: db,
		repo: func(d dbx.DBTX) tasks.Repository {
			return tasks.NewSQLiteRepository(d)
		},
		remote: remote,
		gate:   gate,
		log:    log.With("module", "syncer"),
		now:    time.Now,
	}
}

// stamp returns a LastUpdated value newer than prev.
func (e *Engine) stamp(prev int64) int64 {
	ts := e.now().UnixMilli()
	if ts <= prev {
		ts = prev + 1
	}
	return ts
}

// AddTask stores t locally as pending and tries to create it remotely.
// The returned copy reflects the local record after the attempt.
func (e *Engine) AddTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	local := t.Clone()
	local.Synced = false
	local.LastUpdated = e.stamp(0)

	if err := e.repo(e.db).Put(ctx, local); err != nil {
		return nil, fmt.Errorf("save task locally: %w", err)
	}

	res := e.gate.Do(ctx, "create_task", func(ctx context.Context) error {
		return e.remote.CreateTask(ctx, local)
	})
	if res.OK() {
		local.Synced = e.markSynced(ctx, local.ID, local.LastUpdated)
	}
	return local, nil
}

// UpdateTask applies patch locally, marks the task pending and sends the
// same partial update to the server. LastUpdated in patch is ignored and
// replaced by a fresh stamp.
func (e *Engine) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	repo := e.repo(e.db)

	local, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ts := e.stamp(local.LastUpdated)
	patch.LastUpdated = &ts
	patch.ApplyTo(local)
	local.Synced = false

	if err := repo.Put(ctx, local); err != nil {
		return nil, fmt.Errorf("save task locally: %w", err)
	}

	res := e.gate.Do(ctx, "update_task", func(ctx context.Context) error {
		return e.remote.UpdateTask(ctx, id, patch)
	})
	if res.OK() {
		local.Synced = e.markSynced(ctx, id, ts)
	}
	return local, nil
}

// DeleteTask removes the task locally and, best effort, remotely. A failed
// remote delete is not retried.
func (e *Engine) DeleteTask(ctx context.Context, id string) error {
	if err := e.repo(e.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task locally: %w", err)
	}

	e.gate.Do(ctx, "delete_task", func(ctx context.Context) error {
		return e.remote.DeleteTask(ctx, id)
	})
	return nil
}

// markSynced flags the local record synced if it still carries version.
// A record that vanished or moved on is left alone.
func (e *Engine) markSynced(ctx context.Context, id string, version int64) bool {
	marked := false
	err := dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := e.repo(tx)
		cur, err := repo.Get(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if cur.LastUpdated != version {
			return nil
		}
		if cur.Synced {
			marked = true
			return nil
		}
		cur.Synced = true
		if err := repo.Put(ctx, cur); err != nil {
			return err
		}
		marked = true
		return nil
	})
	if err != nil {
		e.log.Error(ctx, "failed to mark task synced", "id", id, "error", err)
		return false
	}
	return marked
}

// GetTasks returns the owner's tasks sorted by scheduled time. Unless
// opts.SkipMerge is set and while online, remote records missing locally are
// imported as synced first. Existing local records are never overwritten.
// A failed remote read or import leaves the local view as the result.
func (e *Engine) GetTasks(ctx context.Context, ownerID string, opts ReadOptions) ([]*models.Task, error) {
	if !opts.SkipMerge {
		var remote []*models.Task
		res := e.gate.Do(ctx, "list_tasks", func(ctx context.Context) error {
			var err error
			remote, err = e.remote.ListTasks(ctx, ownerID)
			return err
		})
		if res.OK() && len(remote) > 0 {
			if err := e.importMissing(ctx, ownerID, remote); err != nil {
				e.log.Warn(ctx, "merge of remote tasks failed, using local view", "owner", ownerID, "error", err)
			}
		}
	}

	all, err := e.repo(e.db).GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read local tasks: %w", err)
	}

	result := make([]*models.Task, 0, len(all))
	for _, t := range all {
		if t.OwnerID == ownerID {
			result = append(result, t)
		}
	}
	models.SortBySchedule(result)
	return result, nil
}

func (e *Engine) importMissing(ctx context.Context, ownerID string, remote []*models.Task) error {
	imported := 0
	err := dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := e.repo(tx)
		for _, r := range remote {
			_, err := repo.Get(ctx, r.ID)
			if err == nil {
				continue
			}
			if !errors.Is(err, common.ErrorNotFound) {
				return err
			}

			t := r.Clone()
			if t.OwnerID == "" {
				t.OwnerID = ownerID
			}
			t.Synced = true
			if err := repo.Put(ctx, t); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import remote tasks: %w", err)
	}
	if imported > 0 {
		e.log.Info(ctx, "imported remote tasks", "owner", ownerID, "count", imported)
	}
	return nil
}

// SyncPending pushes every pending local task with a full upsert and marks
// it synced on success. Tasks are handled independently. Only one replay
// runs at a time; a concurrent call gets ErrReplayInProgress.
func (e *Engine) SyncPending(ctx context.Context) (ReplayReport, error) {
	var report ReplayReport

	if !e.replayMu.TryLock() {
		return report, ErrReplayInProgress
	}
	defer e.replayMu.Unlock()

	all, err := e.repo(e.db).GetAll(ctx)
	if err != nil {
		return report, fmt.Errorf("read local tasks: %w", err)
	}

	for _, t := range all {
		if t.Synced {
			continue
		}
		report.Pending++

		res := e.gate.Do(ctx, "replay_task", func(ctx context.Context) error {
			return e.remote.CreateTask(ctx, t)
		})
		switch res.Status {
		case connectivity.StatusOK:
			if e.markSynced(ctx, t.ID, t.LastUpdated) {
				report.Synced++
			}
		case connectivity.StatusRemoteFailed:
			report.Failed++
		case connectivity.StatusSkipped:
			report.Skipped++
		}
	}

	if report.Pending > 0 {
		e.log.Info(ctx, "replay finished",
			"pending", report.Pending, "synced", report.Synced,
			"failed", report.Failed, "skipped", report.Skipped)
	}
	return report, nil
}

// PendingCount returns the number of local tasks of ownerID not yet synced.
func (e *Engine) PendingCount(ctx context.Context, ownerID string) (int, error) {
	list, err := e.GetTasks(ctx, ownerID, ReadOptions{SkipMerge: true})
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range list {
		if !t.Synced {
			n++
		}
	}
	return n, nil
}
