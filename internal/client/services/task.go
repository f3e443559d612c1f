package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/client/syncer"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/models"
	"github.com/google/uuid"
)

// TaskStore is the synchronising task store. syncer.Engine satisfies it.
type TaskStore interface {
	AddTask(ctx context.Context, t *models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	GetTasks(ctx context.Context, ownerID string, opts syncer.ReadOptions) ([]*models.Task, error)
	SyncPending(ctx context.Context) (syncer.ReplayReport, error)
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(question string) bool

// NewTask is the user input for Add.
type NewTask struct {
	Title         string
	ScheduledTime string
}

// Stats summarises the owner's local tasks.
type Stats struct {
	Total     int
	Completed int
	Pending   int
	Unsynced  int
}

// CompletionRatio is Completed/Total, 0 for no tasks.
func (s Stats) CompletionRatio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

type TaskService struct {
	store    TaskStore
	location LocationProvider
	log      logging.Logger
	now      func() time.Time
	newID    func() string
}

func NewTaskService(store TaskStore, location LocationProvider, log logging.Logger) *TaskService {
	if location == nil {
		location = NoLocation{}
	}
	return &TaskService{
		store:    store,
		location: location,
		log:      log.With("module", "tasks"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func requireOwner(owner string) error {
	if owner == "" {
		return common.ErrorUnauthorized
	}
	return nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	return title, nil
}

func parseTime(s string) (models.Clock, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingTime
	}
	c, err := models.ParseClock(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return c, nil
}

// loaded returns the owner's local view without contacting the server.
func (s *TaskService) loaded(ctx context.Context, owner string) ([]*models.Task, error) {
	return s.store.GetTasks(ctx, owner, syncer.ReadOptions{SkipMerge: true})
}

func slotTaken(list []*models.Task, slot models.Clock, exceptID string) bool {
	for _, t := range list {
		if t.ID == exceptID {
			continue
		}
		c, err := models.ParseClock(t.ScheduledTime)
		if err == nil && c == slot {
			return true
		}
	}
	return false
}

func find(list []*models.Task, id string) (*models.Task, error) {
	for _, t := range list {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, common.ErrorNotFound
}

// Add validates in and creates a task for owner.
func (s *TaskService) Add(ctx context.Context, owner string, in NewTask) (*models.Task, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	slot, err := parseTime(in.ScheduledTime)
	if err != nil {
		return nil, err
	}

	list, err := s.loaded(ctx, owner)
	if err != nil {
		return nil, err
	}
	if slotTaken(list, slot, "") {
		return nil, fmt.Errorf("%w: %s", ErrTimeSlotTaken, slot)
	}

	t := &models.Task{
		ID:            s.newID(),
		OwnerID:       owner,
		Title:         title,
		ScheduledTime: slot.String(),
	}
	if loc, err := s.location.Location(ctx); err != nil {
		s.log.Debug(ctx, "location not captured", "error", err)
	} else {
		t.Location = loc
	}

	return s.store.AddTask(ctx, t)
}

// Edit changes title and scheduled time. Only fields that differ are sent.
func (s *TaskService) Edit(ctx context.Context, owner, id, title, scheduledTime string) (*models.Task, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}
	slot, err := parseTime(scheduledTime)
	if err != nil {
		return nil, err
	}

	list, err := s.loaded(ctx, owner)
	if err != nil {
		return nil, err
	}
	cur, err := find(list, id)
	if err != nil {
		return nil, err
	}
	if cur.Done {
		return nil, ErrTaskDone
	}

	var patch models.TaskPatch
	if title != cur.Title {
		patch.Title = &title
	}
	if newTime := slot.String(); newTime != cur.ScheduledTime {
		if slot < models.ClockOf(s.now()) {
			return nil, fmt.Errorf("%w: %s", ErrPastTime, newTime)
		}
		if slotTaken(list, slot, id) {
			return nil, fmt.Errorf("%w: %s", ErrTimeSlotTaken, newTime)
		}
		patch.ScheduledTime = &newTime
	}
	if patch.IsEmpty() {
		return cur, nil
	}

	return s.store.UpdateTask(ctx, id, patch)
}

// ToggleDone flips the done flag. Reopening a task whose time has already
// passed today needs a yes from confirm.
func (s *TaskService) ToggleDone(ctx context.Context, owner, id string, confirm ConfirmFunc) (*models.Task, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	list, err := s.loaded(ctx, owner)
	if err != nil {
		return nil, err
	}
	cur, err := find(list, id)
	if err != nil {
		return nil, err
	}

	if cur.Done {
		if c, err := models.ParseClock(cur.ScheduledTime); err == nil && c < models.ClockOf(s.now()) {
			q := fmt.Sprintf("%q was scheduled for %s, which has passed. Mark it as not done?", cur.Title, c)
			if confirm == nil || !confirm(q) {
				return nil, ErrConfirmationRequired
			}
		}
	}

	done := !cur.Done
	return s.store.UpdateTask(ctx, id, models.TaskPatch{Done: &done})
}

// Delete removes a task that is not done yet.
func (s *TaskService) Delete(ctx context.Context, owner, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	list, err := s.loaded(ctx, owner)
	if err != nil {
		return err
	}
	cur, err := find(list, id)
	if err != nil {
		return err
	}
	if cur.Done {
		return ErrTaskDone
	}
	return s.store.DeleteTask(ctx, id)
}

// List returns the owner's tasks, importing remote-only ones when online.
func (s *TaskService) List(ctx context.Context, owner string) ([]*models.Task, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.store.GetTasks(ctx, owner, syncer.ReadOptions{})
}

// ListLocal returns the owner's tasks without contacting the server. Use it
// right after a delete so the removed task is not imported back.
func (s *TaskService) ListLocal(ctx context.Context, owner string) ([]*models.Task, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.loaded(ctx, owner)
}

// Sync replays every pending task.
func (s *TaskService) Sync(ctx context.Context) (syncer.ReplayReport, error) {
	return s.store.SyncPending(ctx)
}

func (s *TaskService) Stats(ctx context.Context, owner string) (Stats, error) {
	var st Stats
	if err := requireOwner(owner); err != nil {
		return st, err
	}
	list, err := s.loaded(ctx, owner)
	if err != nil {
		return st, err
	}
	for _, t := range list {
		st.Total++
		if t.Done {
			st.Completed++
		} else {
			st.Pending++
		}
		if !t.Synced {
			st.Unsynced++
		}
	}
	return st, nil
}

// Get returns one of the owner's local tasks.
func (s *TaskService) Get(ctx context.Context, owner, id string) (*models.Task, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	list, err := s.loaded(ctx, owner)
	if err != nil {
		return nil, err
	}
	return find(list, id)
}
