package api

import "github.com/dmitrijs2005/taskkeeper/internal/models"

// TaskToWire converts a task for sending. Synced is dropped.
func TaskToWire(t *models.Task) *Task {
	if t == nil {
		return nil
	}
	w := &Task{
		ID:            t.ID,
		OwnerID:       t.OwnerID,
		Title:         t.Title,
		ScheduledTime: t.ScheduledTime,
		Done:          t.Done,
		LastUpdated:   t.LastUpdated,
	}
	if t.Location != nil {
		loc := *t.Location
		w.Location = &loc
	}
	return w
}

// TaskFromWire converts a received task. Synced is left false.
func TaskFromWire(w *Task) *models.Task {
	if w == nil {
		return nil
	}
	t := &models.Task{
		ID:            w.ID,
		OwnerID:       w.OwnerID,
		Title:         w.Title,
		ScheduledTime: w.ScheduledTime,
		Done:          w.Done,
		LastUpdated:   w.LastUpdated,
	}
	if w.Location != nil {
		loc := *w.Location
		t.Location = &loc
	}
	return t
}

// NewUpdateTaskRequest builds a partial update for task id.
func NewUpdateTaskRequest(id string, p models.TaskPatch) *UpdateTaskRequest {
	return &UpdateTaskRequest{
		ID:            id,
		Title:         p.Title,
		ScheduledTime: p.ScheduledTime,
		Done:          p.Done,
		LastUpdated:   p.LastUpdated,
	}
}

// Patch extracts the partial update carried by r.
func (r *UpdateTaskRequest) Patch() models.TaskPatch {
	return models.TaskPatch{
		Title:         r.Title,
		ScheduledTime: r.ScheduledTime,
		Done:          r.Done,
		LastUpdated:   r.LastUpdated,
	}
}
