// Package models holds the task record shared by the client, the wire API
// and the server.
package models

// Location is where a task was created, when the device could tell.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Task is a single to-do item.
//
// ScheduledTime is a wall-clock "HH:MM" or "" for an unscheduled task.
// LastUpdated is stamped in milliseconds since the epoch on every local
// mutation. Synced is client-side bookkeeping and is never sent to the
// server: true means the remote copy matched this one as of LastUpdated.
type Task struct {
	ID            string
	OwnerID       string
	Title         string
	ScheduledTime string
	Done          bool
	LastUpdated   int64
	Synced        bool
	Location      *Location
}

// HasSchedule reports whether the task is pinned to a time of day.
func (t *Task) HasSchedule() bool {
	return t.ScheduledTime != ""
}

// Clone returns a deep copy.
func (t *Task) Clone() *Task {
	c := *t
	if t.Location != nil {
		loc := *t.Location
		c.Location = &loc
	}
	return &c
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title         *string
	ScheduledTime *string
	Done          *bool
	LastUpdated   *int64
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.ScheduledTime == nil && p.Done == nil && p.LastUpdated == nil
}

// ApplyTo copies the set fields of p into t.
func (p TaskPatch) ApplyTo(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.ScheduledTime != nil {
		t.ScheduledTime = *p.ScheduledTime
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
	if p.LastUpdated != nil {
		t.LastUpdated = *p.LastUpdated
	}
}
