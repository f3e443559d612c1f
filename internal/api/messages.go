package api

import "github.com/dmitrijs2005/taskkeeper/internal/models"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type GetSaltRequest struct {
	Username string `json:"username"`
}

type GetSaltResponse struct {
	Salt []byte `json:"salt"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Verifier []byte `json:"verifier"`
}

type LoginResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Task is the wire form of models.Task. It has no sync flag.
type Task struct {
	ID            string           `json:"id"`
	OwnerID       string           `json:"owner_id"`
	Title         string           `json:"title"`
	ScheduledTime string           `json:"scheduled_time,omitempty"`
	Done          bool             `json:"done"`
	LastUpdated   int64            `json:"last_updated"`
	Location      *models.Location `json:"location,omitempty"`
}

type CreateTaskRequest struct {
	Task *Task `json:"task"`
}

type CreateTaskResponse struct{}

// UpdateTaskRequest carries only the fields being changed.
type UpdateTaskRequest struct {
	ID            string  `json:"id"`
	Title         *string `json:"title,omitempty"`
	ScheduledTime *string `json:"scheduled_time,omitempty"`
	Done          *bool   `json:"done,omitempty"`
	LastUpdated   *int64  `json:"last_updated,omitempty"`
}

type UpdateTaskResponse struct{}

type DeleteTaskRequest struct {
	ID string `json:"id"`
}

type DeleteTaskResponse struct{}

type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
}

type ListTasksResponse struct {
	Tasks []*Task `json:"tasks"`
}

type GetStatsRequest struct{}

// GetStatsResponse reports login analytics and task counters.
// LastLogin is in milliseconds since the epoch, 0 if never.
type GetStatsResponse struct {
	TotalLogins    int64 `json:"total_logins"`
	WeeklyLogins   int64 `json:"weekly_logins"`
	LastLogin      int64 `json:"last_login"`
	TotalTasks     int64 `json:"total_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
}

type ExportTasksRequest struct{}

type ExportTasksResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}
