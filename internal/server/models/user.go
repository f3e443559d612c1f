// Package models defines server-side records persisted in PostgreSQL.
// Tasks use the shared internal/models.Task.
package models

import "time"

type User struct {
	ID        string
	UserName  string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}
