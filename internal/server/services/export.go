package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/api"
	"github.com/dmitrijs2005/taskkeeper/internal/models"
	"github.com/google/uuid"
)

// ExportLinkValidity is how long a presigned export link stays usable.
const ExportLinkValidity = 15 * time.Minute

// ObjectStore is the bucket the exports are written to.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type taskLister interface {
	List(ctx context.Context, ownerID string) ([]*models.Task, error)
}

// Export is a stored snapshot and the link to fetch it.
type Export struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

type exportDocument struct {
	OwnerID    string      `json:"owner_id"`
	ExportedAt time.Time   `json:"exported_at"`
	Tasks      []*api.Task `json:"tasks"`
}

// ExportService writes a JSON snapshot of a user's tasks to the object store.
type ExportService struct {
	tasks taskLister
	store ObjectStore
	now   func() time.Time
}

func NewExportService(tasks taskLister, store ObjectStore) *ExportService {
	return &ExportService{tasks: tasks, store: store, now: time.Now}
}

// ExportKey returns a fresh object key under the user's export prefix.
func ExportKey(userID string, d time.Time) string {
	d = d.UTC()
	return fmt.Sprintf("users/%s/exports/%04d/%02d/%02d/%v.json", userID, d.Year(), int(d.Month()), d.Day(), uuid.New())
}

func (s *ExportService) Export(ctx context.Context, ownerID string) (*Export, error) {
	list, err := s.tasks.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	doc := exportDocument{OwnerID: ownerID, ExportedAt: now.UTC(), Tasks: make([]*api.Task, 0, len(list))}
	for _, t := range list {
		doc.Tasks = append(doc.Tasks, api.TaskToWire(t))
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding export: %w", err)
	}

	key := ExportKey(ownerID, now)
	if err := s.store.Put(ctx, key, body, "application/json"); err != nil {
		return nil, err
	}

	url, err := s.store.PresignGet(ctx, key, ExportLinkValidity)
	if err != nil {
		return nil, fmt.Errorf("error presigning export: %w", err)
	}

	return &Export{Key: key, URL: url, ExpiresAt: now.Add(ExportLinkValidity)}, nil
}
