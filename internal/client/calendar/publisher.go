package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// TaskIDProperty is the private extended property tying an event to a task.
const TaskIDProperty = "task_id"

// Publisher writes task events to one calendar.
type Publisher struct {
	srv        *gcal.Service
	calendarID string
}

// NewPublisherWithService wraps an already configured Calendar service.
func NewPublisherWithService(srv *gcal.Service, calendarID string) *Publisher {
	return &Publisher{srv: srv, calendarID: calendarID}
}

// NewPublisher builds a Publisher from an OAuth client secrets file and a
// previously saved token. Token refresh is handled by the oauth2 client.
func NewPublisher(ctx context.Context, credentialsFile, tokenFile, calendarID string) (*Publisher, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", credentialsFile, err)
	}

	config, err := google.ConfigFromJSON(b, gcal.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, err
	}

	srv, err := gcal.NewService(ctx, option.WithHTTPClient(config.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("unable to create calendar service: %w", err)
	}

	return NewPublisherWithService(srv, calendarID), nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("unable to open token file %s: %w", file, err)
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", file, err)
	}
	return tok, nil
}

func eventFor(t *models.Task, day time.Time) (*gcal.Event, error) {
	start, end, err := window(t, day)
	if err != nil {
		return nil, err
	}

	return &gcal.Event{
		Summary:     t.Title,
		Description: details(t),
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: t.ID},
		},
	}, nil
}

// findEvent returns the event tagged with taskID, or nil.
func (p *Publisher) findEvent(ctx context.Context, taskID string) (*gcal.Event, error) {
	events, err := p.srv.Events.List(p.calendarID).
		PrivateExtendedProperty(TaskIDProperty + "=" + taskID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

// Publish creates the event for t on day, or patches the one created
// earlier for the same task.
func (p *Publisher) Publish(ctx context.Context, t *models.Task, day time.Time) (*gcal.Event, error) {
	event, err := eventFor(t, day)
	if err != nil {
		return nil, err
	}

	existing, err := p.findEvent(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("error searching for event: %w", err)
	}

	if existing != nil {
		updated, err := p.srv.Events.Patch(p.calendarID, existing.Id, event).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to patch event %s: %w", existing.Id, err)
		}
		return updated, nil
	}

	created, err := p.srv.Events.Insert(p.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return created, nil
}
