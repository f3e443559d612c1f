package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/taskkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type recorded struct {
	method string
	path   string
	query  string
	event  *gcal.Event
}

// fakeCalendar serves the three Events endpoints the publisher uses.
type fakeCalendar struct {
	mu       sync.Mutex
	existing []*gcal.Event
	calls    []recorded
	failList bool
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.Query().Get("privateExtendedProperty")}
	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPatch) {
		ev := &gcal.Event{}
		_ = json.NewDecoder(r.Body).Decode(ev)
		rec.event = ev
	}
	f.calls = append(f.calls, rec)

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/events"):
		if f.failList {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"boom"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(&gcal.Events{Items: f.existing})
	case r.Method == http.MethodPost:
		rec.event.Id = "created-1"
		_ = json.NewEncoder(w).Encode(rec.event)
	case r.Method == http.MethodPatch:
		rec.event.Id = r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		_ = json.NewEncoder(w).Encode(rec.event)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestPublisher(t *testing.T, fake *fakeCalendar) *Publisher {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gcal.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return NewPublisherWithService(svc, "primary")
}

func TestPublish_InsertsNewEvent(t *testing.T) {
	fake := &fakeCalendar{}
	p := newTestPublisher(t, fake)
	task := &models.Task{ID: "t-1", Title: "gym", ScheduledTime: "18:30"}

	ev, err := p.Publish(context.Background(), task, day)
	require.NoError(t, err)
	assert.Equal(t, "created-1", ev.Id)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, http.MethodGet, fake.calls[0].method)
	assert.Equal(t, "task_id=t-1", fake.calls[0].query)

	insert := fake.calls[1]
	assert.Equal(t, http.MethodPost, insert.method)
	assert.True(t, strings.HasSuffix(insert.path, "/calendars/primary/events"))
	assert.Equal(t, "gym", insert.event.Summary)
	assert.Equal(t, "Task: gym", insert.event.Description)
	assert.Equal(t, "2025-03-10T18:30:00Z", insert.event.Start.DateTime)
	assert.Equal(t, "2025-03-10T18:45:00Z", insert.event.End.DateTime)
	assert.Equal(t, "t-1", insert.event.ExtendedProperties.Private[TaskIDProperty])
}

func TestPublish_PatchesExistingEvent(t *testing.T) {
	fake := &fakeCalendar{existing: []*gcal.Event{{Id: "ev-9"}}}
	p := newTestPublisher(t, fake)
	task := &models.Task{ID: "t-1", Title: "gym moved", ScheduledTime: "19:00"}

	ev, err := p.Publish(context.Background(), task, day)
	require.NoError(t, err)
	assert.Equal(t, "ev-9", ev.Id)

	require.Len(t, fake.calls, 2)
	patch := fake.calls[1]
	assert.Equal(t, http.MethodPatch, patch.method)
	assert.True(t, strings.HasSuffix(patch.path, "/calendars/primary/events/ev-9"))
	assert.Equal(t, "gym moved", patch.event.Summary)
}

func TestPublish_NoScheduleMakesNoCalls(t *testing.T) {
	fake := &fakeCalendar{}
	p := newTestPublisher(t, fake)

	_, err := p.Publish(context.Background(), &models.Task{ID: "t", Title: "x"}, day)
	require.ErrorIs(t, err, ErrNoSchedule)
	assert.Empty(t, fake.calls)
}

func TestPublish_ListErrorWrapped(t *testing.T) {
	fake := &fakeCalendar{failList: true}
	p := newTestPublisher(t, fake)

	_, err := p.Publish(context.Background(), &models.Task{ID: "t", Title: "x", ScheduledTime: "10:00"}, day)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error searching for event")
	assert.Len(t, fake.calls, 1)
}

const testCredentials = `{"installed":{
  "client_id":"id.apps.googleusercontent.com",
  "client_secret":"secret",
  "auth_uri":"https://accounts.google.com/o/oauth2/auth",
  "token_uri":"https://oauth2.googleapis.com/token",
  "redirect_uris":["http://localhost"]}}`

func TestNewPublisher(t *testing.T) {
	dir := t.TempDir()
	creds := filepath.Join(dir, "credentials.json")
	token := filepath.Join(dir, "token.json")
	require.NoError(t, os.WriteFile(creds, []byte(testCredentials), 0o600))
	require.NoError(t, os.WriteFile(token, []byte(`{"access_token":"a","refresh_token":"r","token_type":"Bearer"}`), 0o600))

	p, err := NewPublisher(context.Background(), creds, token, "primary")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "primary", p.calendarID)
}

func TestNewPublisher_Errors(t *testing.T) {
	dir := t.TempDir()
	creds := filepath.Join(dir, "credentials.json")
	badCreds := filepath.Join(dir, "bad.json")
	badToken := filepath.Join(dir, "token.json")
	require.NoError(t, os.WriteFile(creds, []byte(testCredentials), 0o600))
	require.NoError(t, os.WriteFile(badCreds, []byte(`{`), 0o600))
	require.NoError(t, os.WriteFile(badToken, []byte(`not json`), 0o600))

	tests := []struct {
		name   string
		creds  string
		token  string
		substr string
	}{
		{name: "missing credentials", creds: filepath.Join(dir, "nope.json"), token: badToken, substr: "unable to read client secret file"},
		{name: "bad credentials", creds: badCreds, token: badToken, substr: "unable to parse client secret file"},
		{name: "missing token", creds: creds, token: filepath.Join(dir, "nope.json"), substr: "unable to open token file"},
		{name: "bad token", creds: creds, token: badToken, substr: "failed to decode token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPublisher(context.Background(), tt.creds, tt.token, "primary")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}
