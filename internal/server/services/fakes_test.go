package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	tm "github.com/dmitrijs2005/taskkeeper/internal/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	refreshtokensrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/refreshtokens"
	statsrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/stats"
	tasksrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

// fakeRefreshRepo keeps tokens in a map; Consume removes them like the
// DELETE ... RETURNING in the real repository.
type fakeRefreshRepo struct {
	tokens     map[string]*models.RefreshToken
	consumeErr error

	createErr error
	created   []string
	expiresAt []time.Time
}

func newFakeRefreshRepo(tokens ...*models.RefreshToken) *fakeRefreshRepo {
	f := &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
	for _, t := range tokens {
		f.tokens[t.Token] = t
	}
	return f
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.tokens == nil {
		f.tokens = map[string]*models.RefreshToken{}
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: expiresAt}
	f.created = append(f.created, userID)
	f.expiresAt = append(f.expiresAt, expiresAt)
	return nil
}

func (f *fakeRefreshRepo) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.tokens, token)
	return t, nil
}

type fakeStatsRepo struct {
	rows    map[string]*models.UserStats
	getErr  error
	saveErr error
}

func (f *fakeStatsRepo) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.rows[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *s
	return &c, nil
}

func (f *fakeStatsRepo) Save(ctx context.Context, s *models.UserStats) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.rows == nil {
		f.rows = map[string]*models.UserStats{}
	}
	c := *s
	f.rows[s.UserID] = &c
	return nil
}

// fakeTasksRepo is an in-memory tasks.Repository with the same owner rules
// as the PostgreSQL one.
type fakeTasksRepo struct {
	rows map[string]*tm.Task

	getErr    error
	upsertErr error
	updateErr error
	deleteErr error
	listErr   error
	countErr  error

	upserts int
	updates int
	deletes int
}

func newFakeTasksRepo(tasks ...*tm.Task) *fakeTasksRepo {
	f := &fakeTasksRepo{rows: map[string]*tm.Task{}}
	for _, t := range tasks {
		f.rows[t.ID] = t.Clone()
	}
	return f
}

func (f *fakeTasksRepo) Get(ctx context.Context, id string) (*tm.Task, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	t, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t.Clone(), nil
}

func (f *fakeTasksRepo) Upsert(ctx context.Context, t *tm.Task) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if old, ok := f.rows[t.ID]; ok && old.OwnerID != t.OwnerID {
		return common.ErrorForbidden
	}
	f.upserts++
	f.rows[t.ID] = t.Clone()
	return nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, ownerID, id string, patch tm.TaskPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	t, ok := f.rows[id]
	if !ok || t.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	f.updates++
	patch.ApplyTo(t)
	return nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, ownerID, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if t, ok := f.rows[id]; ok && t.OwnerID == ownerID {
		f.deletes++
		delete(f.rows, id)
	}
	return nil
}

func (f *fakeTasksRepo) ListByOwner(ctx context.Context, ownerID string) ([]*tm.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	res := make([]*tm.Task, 0)
	for _, t := range f.rows {
		if t.OwnerID == ownerID {
			res = append(res, t.Clone())
		}
	}
	tm.SortBySchedule(res)
	return res, nil
}

func (f *fakeTasksRepo) CountByOwner(ctx context.Context, ownerID string) (int64, int64, error) {
	if f.countErr != nil {
		return 0, 0, f.countErr
	}
	var total, done int64
	for _, t := range f.rows {
		if t.OwnerID == ownerID {
			total++
			if t.Done {
				done++
			}
		}
	}
	return total, done, nil
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshRepo
	t  *fakeTasksRepo
	st *fakeStatsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository                 { return m.t }
func (m *fakeRepoManager) Stats(db dbx.DBTX) statsrepo.Repository                 { return m.st }
