package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

func newUserService(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	return NewUserService(db, rm, cfg)
}

func TestRefreshToken_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	rr := newFakeRefreshRepo(&models.RefreshToken{UserID: "u1", Token: "refresh-xyz", Expires: now.Add(10 * time.Minute)})
	s := newUserService(t, db, &fakeRepoManager{r: rr})
	s.now = func() time.Time { return now }

	pair, err := s.RefreshToken(context.Background(), "refresh-xyz")
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("empty tokens: %+v", pair)
	}
	if id, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("k")); err != nil || id != "u1" {
		t.Fatalf("access token subject: %q, %v", id, err)
	}
	if _, ok := rr.tokens["refresh-xyz"]; ok {
		t.Fatalf("old refresh token must be consumed")
	}
	if _, ok := rr.tokens[pair.RefreshToken]; !ok {
		t.Fatalf("new refresh token must be stored")
	}
	if len(rr.expiresAt) != 1 || !rr.expiresAt[0].Equal(now.Add(2*time.Hour)) {
		t.Fatalf("new token expiry: %v", rr.expiresAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRefreshToken_SecondUseRejected(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rr := newFakeRefreshRepo(&models.RefreshToken{UserID: "u1", Token: "r", Expires: time.Now().Add(time.Hour)})
	s := newUserService(t, db, &fakeRepoManager{r: rr})

	if _, err := s.RefreshToken(context.Background(), "r"); err != nil {
		t.Fatalf("first exchange: %v", err)
	}
	_, err := s.RefreshToken(context.Background(), "r")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("second exchange: want ErrorNotFound, got %v", err)
	}
	if len(rr.created) != 1 {
		t.Fatalf("only one successor may be issued, got %d", len(rr.created))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRefreshToken_Expired(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rr := newFakeRefreshRepo(&models.RefreshToken{UserID: "u1", Token: "r", Expires: time.Now().Add(-1 * time.Minute)})
	s := newUserService(t, db, &fakeRepoManager{r: rr})

	_, err := s.RefreshToken(context.Background(), "r")
	if !errors.Is(err, common.ErrRefreshTokenExpired) {
		t.Fatalf("want ErrRefreshTokenExpired, got %v", err)
	}
	if len(rr.tokens) != 0 || len(rr.created) != 0 {
		t.Fatalf("expired token must be consumed without a successor: %v %v", rr.tokens, rr.created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRefreshToken_UnknownToken(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	s := newUserService(t, db, &fakeRepoManager{r: newFakeRefreshRepo()})

	_, err := s.RefreshToken(context.Background(), "r")
	if err == nil || !regexp.MustCompile(`error consuming refresh token: .*not found`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped consume error, got %v", err)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound in chain, got %v", err)
	}
}

func TestRefreshToken_ConsumeErr(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rr := newFakeRefreshRepo()
	rr.consumeErr = errBoom{}
	s := newUserService(t, db, &fakeRepoManager{r: rr})

	_, err := s.RefreshToken(context.Background(), "r")
	if err == nil || !regexp.MustCompile(`error consuming refresh token: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped consume error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRefreshToken_GeneratePair_CreateErr(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rr := newFakeRefreshRepo(&models.RefreshToken{UserID: "u1", Token: "r", Expires: time.Now().Add(10 * time.Minute)})
	rr.createErr = errBoom{}
	s := newUserService(t, db, &fakeRepoManager{r: rr})

	_, err := s.RefreshToken(context.Background(), "r")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("expected ErrorInternal, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	db, _ := newSQLMockDB(t)

	sOK := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{createOut: &models.User{ID: "42", UserName: "alice"}}})
	u, err := sOK.Register(context.Background(), "alice", []byte("s"), []byte("v"))
	if err != nil || u.ID != "42" {
		t.Fatalf("Register ok: got (%v, %v)", u, err)
	}

	sDup := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrorAlreadyExists}})
	_, err = sDup.Register(context.Background(), "alice", []byte("s"), []byte("v"))
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("Register duplicate: want ErrorAlreadyExists, got %v", err)
	}

	sErr := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{createErr: errBoom{}}})
	_, err = sErr.Register(context.Background(), "bob", []byte("s"), []byte("v"))
	if err == nil || !regexp.MustCompile(`error creating user: .*boom`).MatchString(err.Error()) {
		t.Fatalf("Register expected wrapped error, got %v", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{createOut: &models.User{ID: "42"}}})

	for _, tc := range []struct {
		name           string
		user           string
		salt, verifier []byte
	}{
		{name: "no user", salt: []byte("s"), verifier: []byte("v")},
		{name: "no salt", user: "a", verifier: []byte("v")},
		{name: "no verifier", user: "a", salt: []byte("s")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Register(context.Background(), tc.user, tc.salt, tc.verifier); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGetSalt_Found_NotFound_Internal(t *testing.T) {
	db, _ := newSQLMockDB(t)

	s := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{getOut: &models.User{Salt: []byte("SALT")}}})
	salt, err := s.GetSalt(context.Background(), "alice")
	if err != nil || string(salt) != "SALT" {
		t.Fatalf("GetSalt found: got (%q, %v)", string(salt), err)
	}

	s2 := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrorNotFound}})
	salt2, err := s2.GetSalt(context.Background(), "ghost")
	if err != nil || len(salt2) != 32 {
		t.Fatalf("GetSalt not found: len=%d err=%v", len(salt2), err)
	}

	s3 := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{getErr: errBoom{}}})
	_, err = s3.GetSalt(context.Background(), "xx")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("GetSalt internal: want ErrorInternal, got %v", err)
	}
}

func TestLogin_Flows(t *testing.T) {
	db, _ := newSQLMockDB(t)

	// not found → unauthorized
	sNF := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrorNotFound}})
	if _, _, err := sNF.Login(context.Background(), "ghost", []byte("x")); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("notfound → unauthorized, got %v", err)
	}

	sIE := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{getErr: errBoom{}}})
	if _, _, err := sIE.Login(context.Background(), "u", []byte("x")); !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("internal → ErrorInternal, got %v", err)
	}

	sWV := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{getOut: &models.User{ID: "u1", Verifier: []byte("right")}}})
	if _, _, err := sWV.Login(context.Background(), "u", []byte("wrong")); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("wrong verifier → unauthorized, got %v", err)
	}
}

func TestLogin_Success_RecordsStats(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	st := &fakeStatsRepo{}
	rr := &fakeRefreshRepo{}
	s := newUserService(t, db, &fakeRepoManager{
		u:  &fakeUsersRepo{getOut: &models.User{ID: "u1", Verifier: []byte("right")}},
		r:  rr,
		st: st,
	})
	mon := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return mon }

	id, pair, err := s.Login(context.Background(), "u", []byte("right"))
	if err != nil || id != "u1" || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("Login success: id=%q pair=%+v err=%v", id, pair, err)
	}
	if _, _, err := s.Login(context.Background(), "u", []byte("right")); err != nil {
		t.Fatalf("second login: %v", err)
	}

	got := st.rows["u1"]
	if got == nil || got.TotalLogins != 2 || got.WeeklyLogins != 2 || !got.LastLogin.Equal(mon) {
		t.Fatalf("unexpected stats: %+v", got)
	}
	if len(rr.created) != 2 {
		t.Fatalf("expected 2 refresh tokens, got %d", len(rr.created))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestLogin_StatsError_RollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rr := &fakeRefreshRepo{}
	s := newUserService(t, db, &fakeRepoManager{
		u:  &fakeUsersRepo{getOut: &models.User{ID: "u1", Verifier: []byte("right")}},
		r:  rr,
		st: &fakeStatsRepo{saveErr: errBoom{}},
	})

	_, _, err := s.Login(context.Background(), "u", []byte("right"))
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
	if len(rr.created) != 0 {
		t.Fatal("refresh token must not be issued")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
