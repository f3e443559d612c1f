package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
)

// AuthClient is the part of the server API used for authentication.
type AuthClient interface {
	Close() error
	Register(ctx context.Context, username string, salt []byte, verifier []byte) (string, error)
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifier []byte) (string, error)
	ClearSession()
	Ping(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - OnlineLogin: authenticate against the server and persist offline auth data.
//   - OfflineLogin: verify credentials against locally cached data.
//   - Register: create a new user on the server.
//   - Logout: forget the session and the cached offline data.
//
// Both logins return the owner id used to scope tasks.
type AuthService interface {
	OfflineLogin(ctx context.Context, username string, password []byte) (string, error)
	OnlineLogin(ctx context.Context, username string, password []byte) (string, error)
	Register(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	ClearOfflineData(ctx context.Context) error
}

type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

// authService is the concrete AuthService backed by a remote client
// and the local metadata table.
type authService struct {
	client AuthClient
	db     DB
}

func NewAuthService(client AuthClient, db DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// OfflineLogin checks password against the cached salt and verifier and
// returns the cached user id. Missing cache yields
// client.ErrLocalDataNotAvailable, a wrong user or password
// client.ErrUnauthorized.
func (a *authService) OfflineLogin(ctx context.Context, username string, password []byte) (string, error) {
	repo := a.getMetadataRepo(a.db)

	stored, err := repo.List(ctx)
	if err != nil {
		return "", err
	}

	savedUsername, ok := stored[metadata.KeyUsername]
	if !ok {
		return "", client.ErrLocalDataNotAvailable
	}
	if string(savedUsername) != username {
		return "", client.ErrUnauthorized
	}

	salt := stored[metadata.KeySalt]
	verifier := stored[metadata.KeyVerifier]
	userID := stored[metadata.KeyUserID]
	if len(salt) == 0 || len(verifier) == 0 || len(userID) == 0 {
		return "", client.ErrLocalDataNotAvailable
	}

	if !cryptox.Equal(verifier, cryptox.VerifierFor(password, salt)) {
		return "", client.ErrUnauthorized
	}
	return string(userID), nil
}

// OnlineLogin authenticates against the server and caches what offline
// login needs.
func (a *authService) OnlineLogin(ctx context.Context, userName string, password []byte) (string, error) {
	salt, err := a.client.GetSalt(ctx, userName)
	if err != nil {
		return "", fmt.Errorf("get salt error: %w", err)
	}

	verifier := cryptox.VerifierFor(password, salt)

	userID, err := a.client.Login(ctx, userName, verifier)
	if err != nil {
		return "", fmt.Errorf("login error: %w", err)
	}

	if err := a.saveOfflineData(ctx, userName, salt, verifier, userID); err != nil {
		return "", fmt.Errorf("offline data saving error: %w", err)
	}
	return userID, nil
}

func (a *authService) saveOfflineData(ctx context.Context, userName string, salt, verifier []byte, userID string) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)
		values := map[string][]byte{
			metadata.KeyUsername: []byte(userName),
			metadata.KeySalt:     salt,
			metadata.KeyVerifier: verifier,
			metadata.KeyUserID:   []byte(userID),
		}
		for _, k := range metadata.SessionKeys {
			if err := repo.Set(ctx, k, values[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Register creates a new account with a fresh random salt.
func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	if username == "" {
		return errors.New("username must not be empty")
	}
	salt := common.GenerateRandByteArray(32)
	verifier := cryptox.VerifierFor(password, salt)

	if _, err := a.client.Register(ctx, username, salt, verifier); err != nil {
		return err
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.ClearSession()
	return metadata.DeleteKeys(ctx, a.getMetadataRepo(a.db), metadata.SessionKeys...)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// ClearOfflineData wipes the whole metadata table.
func (a *authService) ClearOfflineData(ctx context.Context) error {
	return a.getMetadataRepo(a.db).Clear(ctx)
}
