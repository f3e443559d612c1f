package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// getSimpleText, getPassword and confirm are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

// ErrNotLoggedIn is returned by task commands before a successful login.
var ErrNotLoggedIn = errors.New("please login first")

// Register prompts the user for a username and password and attempts to
// create a new account via the AuthService. The password byte slice is
// wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, userName, password); err != nil {
		return err
	}

	a.println("Success! You can now login.")
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
//
// The method first attempts an online login. If the server is unavailable
// it falls back to offline login against the cached verifier. On success
// the owner id scopes every task command and pending tasks are replayed
// whenever the server becomes reachable.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	online := true
	ownerID, err := a.authService.OnlineLogin(ctx, userName, password)
	if errors.Is(err, client.ErrUnavailable) {
		a.log.Info(ctx, "server unavailable, trying offline login")
		online = false
		ownerID, err = a.authService.OfflineLogin(ctx, userName, password)
	}
	if err != nil {
		a.log.Warn(ctx, "login unsuccessful", "user", userName, "error", err)
		return fmt.Errorf("login failed: %w", err)
	}

	a.ownerID = ownerID
	a.userName = userName
	a.setLastList(nil)
	a.startSync(ctx)

	if online {
		a.printf("Logged in as %s\n", userName)
		a.replay(ctx)
	} else {
		a.printf("Logged in as %s (offline)\n", userName)
	}
	return nil
}

// Logout forgets the session and the cached offline credentials.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.stopSync()
	a.ownerID = ""
	a.userName = ""
	a.setLastList(nil)
	a.println("Logged out")
	return nil
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}
