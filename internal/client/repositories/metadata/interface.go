// Package metadata stores the client's key/value session state: the
// offline login material and the id of the signed-in user.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyUsername = "username"
	KeySalt     = "salt"
	KeyVerifier = "verifier"
	KeyUserID   = "user_id"
)

// SessionKeys are cleared on logout.
var SessionKeys = []string{KeyUsername, KeySalt, KeyVerifier, KeyUserID}

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
