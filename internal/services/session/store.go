// Package session keeps server-side admin sessions.
//
// The browser only holds a signed cookie naming a session id. The Store is
// authoritative: a correctly signed cookie whose id is not in the store is
// not a session.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession means there is no live session for the request.
var ErrNoSession = errors.New("no session")

// Store maps session ids to usernames with a TTL.
type Store interface {
	Save(ctx context.Context, id, username string, ttl time.Duration) error
	// Lookup returns ErrNoSession for unknown or expired ids.
	Lookup(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}
