package store

import "context"

// Flat key names shared by every backend. They mirror the keys the SecureAuth
// web client keeps in browser storage, so a session written by one client
// generation stays readable by the next.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeySessionToken = "sessionToken"
	KeyProfile      = "user"
	KeyUsername     = "username"
)

// Store defines a public type used by secureauth APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Absent values read back as zero values with a nil error; only backend I/O
// failures produce errors. Clear wipes every key, not just the token keys.
type Store interface {
	SetTokens(ctx context.Context, access, refresh, session string) error
	SetAccessToken(ctx context.Context, access string) error
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SessionToken(ctx context.Context) (string, error)
	SetProfile(ctx context.Context, raw []byte) error
	Profile(ctx context.Context) ([]byte, error)
	SetUsername(ctx context.Context, username string) error
	Username(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
