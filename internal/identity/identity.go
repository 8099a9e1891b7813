// Package identity isolates token verification behind a small capability so
// the rest of the system only sees "opaque bearer token in, subject id out".
package identity

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Verifier interface {
	// Verify checks token and returns the subject identifier it was issued
	// for, or ErrInvalidToken.
	Verify(ctx context.Context, token string) (string, error)
}
