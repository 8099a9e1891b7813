package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"clinichr/internal/identity"
	"clinichr/internal/store"
)

var (
	ErrUnauthenticated = errors.New("invalid or expired token")
	ErrProfileNotFound = errors.New("no profile for authenticated subject")
)

// Identity is the resolved caller: the verified subject id united with the
// profile stored under users/{uid}.
type Identity struct {
	UID          string `json:"uid"`
	DisplayName  string `json:"displayName"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	EmployeeID   string `json:"employeeID"`
	Status       string `json:"status"`
	LeaveBalance int    `json:"leaveBalance"`
}

// Resolver turns a bearer token into an Identity: verify the token, then
// load the subject's profile. Both failures surface as authentication
// failures to the caller.
type Resolver struct {
	Verifier identity.Verifier
	Store    store.Store
}

func NewResolver(verifier identity.Verifier, st store.Store) *Resolver {
	return &Resolver{Verifier: verifier, Store: st}
}

func (r *Resolver) Resolve(ctx context.Context, token string) (Identity, error) {
	subject, err := r.Verifier.Verify(ctx, token)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}

	raw, err := r.Store.Get(ctx, "users/"+subject)
	if errors.Is(err, store.ErrNotFound) {
		return Identity{}, ErrProfileNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("load profile: %w", err)
	}

	var resolved Identity
	if err := json.Unmarshal(raw, &resolved); err != nil {
		return Identity{}, fmt.Errorf("decode profile: %w", err)
	}
	resolved.UID = subject
	return resolved, nil
}
