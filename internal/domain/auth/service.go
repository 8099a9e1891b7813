package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"clinichr/internal/identity"
	"clinichr/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type storedCredentials struct {
	PasswordHash string `json:"passwordHash"`
}

// Service implements the local login flow for deployments that are not
// fronted by an external token issuer: bcrypt check against
// credentials/{uid}, then a signed token for the subject.
type Service struct {
	Store  store.Store
	Tokens *identity.JWT
}

func NewService(st store.Store, tokens *identity.JWT) *Service {
	return &Service{Store: st, Tokens: tokens}
}

func (s *Service) Login(ctx context.Context, email, password string) (string, Identity, error) {
	uid, resolved, err := s.findActiveUserByEmail(ctx, email)
	if err != nil {
		return "", Identity{}, err
	}

	raw, err := s.Store.Get(ctx, "credentials/"+uid)
	if errors.Is(err, store.ErrNotFound) {
		return "", Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", Identity{}, fmt.Errorf("load credentials: %w", err)
	}
	var creds storedCredentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return "", Identity{}, fmt.Errorf("decode credentials: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)) != nil {
		return "", Identity{}, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(uid)
	if err != nil {
		return "", Identity{}, fmt.Errorf("issue token: %w", err)
	}
	return token, resolved, nil
}

func (s *Service) findActiveUserByEmail(ctx context.Context, email string) (string, Identity, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	users, err := s.Store.Children(ctx, "users")
	if err != nil {
		return "", Identity{}, fmt.Errorf("list users: %w", err)
	}
	for uid, raw := range users {
		var candidate Identity
		if err := json.Unmarshal(raw, &candidate); err != nil {
			continue
		}
		if strings.ToLower(candidate.Email) != normalized {
			continue
		}
		if candidate.Status != "active" {
			return "", Identity{}, ErrInvalidCredentials
		}
		candidate.UID = uid
		return uid, candidate, nil
	}
	return "", Identity{}, ErrInvalidCredentials
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
