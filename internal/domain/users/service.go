package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"clinichr/internal/domain/auth"
	"clinichr/internal/store"
)

var (
	ErrAlreadyExists = errors.New("profile already exists for uid")
	ErrNotFound      = errors.New("user not found")
	ErrInvalidStatus = errors.New("status must be active or inactive")
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	defaultLeaveBalance = 15
)

type Service struct {
	Store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{Store: st}
}

// Create writes a new profile, defaulting status to active and the leave
// balance to the annual allotment. An existing profile at the uid is a
// conflict; the caller must use update instead.
func (s *Service) Create(ctx context.Context, input CreateInput) error {
	err := s.Store.Transform(ctx, "users/"+input.UID, func(current json.RawMessage) (any, error) {
		if current != nil {
			return nil, ErrAlreadyExists
		}
		return Profile{
			DisplayName:  input.DisplayName,
			Email:        input.Email,
			Role:         input.Role,
			EmployeeID:   input.EmployeeID,
			Phone:        input.Phone,
			Address:      input.Address,
			Status:       StatusActive,
			LeaveBalance: defaultLeaveBalance,
		}, nil
	})
	if err != nil {
		return err
	}

	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if err := s.Store.Set(ctx, "credentials/"+input.UID, map[string]any{"passwordHash": hash}); err != nil {
			return fmt.Errorf("store credentials: %w", err)
		}
	}
	return nil
}

// Update merges only the supplied fields into an existing profile.
func (s *Service) Update(ctx context.Context, uid string, input UpdateInput) error {
	if _, err := s.Store.Get(ctx, "users/"+uid); errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	} else if err != nil {
		return err
	}

	fields := map[string]any{}
	if input.DisplayName != nil {
		fields["displayName"] = *input.DisplayName
	}
	if input.Role != nil {
		fields["role"] = *input.Role
	}
	if input.EmployeeID != nil {
		fields["employeeID"] = *input.EmployeeID
	}
	if input.Phone != nil {
		fields["phone"] = *input.Phone
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}
	if input.Status != nil {
		fields["status"] = *input.Status
	}
	if len(fields) == 0 {
		return nil
	}
	return s.Store.Update(ctx, "users/"+uid, fields)
}

// SetStatus toggles a profile between active and inactive.
func (s *Service) SetStatus(ctx context.Context, uid, status string) error {
	if status != StatusActive && status != StatusInactive {
		return ErrInvalidStatus
	}
	if _, err := s.Store.Get(ctx, "users/"+uid); errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return s.Store.Update(ctx, "users/"+uid, map[string]any{"status": status})
}

func (s *Service) Get(ctx context.Context, uid string) (Profile, error) {
	raw, err := s.Store.Get(ctx, "users/"+uid)
	if errors.Is(err, store.ErrNotFound) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	var profile Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}

func (s *Service) List(ctx context.Context) ([]ListedUser, error) {
	children, err := s.Store.Children(ctx, "users")
	if err != nil {
		return nil, err
	}
	listed := make([]ListedUser, 0, len(children))
	for uid, raw := range children {
		var profile Profile
		if err := json.Unmarshal(raw, &profile); err != nil {
			return nil, fmt.Errorf("decode profile %s: %w", uid, err)
		}
		listed = append(listed, ListedUser{UID: uid, Profile: profile})
	}
	sort.Slice(listed, func(i, j int) bool { return listed[i].UID < listed[j].UID })
	return listed, nil
}
