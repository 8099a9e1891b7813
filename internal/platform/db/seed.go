package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"clinichr/internal/domain/auth"
	"clinichr/internal/domain/users"
	"clinichr/internal/platform/config"
	"clinichr/internal/store"
)

// Seed bootstraps the first super admin so a fresh deployment has a
// login. It is idempotent: if any profile already carries the seed
// email, nothing is written.
func Seed(ctx context.Context, st store.Store, cfg config.Config) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	existing, err := st.Children(ctx, "users")
	if err != nil {
		return fmt.Errorf("seed: list users: %w", err)
	}
	for _, raw := range existing {
		var profile struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(raw, &profile); err != nil {
			continue
		}
		if strings.EqualFold(profile.Email, cfg.SeedAdminEmail) {
			return nil
		}
	}

	uid := uuid.NewString()
	svc := users.NewService(st)
	err = svc.Create(ctx, users.CreateInput{
		UID:         uid,
		DisplayName: cfg.SeedAdminName,
		Email:       cfg.SeedAdminEmail,
		Role:        auth.RoleSuperAdmin,
		EmployeeID:  "ADMIN-0001",
		Password:    cfg.SeedAdminPassword,
	})
	if err != nil {
		return fmt.Errorf("seed: create admin: %w", err)
	}
	return nil
}
