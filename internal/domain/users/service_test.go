package users

import (
	"context"
	"errors"
	"testing"

	"clinichr/internal/store"
)

func strPtr(s string) *string { return &s }

func TestCreateDefaults(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st)
	ctx := context.Background()

	err := svc.Create(ctx, CreateInput{
		UID: "u1", DisplayName: "Ana Cruz", Email: "ana@clinic.test",
		Role: "employee", EmployeeID: "EMP-001",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	profile, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if profile.Status != StatusActive {
		t.Fatalf("expected status active, got %q", profile.Status)
	}
	if profile.LeaveBalance != 15 {
		t.Fatalf("expected default balance 15, got %d", profile.LeaveBalance)
	}
}

func TestCreateExistingConflicts(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	if err := svc.Create(ctx, CreateInput{UID: "u1", DisplayName: "Ana"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	err := svc.Create(ctx, CreateInput{UID: "u1", DisplayName: "Impostor"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	profile, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if profile.DisplayName != "Ana" {
		t.Fatal("conflicting create must not overwrite the profile")
	}
}

func TestCreateWithPasswordProvisionsCredentials(t *testing.T) {
	st := store.NewMemory()
	svc := NewService(st)
	ctx := context.Background()

	if err := svc.Create(ctx, CreateInput{UID: "u1", Email: "ana@clinic.test", Password: "Sup3rSecret"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := st.Get(ctx, "credentials/u1"); err != nil {
		t.Fatalf("expected stored credentials, got %v", err)
	}
}

func TestUpdatePartialMerge(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	if err := svc.Create(ctx, CreateInput{UID: "u1", DisplayName: "Ana", Role: "employee", Phone: "123"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err := svc.Update(ctx, "u1", UpdateInput{Role: strPtr("supervisor")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	profile, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if profile.Role != "supervisor" {
		t.Fatalf("expected role supervisor, got %q", profile.Role)
	}
	if profile.DisplayName != "Ana" || profile.Phone != "123" {
		t.Fatalf("untouched fields changed: %+v", profile)
	}
}

func TestUpdateMissingUser(t *testing.T) {
	svc := NewService(store.NewMemory())

	err := svc.Update(context.Background(), "ghost", UpdateInput{Role: strPtr("manager")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	if err := svc.Create(ctx, CreateInput{UID: "u1"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.SetStatus(ctx, "u1", StatusInactive); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	profile, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if profile.Status != StatusInactive {
		t.Fatalf("expected inactive, got %q", profile.Status)
	}

	if err := svc.SetStatus(ctx, "u1", "suspended"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := svc.SetStatus(ctx, "ghost", StatusActive); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSorted(t *testing.T) {
	svc := NewService(store.NewMemory())
	ctx := context.Background()

	for _, uid := range []string{"c", "a", "b"} {
		if err := svc.Create(ctx, CreateInput{UID: uid, DisplayName: "User " + uid}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	listed, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 users, got %d", len(listed))
	}
	if listed[0].UID != "a" || listed[2].UID != "c" {
		t.Fatalf("expected sorted uids, got %+v", listed)
	}
}
