package leave

import (
	"context"
	"encoding/json"
	"fmt"

	"clinichr/internal/domain/workflow"
	"clinichr/internal/store"
)

const defaultLeaveBalance = 15

type Service struct {
	Engine *workflow.Engine
	Store  store.Store
}

func NewService(st store.Store) *Service {
	return &Service{Engine: workflow.New(st, "leave"), Store: st}
}

func (s *Service) File(ctx context.Context, uid string, input FileInput) (string, error) {
	return s.Engine.File(ctx, uid, Request{
		Type:      input.Type,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Reason:    input.Reason,
		Status:    workflow.StatusPending,
		CreatedAt: s.Engine.Today(),
	})
}

func (s *Service) ListOwn(ctx context.Context, uid string) ([]workflow.Entry, error) {
	return s.Engine.ListOwn(ctx, uid)
}

func (s *Service) ListAll(ctx context.Context) ([]workflow.Entry, error) {
	return s.Engine.ListAll(ctx)
}

// UpdateStatus decides the request. Approval deducts the inclusive day span
// from the owner's leave balance, floored at zero; rejection leaves the
// balance untouched.
func (s *Service) UpdateStatus(ctx context.Context, uid, id, status, reviewerUID string) error {
	prev, err := s.Engine.Decide(ctx, uid, id, status, reviewerUID)
	if err != nil {
		return err
	}
	if status != workflow.StatusApproved {
		return nil
	}

	var request Request
	if err := json.Unmarshal(prev, &request); err != nil {
		return fmt.Errorf("decode leave request: %w", err)
	}
	days, err := CalculateDays(request.StartDate, request.EndDate)
	if err != nil {
		return fmt.Errorf("leave day span: %w", err)
	}

	return s.Store.Transform(ctx, "users/"+uid, func(current json.RawMessage) (any, error) {
		profile := map[string]any{}
		if current != nil {
			if err := json.Unmarshal(current, &profile); err != nil {
				return nil, fmt.Errorf("decode profile: %w", err)
			}
		}
		balance := defaultLeaveBalance
		if raw, ok := profile["leaveBalance"].(float64); ok {
			balance = int(raw)
		}
		profile["leaveBalance"] = DeductBalance(balance, days)
		return profile, nil
	})
}
