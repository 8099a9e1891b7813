package overtime

import (
	"context"

	"clinichr/internal/domain/workflow"
	"clinichr/internal/store"
)

// Request is one overtime request document at overtime/{uid}/{id}.
type Request struct {
	Date       string  `json:"date"`
	Hours      float64 `json:"hours"`
	Reason     string  `json:"reason"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"createdAt"`
	ReviewedBy string  `json:"reviewedBy,omitempty"`
	ReviewedAt string  `json:"reviewedAt,omitempty"`
}

type FileInput struct {
	Date   string
	Hours  float64
	Reason string
}

// Service rides the shared review workflow; approval has no side effects.
type Service struct {
	Engine *workflow.Engine
}

func NewService(st store.Store) *Service {
	return &Service{Engine: workflow.New(st, "overtime")}
}

func (s *Service) File(ctx context.Context, uid string, input FileInput) (string, error) {
	return s.Engine.File(ctx, uid, Request{
		Date:      input.Date,
		Hours:     input.Hours,
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

func (s *Service) UpdateStatus(ctx context.Context, uid, id, status, reviewerUID string) error {
	_, err := s.Engine.Decide(ctx, uid, id, status, reviewerUID)
	return err
}
