package reports

import (
	"context"

	"clinichr/internal/domain/workflow"
	"clinichr/internal/store"
)

// Report is one weekly report document at reports/{uid}/{id}.
type Report struct {
	WeekStart  string `json:"weekStart"`
	WeekEnd    string `json:"weekEnd"`
	Summary    string `json:"summary"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	ReviewedBy string `json:"reviewedBy,omitempty"`
	ReviewedAt string `json:"reviewedAt,omitempty"`
}

type FileInput struct {
	WeekStart string
	WeekEnd   string
	Summary   string
}

type Service struct {
	Engine *workflow.Engine
}

func NewService(st store.Store) *Service {
	return &Service{Engine: workflow.New(st, "reports")}
}

func (s *Service) File(ctx context.Context, uid string, input FileInput) (string, error) {
	return s.Engine.File(ctx, uid, Report{
		WeekStart: input.WeekStart,
		WeekEnd:   input.WeekEnd,
		Summary:   input.Summary,
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
