package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"clinichr/internal/store"
)

var ErrEntryNotFound = errors.New("payroll entry not found")

const dateFormat = "2006-01-02"

type Service struct {
	Store store.Store
	Now   func() time.Time
}

func NewService(st store.Store) *Service {
	return &Service{Store: st, Now: time.Now}
}

// Generate appends a new immutable entry under the employee's payroll
// subtree, stamped with the generating admin and date.
func (s *Service) Generate(ctx context.Context, actorUID string, input GenerateInput) (string, Entry, error) {
	otType := input.OTType
	if otType == "" {
		otType = DefaultOTType
	}
	hourlyRate := input.HourlyRate
	if hourlyRate == 0 {
		hourlyRate = DefaultHourlyRate
	}

	entry := Entry{
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
		Cutoff:      input.Cutoff,
		BasicPay:    input.BasicPay,
		OTPay:       input.OTPay,
		Incentives:  input.Incentives,
		GrossPay:    Gross(input.BasicPay, input.OTPay, input.Incentives),
		OTHours:     input.OTHours,
		OTType:      otType,
		HourlyRate:  hourlyRate,
		GeneratedAt: s.Now().Format(dateFormat),
		GeneratedBy: actorUID,
	}

	id, err := s.Store.Push(ctx, "payroll/"+input.EmployeeUID, entry)
	if err != nil {
		return "", Entry{}, err
	}
	return id, entry, nil
}

// ListFor returns the employee's payroll entries, most recently generated
// first.
func (s *Service) ListFor(ctx context.Context, uid string) ([]ListedEntry, error) {
	children, err := s.Store.Children(ctx, "payroll/"+uid)
	if err != nil {
		return nil, err
	}
	entries := make([]ListedEntry, 0, len(children))
	for id, raw := range children {
		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("decode payroll entry %s: %w", id, err)
		}
		entries = append(entries, ListedEntry{ID: id, Entry: entry})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].GeneratedAt != entries[j].GeneratedAt {
			return entries[i].GeneratedAt > entries[j].GeneratedAt
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (s *Service) Get(ctx context.Context, uid, id string) (Entry, error) {
	raw, err := s.Store.Get(ctx, "payroll/"+uid+"/"+id)
	if errors.Is(err, store.ErrNotFound) {
		return Entry{}, ErrEntryNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, fmt.Errorf("decode payroll entry: %w", err)
	}
	return entry, nil
}

type payslipProfile struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	EmployeeID  string `json:"employeeID"`
}

// RenderPayslip builds a payslip PDF for one entry.
func (s *Service) RenderPayslip(ctx context.Context, uid, id string) ([]byte, error) {
	entry, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	var profile payslipProfile
	if raw, err := s.Store.Get(ctx, "users/"+uid); err == nil {
		if err := json.Unmarshal(raw, &profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (%s)", profile.DisplayName, profile.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", profile.Email))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s (%s)", entry.PeriodStart, entry.PeriodEnd, entry.Cutoff))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Basic pay: %.2f", entry.BasicPay))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Overtime pay: %.2f (%s, %.2f h at %.2f/h)", entry.OTPay, entry.OTType, entry.OTHours, entry.HourlyRate))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Incentives: %.2f", entry.Incentives))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Gross pay: %.2f", entry.GrossPay))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Generated %s", entry.GeneratedAt))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
