package payrollhandler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinichr/internal/domain/auth"
	"clinichr/internal/domain/payroll"
	"clinichr/internal/transport/http/api"
	"clinichr/internal/transport/http/middleware"
	"clinichr/internal/transport/http/shared"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.Require(auth.ActionPayrollManage)).Post("/", h.handleGenerate)
		r.Get("/me", h.handleListOwn)
		r.With(middleware.Require(auth.ActionPayrollManage)).Get("/{uid}", h.handleListFor)
		r.Get("/{uid}/{entryID}/payslip", h.handlePayslip)
	})
}

type generatePayload struct {
	EmployeeUID string  `json:"employee_uid" validate:"required"`
	PeriodStart string  `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string  `json:"period_end" validate:"required,datetime=2006-01-02"`
	Cutoff      string  `json:"cutoff" validate:"required"`
	BasicPay    float64 `json:"basic_pay" validate:"gte=0"`
	OTPay       float64 `json:"ot_pay" validate:"gte=0"`
	Incentives  float64 `json:"incentives" validate:"gte=0"`
	OTHours     float64 `json:"ot_hours" validate:"gte=0"`
	OTType      string  `json:"ot_type"`
	HourlyRate  float64 `json:"hourly_rate" validate:"gte=0"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload generatePayload
	if !shared.DecodeValid(w, r, &payload, reqID) {
		return
	}

	id, entry, err := h.Service.Generate(r.Context(), user.UID, payroll.GenerateInput{
		EmployeeUID: payload.EmployeeUID,
		PeriodStart: payload.PeriodStart,
		PeriodEnd:   payload.PeriodEnd,
		Cutoff:      payload.Cutoff,
		BasicPay:    payload.BasicPay,
		OTPay:       payload.OTPay,
		Incentives:  payload.Incentives,
		OTHours:     payload.OTHours,
		OTType:      payload.OTType,
		HourlyRate:  payload.HourlyRate,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_generate_failed", "failed to generate payroll entry", reqID)
		return
	}

	api.Created(w, map[string]any{
		"message":   "Payroll entry generated",
		"id":        id,
		"gross_pay": entry.GrossPay,
	}, reqID)
}

func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	entries, err := h.Service.ListFor(r.Context(), user.UID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_list_failed", "failed to list payroll entries", reqID)
		return
	}
	api.Success(w, map[string]any{"records": entries}, reqID)
}

func (h *Handler) handleListFor(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	uid := chi.URLParam(r, "uid")
	entries, err := h.Service.ListFor(r.Context(), uid)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll_list_failed", "failed to list payroll entries", reqID)
		return
	}
	api.Success(w, map[string]any{"records": entries}, reqID)
}

// handlePayslip serves the PDF for one entry. Employees may fetch their
// own payslips; payroll admins may fetch anyone's.
func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	uid := chi.URLParam(r, "uid")
	entryID := chi.URLParam(r, "entryID")
	if uid != user.UID {
		if err := auth.Authorize(user.Role, auth.ActionPayrollManage); err != nil {
			api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), reqID)
			return
		}
	}

	pdfBytes, err := h.Service.RenderPayslip(r.Context(), uid, entryID)
	switch {
	case errors.Is(err, payroll.ErrEntryNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payroll entry not found", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s.pdf", entryID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}
