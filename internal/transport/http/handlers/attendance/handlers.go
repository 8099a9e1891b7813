package attendancehandler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinichr/internal/domain/attendance"
	"clinichr/internal/domain/auth"
	"clinichr/internal/transport/http/api"
	"clinichr/internal/transport/http/middleware"
	"clinichr/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
}

func NewHandler(service *attendance.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Post("/time-in", h.handleTimeIn)
		r.Post("/time-out", h.handleTimeOut)
		r.Get("/me", h.handleListOwn)
		r.With(middleware.Require(auth.ActionAttendanceListAll)).Get("/all", h.handleListAll)
		r.With(middleware.Require(auth.ActionAttendanceBulkTimeout)).Post("/bulk-timeout", h.handleBulkTimeOut)
	})
}

type timeInPayload struct {
	TimeIn string `json:"time_in" validate:"required"`
	Status string `json:"status" validate:"required"`
}

func (h *Handler) handleTimeIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload timeInPayload
	if !shared.DecodeValid(w, r, &payload, reqID) {
		return
	}

	date, err := h.Service.TimeIn(r.Context(), user.UID, payload.TimeIn, payload.Status)
	if errors.Is(err, attendance.ErrAlreadyTimedIn) {
		api.Fail(w, http.StatusBadRequest, "already_timed_in", "already timed in today", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "time_in_failed", "failed to record time in", reqID)
		return
	}

	api.Created(w, map[string]any{"message": "Time in recorded", "date": date, "time_in": payload.TimeIn}, reqID)
}

type timeOutPayload struct {
	TimeOut    string  `json:"time_out" validate:"required"`
	TotalHours float64 `json:"total_hours" validate:"gte=0"`
	ExtraHours float64 `json:"extra_hours" validate:"gte=0"`
}

func (h *Handler) handleTimeOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload timeOutPayload
	if !shared.DecodeValid(w, r, &payload, reqID) {
		return
	}

	err := h.Service.TimeOut(r.Context(), user.UID, payload.TimeOut, payload.TotalHours, payload.ExtraHours)
	switch {
	case errors.Is(err, attendance.ErrNotTimedIn):
		api.Fail(w, http.StatusBadRequest, "not_timed_in", "no time-in record found for today", reqID)
		return
	case errors.Is(err, attendance.ErrAlreadyTimedOut):
		api.Fail(w, http.StatusBadRequest, "already_timed_out", "already timed out today", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "time_out_failed", "failed to record time out", reqID)
		return
	}

	api.Success(w, map[string]any{"message": "Time out recorded", "total_hours": payload.TotalHours}, reqID)
}

func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	records, err := h.Service.ListOwn(r.Context(), user.UID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance", reqID)
		return
	}
	api.Success(w, map[string]any{"records": records}, reqID)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := shared.ParseDate(date); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", reqID)
			return
		}
	}

	records, err := h.Service.ListAll(r.Context(), date)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_list_failed", "failed to list attendance", reqID)
		return
	}
	api.Success(w, map[string]any{"records": records}, reqID)
}

type bulkTimeOutPayload struct {
	Date         string   `json:"date" validate:"required,datetime=2006-01-02"`
	EmployeeUIDs []string `json:"employee_uids" validate:"required,min=1"`
}

func (h *Handler) handleBulkTimeOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload bulkTimeOutPayload
	if !shared.DecodeValid(w, r, &payload, reqID) {
		return
	}

	updated, err := h.Service.BulkTimeOut(r.Context(), user.UID, payload.Date, payload.EmployeeUIDs)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "bulk_timeout_failed", "failed to apply bulk time out", reqID)
		return
	}

	api.Success(w, map[string]any{
		"message": fmt.Sprintf("Bulk time out applied to %d employees", len(updated)),
		"updated": updated,
	}, reqID)
}
