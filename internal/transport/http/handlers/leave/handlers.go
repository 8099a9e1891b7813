package leavehandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"clinichr/internal/domain/auth"
	"clinichr/internal/domain/leave"
	"clinichr/internal/domain/workflow"
	"clinichr/internal/transport/http/api"
	"clinichr/internal/transport/http/middleware"
	"clinichr/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
}

func NewHandler(service *leave.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Post("/", h.handleFile)
		r.Get("/me", h.handleListOwn)
		r.With(middleware.Require(auth.ActionLeaveReview)).Get("/all", h.handleListAll)
		r.With(middleware.Require(auth.ActionLeaveReview)).Put("/{uid}/{requestID}/status", h.handleUpdateStatus)
	})
}

type filePayload struct {
	Type      string `json:"type" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required"`
}

func (h *Handler) handleFile(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload filePayload
	if !shared.DecodeValid(w, r, &payload, reqID) {
		return
	}
	if _, err := leave.CalculateDays(payload.StartDate, payload.EndDate); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "end_date must be on or after start_date", reqID)
		return
	}

	id, err := h.Service.File(r.Context(), user.UID, leave.FileInput{
		Type:      payload.Type,
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		Reason:    payload.Reason,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_file_failed", "failed to submit leave request", reqID)
		return
	}

	api.Created(w, map[string]any{"message": "Leave request submitted", "id": id}, reqID)
}

func (h *Handler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	entries, err := h.Service.ListOwn(r.Context(), user.UID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", reqID)
		return
	}
	api.Success(w, map[string]any{"records": entries}, reqID)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	entries, err := h.Service.ListAll(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", reqID)
		return
	}
	api.Success(w, map[string]any{"records": entries}, reqID)
}

type statusPayload struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload statusPayload
	if !shared.DecodeValid(w, r, &payload, reqID) {
		return
	}

	uid := chi.URLParam(r, "uid")
	requestID := chi.URLParam(r, "requestID")
	err := h.Service.UpdateStatus(r.Context(), uid, requestID, payload.Status, user.UID)
	switch {
	case errors.Is(err, workflow.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be Approved or Rejected", reqID)
		return
	case errors.Is(err, workflow.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", reqID)
		return
	case errors.Is(err, workflow.ErrAlreadyReviewed):
		api.Fail(w, http.StatusBadRequest, "already_reviewed", "leave request already reviewed", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "leave_update_failed", "failed to update leave request", reqID)
		return
	}

	api.Success(w, map[string]any{"message": "Leave " + strings.ToLower(payload.Status) + " successfully"}, reqID)
}
