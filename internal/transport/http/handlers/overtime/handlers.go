package overtimehandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"clinichr/internal/domain/auth"
	"clinichr/internal/domain/overtime"
	"clinichr/internal/domain/workflow"
	"clinichr/internal/transport/http/api"
	"clinichr/internal/transport/http/middleware"
	"clinichr/internal/transport/http/shared"
)

type Handler struct {
	Service *overtime.Service
}

func NewHandler(service *overtime.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/overtime", func(r chi.Router) {
		r.Post("/", h.handleFile)
		r.Get("/me", h.handleListOwn)
		r.With(middleware.Require(auth.ActionOvertimeReview)).Get("/all", h.handleListAll)
		r.With(middleware.Require(auth.ActionOvertimeReview)).Put("/{uid}/{requestID}/status", h.handleUpdateStatus)
	})
}

type filePayload struct {
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Hours  float64 `json:"hours" validate:"required,gte=0"`
	Reason string  `json:"reason" validate:"required"`
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

	id, err := h.Service.File(r.Context(), user.UID, overtime.FileInput{
		Date:   payload.Date,
		Hours:  payload.Hours,
		Reason: payload.Reason,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "overtime_file_failed", "failed to submit OT request", reqID)
		return
	}

	api.Created(w, map[string]any{"message": "OT request submitted", "id": id}, reqID)
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
		api.Fail(w, http.StatusInternalServerError, "overtime_list_failed", "failed to list OT requests", reqID)
		return
	}
	api.Success(w, map[string]any{"records": entries}, reqID)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	entries, err := h.Service.ListAll(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "overtime_list_failed", "failed to list OT requests", reqID)
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
		api.Fail(w, http.StatusNotFound, "not_found", "OT request not found", reqID)
		return
	case errors.Is(err, workflow.ErrAlreadyReviewed):
		api.Fail(w, http.StatusBadRequest, "already_reviewed", "OT request already reviewed", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "overtime_update_failed", "failed to update OT request", reqID)
		return
	}

	api.Success(w, map[string]any{"message": "OT " + strings.ToLower(payload.Status) + " successfully"}, reqID)
}
