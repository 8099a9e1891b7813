package reportshandler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"clinichr/internal/domain/auth"
	"clinichr/internal/domain/reports"
	"clinichr/internal/domain/workflow"
	"clinichr/internal/transport/http/api"
	"clinichr/internal/transport/http/middleware"
	"clinichr/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Post("/", h.handleFile)
		r.Get("/me", h.handleListOwn)
		r.With(middleware.Require(auth.ActionReportReview)).Get("/all", h.handleListAll)
		r.With(middleware.Require(auth.ActionReportReview)).Put("/{uid}/{reportID}/status", h.handleUpdateStatus)
	})
}

type filePayload struct {
	WeekStart string `json:"week_start" validate:"required,datetime=2006-01-02"`
	WeekEnd   string `json:"week_end" validate:"required,datetime=2006-01-02"`
	Summary   string `json:"summary" validate:"required"`
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

	id, err := h.Service.File(r.Context(), user.UID, reports.FileInput{
		WeekStart: payload.WeekStart,
		WeekEnd:   payload.WeekEnd,
		Summary:   payload.Summary,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_file_failed", "failed to submit report", reqID)
		return
	}

	api.Created(w, map[string]any{"message": "Report submitted", "id": id}, reqID)
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
		api.Fail(w, http.StatusInternalServerError, "report_list_failed", "failed to list reports", reqID)
		return
	}
	api.Success(w, map[string]any{"records": entries}, reqID)
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	entries, err := h.Service.ListAll(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_list_failed", "failed to list reports", reqID)
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
	reportID := chi.URLParam(r, "reportID")
	err := h.Service.UpdateStatus(r.Context(), uid, reportID, payload.Status, user.UID)
	switch {
	case errors.Is(err, workflow.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be Approved or Rejected", reqID)
		return
	case errors.Is(err, workflow.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "report not found", reqID)
		return
	case errors.Is(err, workflow.ErrAlreadyReviewed):
		api.Fail(w, http.StatusBadRequest, "already_reviewed", "report already reviewed", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "report_update_failed", "failed to update report", reqID)
		return
	}

	api.Success(w, map[string]any{"message": "Report " + strings.ToLower(payload.Status) + " successfully"}, reqID)
}
