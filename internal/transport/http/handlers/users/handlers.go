package usershandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinichr/internal/domain/auth"
	"clinichr/internal/domain/users"
	"clinichr/internal/transport/http/api"
	"clinichr/internal/transport/http/middleware"
	"clinichr/internal/transport/http/shared"
)

type Handler struct {
	Service *users.Service
}

func NewHandler(service *users.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.Require(auth.ActionUsersList)).Get("/", h.handleList)
		r.Get("/me", h.handleMe)
		r.With(middleware.Require(auth.ActionUsersManage)).Post("/", h.handleCreate)
		r.With(middleware.Require(auth.ActionUsersManage)).Put("/{uid}", h.handleUpdate)
		r.With(middleware.Require(auth.ActionUsersManage)).Put("/{uid}/status", h.handleSetStatus)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	listed, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "users_list_failed", "failed to list users", reqID)
		return
	}
	api.Success(w, map[string]any{"users": listed}, reqID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	profile, err := h.Service.Get(r.Context(), user.UID)
	if errors.Is(err, users.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "user_fetch_failed", "failed to fetch profile", reqID)
		return
	}
	api.Success(w, map[string]any{"uid": user.UID, "profile": profile}, reqID)
}

type createPayload struct {
	UID         string `json:"uid" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Role        string `json:"role" validate:"required"`
	EmployeeID  string `json:"employee_id" validate:"required"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Password    string `json:"password" validate:"omitempty,min=8"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createPayload
	if !shared.DecodeValid(w, r, &payload, reqID) {
		return
	}

	err := h.Service.Create(r.Context(), users.CreateInput{
		UID:         payload.UID,
		DisplayName: payload.DisplayName,
		Email:       payload.Email,
		Role:        payload.Role,
		EmployeeID:  payload.EmployeeID,
		Phone:       payload.Phone,
		Address:     payload.Address,
		Password:    payload.Password,
	})
	switch {
	case errors.Is(err, users.ErrAlreadyExists):
		api.Fail(w, http.StatusBadRequest, "conflict", "a profile already exists for that uid", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "user_create_failed", "failed to create user", reqID)
		return
	}

	api.Created(w, map[string]any{"message": "User created", "uid": payload.UID}, reqID)
}

type updatePayload struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	EmployeeID  *string `json:"employee_id"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload updatePayload
	if !shared.DecodeValid(w, r, &payload, reqID) {
		return
	}

	uid := chi.URLParam(r, "uid")
	err := h.Service.Update(r.Context(), uid, users.UpdateInput{
		DisplayName: payload.DisplayName,
		Role:        payload.Role,
		EmployeeID:  payload.EmployeeID,
		Phone:       payload.Phone,
		Address:     payload.Address,
		Status:      payload.Status,
	})
	switch {
	case errors.Is(err, users.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "user_update_failed", "failed to update user", reqID)
		return
	}

	api.Success(w, map[string]any{"message": "User updated"}, reqID)
}

type statusPayload struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload statusPayload
	if !shared.DecodeValid(w, r, &payload, reqID) {
		return
	}

	uid := chi.URLParam(r, "uid")
	err := h.Service.SetStatus(r.Context(), uid, payload.Status)
	switch {
	case errors.Is(err, users.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_status", "status must be active or inactive", reqID)
		return
	case errors.Is(err, users.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "user_update_failed", "failed to update status", reqID)
		return
	}

	api.Success(w, map[string]any{"message": "Status updated"}, reqID)
}
