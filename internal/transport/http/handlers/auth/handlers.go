package authhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clinichr/internal/domain/auth"
	"clinichr/internal/transport/http/api"
	"clinichr/internal/transport/http/middleware"
	"clinichr/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Service: service}
}

// RegisterPublicRoutes mounts the endpoints that run before authentication.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/verify", h.handleVerify)
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if !shared.DecodeValid(w, r, &payload, reqID) {
		return
	}

	token, user, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", reqID)
		return
	}

	api.Success(w, map[string]any{"token": token, "user": user}, reqID)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	api.Success(w, map[string]any{
		"uid":          user.UID,
		"role":         user.Role,
		"display_name": user.DisplayName,
		"employee_id":  user.EmployeeID,
	}, reqID)
}
