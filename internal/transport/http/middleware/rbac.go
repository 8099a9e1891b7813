package middleware

import (
	"net/http"

	"clinichr/internal/domain/auth"
	"clinichr/internal/transport/http/api"
)

// Require gates a route on the policy table entry for action.
func Require(action auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if err := auth.Authorize(user.Role, action); err != nil {
				api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
