package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"clinichr/internal/domain/auth"
	"clinichr/internal/transport/http/api"
)

type ctxKey int

const ctxKeyUser ctxKey = iota

// Authenticate resolves the bearer token into a caller identity and rejects
// the request when it cannot. A valid token whose subject has no profile is
// still an authentication failure, reported with its own code.
func Authenticate(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "malformed authorization header", GetRequestID(r.Context()))
				return
			}

			resolved, err := resolver.Resolve(r.Context(), parts[1])
			if errors.Is(err, auth.ErrProfileNotFound) {
				api.Fail(w, http.StatusUnauthorized, "user_not_found", "no profile for authenticated subject", GetRequestID(r.Context()))
				return
			}
			if errors.Is(err, auth.ErrUnauthenticated) {
				api.Fail(w, http.StatusUnauthorized, "invalid_token", "invalid or expired token", GetRequestID(r.Context()))
				return
			}
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "auth_failed", "failed to resolve user", GetRequestID(r.Context()))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, resolved)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (auth.Identity, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.Identity)
	return user, ok
}
