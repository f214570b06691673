package auth

import (
	"net/http"

	"bookly/internal/apierr"
)

// RequireRoles returns middleware admitting only resolved users whose role is
// in the allow-list. It must be mounted after ResolveUser and before any
// handler with side effects.
func RequireRoles(allowed ...string) func(http.Handler) http.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				apierr.Write(w, apierr.InvalidToken)
				return
			}
			if _, ok := allowedSet[user.Role]; !ok {
				apierr.Write(w, apierr.InsufficientPermissions)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
