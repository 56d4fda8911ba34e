package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"crewclock.service/internal/api/handler"
	"crewclock.service/internal/core/identity"
)

// authMiddleware resolves the caller from the bearer token. With a secret
// configured every request must carry a valid HS256 token; without one the
// token is optional and only used for display and ownership.
func authMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := identity.BearerToken(r.Header.Get("Authorization"))
			if secret != "" {
				if !ok {
					handler.WriteError(w, r, http.StatusUnauthorized, "missing bearer token")
					return
				}
				if err := identity.Verify(token, secret); err != nil {
					log.Ctx(r.Context()).Debug().Err(err).Msg("rejected token")
					handler.WriteError(w, r, http.StatusUnauthorized, "invalid token")
					return
				}
			}
			caller := identity.FromToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(identity.WithCaller(r.Context(), caller)))
		})
	}
}
