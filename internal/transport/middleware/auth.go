package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/polyglot-dictionary/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (subject string, role string, err error)
}

// RequireRole rejects requests without a valid bearer token carrying role.
// Missing or invalid tokens get 401, a valid token with another role gets 403.
// On success the editor is stored in the request context.
func RequireRole(validator tokenValidator, role string, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			subject, tokenRole, err := validator.ValidateAccessToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "rejected token",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if tokenRole != role {
				writeError(w, http.StatusForbidden, "editor role required")
				return
			}

			recordEditor(r.Context(), subject)
			ctx := ctxutil.WithEditor(r.Context(), ctxutil.Editor{Subject: subject, Role: tokenRole})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
