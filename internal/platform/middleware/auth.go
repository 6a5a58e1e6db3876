package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	jwttoken "nidbridge/internal/jwt_token"
	"nidbridge/pkg/requestcontext"
)

// SessionChecker reports whether a local session is still alive. The JWT is a
// login proof; the server-side session record is authoritative, so both must
// agree before a gated page is served.
type SessionChecker interface {
	IsValid(username string) bool
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireSession gates a route group behind a valid session token plus a live
// session record.
func RequireSession(validator *jwttoken.JWTService, sessions SessionChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token := bearerToken(r)
			if token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			if !sessions.IsValid(claims.Username) {
				logger.WarnContext(ctx, "unauthorized access - session expired or revoked",
					"username", claims.Username,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Session expired; log in again")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithUsername(ctx, claims.Username)))
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return after
	}
	// Browser pages carry the token in a cookie instead.
	if c, err := r.Cookie("nidbridge_session"); err == nil {
		return c.Value
	}
	return ""
}
