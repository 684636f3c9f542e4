package middleware

import (
	"context"
	"net/http"
	"strings"

	"doctrack/pkg/apperror"
	"doctrack/pkg/logger"
	"doctrack/pkg/response"
)

type contextKey string

const UserIDKey contextKey = "userID"

// TokenVerifier returns the subject of a valid session token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Identity requires a valid session token when enforce is set and stores its
// subject in the request context. Without enforcement requests pass through
// untouched and callers are identified only by the userId they send.
func Identity(verifier TokenVerifier, enforce bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enforce || verifier == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Browsers cannot set headers on WebSocket upgrades, so the token
			// may also come in the query string.
			tokenString := r.URL.Query().Get("token")
			if tokenString == "" {
				tokenString = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			}
			if tokenString == "" {
				response.Error(w, apperror.Unauthorized("No session token provided"))
				return
			}

			userID, err := verifier.Verify(tokenString)
			if err != nil {
				logger.Sugar.Infof("Invalid session token: %v", err)
				response.Error(w, apperror.Unauthorized("Invalid or expired session token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom returns the token subject stored by Identity.
func UserIDFrom(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// CheckAsserted rejects a client-supplied userId that differs from the
// session subject. It is a no-op when no session is attached.
func CheckAsserted(ctx context.Context, asserted string) error {
	if userID, ok := UserIDFrom(ctx); ok && userID != asserted {
		return apperror.Forbidden("Unauthorized")
	}
	return nil
}
