package middleware

import (
	"context"
	"errors"
	"net/http"

	"sql_arena/internal/common"
	"sql_arena/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	UsernameCtxKey contextKey = "username"
)

// Authenticator enforces a valid bearer token. It relies on jwtauth.Verifier
// (installed router-wide) having already parsed the Authorization header.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil {
			if errors.Is(err, jwtauth.ErrNoTokenFound) {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			}
			return
		}
		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		if username := security.GetUsernameFromClaims(claims); username != "" {
			ctx = context.WithValue(ctx, UsernameCtxKey, username)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// SoftUserID extracts the user id when a valid token accompanies the request
// and returns "" otherwise. Soft-auth routes use it to upgrade, never to
// reject: a missing or broken token degrades to the anonymous view.
func SoftUserID(r *http.Request) string {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return ""
	}
	userID, err := security.GetUserIDFromClaims(claims)
	if err != nil {
		return ""
	}
	return userID
}
