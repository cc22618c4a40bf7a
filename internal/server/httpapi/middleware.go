package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// userIDFromContext returns the authenticated user id placed there by the
// auth guard. The empty string means the request never passed the guard.
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// extractAccessToken finds the access token on a request: the accessToken
// cookie wins, with a "Bearer" Authorization header as the fallback.
func extractAccessToken(r *http.Request) string {
	if c, err := r.Cookie(common.AccessTokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get(common.AuthorizationHeaderName)
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// requireAuth guards protected routes. It validates the access token and
// confirms the subject still exists before handing the request on with the
// user id in context. Any failure is a uniform 401.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractAccessToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized request")
			return
		}

		claims, err := auth.ParseAccessToken(token, s.accessTokenSecret)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid access token")
			return
		}

		// the token may outlive the account
		if _, err := s.users.CurrentUser(r.Context(), claims.UserID); err != nil {
			respondError(w, http.StatusUnauthorized, "invalid access token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next(w, r.WithContext(ctx))
	}
}
