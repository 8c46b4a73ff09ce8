package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/tasteboard/recipebox/internal/repo"
)

type key string

const UserIDKey key = "user_id"
const SessionTokenKey key = "session_token"

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "recipebox_session"

// ResolveSession reads the session cookie and, when the token maps to a live
// session, stores the user id and token in the request context. Requests
// without a valid session pass through anonymous; RequireAuth draws the line.
func ResolveSession(sessions *repo.SessionRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.GetByToken(r.Context(), cookie.Value)
			if err != nil {
				// Expired or unknown tokens are anonymous, not an error.
				if !errors.Is(err, repo.ErrSessionNotFound) {
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, session.UserID)
			ctx = context.WithValue(ctx, SessionTokenKey, session.Token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that ResolveSession left anonymous.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserID(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID returns the authenticated user id from the request context.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}

// GetSessionToken returns the resolved session token from the request context.
func GetSessionToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(SessionTokenKey).(string)
	return token, ok
}
