package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tasteboard/recipebox/internal/metrics"
	"github.com/tasteboard/recipebox/internal/middleware"
	"github.com/tasteboard/recipebox/internal/repo"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users    *repo.UserRepo
	Sessions *repo.SessionRepo

	// SecureCookies marks session cookies Secure; enable behind HTTPS.
	SecureCookies bool
}

// setSessionCookie binds the client to the session token for the session's lifetime.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// ==========================
// Signup (creates account, starts session)
// ==========================
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Bio      string `json:"bio"`
		ImageURL string `json:"image_url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if input.Username == "" {
		metrics.RecordSignup("invalid")
		JSONError(w, "Username is required.", http.StatusUnprocessableEntity)
		return
	}

	user, err := h.Users.Create(r.Context(), input.Username, input.Password, input.Bio, input.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateUsername):
			metrics.RecordSignup("duplicate")
			JSONError(w, "Username already exists.", http.StatusUnprocessableEntity)
		case errors.Is(err, repo.ErrValidation):
			metrics.RecordSignup("invalid")
			JSONError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			// Persistence failures surface as 422 with a generic message; the
			// insert itself is atomic so no partial record remains.
			slog.Error("signup: create user", "error", err)
			metrics.RecordSignup("error")
			JSONError(w, ErrMessageUnprocessable, http.StatusUnprocessableEntity)
		}
		return
	}

	session, err := h.Sessions.Create(r.Context(), user.ID)
	if err != nil {
		slog.Error("signup: start session", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	h.setSessionCookie(w, session.Token, int(h.Sessions.TTL.Seconds()))

	metrics.RecordSignup("created")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// ==========================
// Login (identical response and timing for unknown user and wrong password)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.Username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("login: get user", "error", err)
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
			return
		}
		user = nil
	}

	// Authenticate runs a bcrypt comparison even when user is nil so a missing
	// username cannot be told apart from a wrong password.
	if !h.Users.Authenticate(user, input.Password) {
		metrics.RecordLogin("invalid")
		JSONError(w, "Invalid credentials.", http.StatusUnauthorized)
		return
	}

	session, err := h.Sessions.Create(r.Context(), user.ID)
	if err != nil {
		slog.Error("login: start session", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	h.setSessionCookie(w, session.Token, int(h.Sessions.TTL.Seconds()))

	metrics.RecordLogin("ok")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// ==========================
// CheckSession (whoami for the current cookie)
// ==========================
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		// Session outlived the account; treat as unauthenticated.
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		slog.Error("check_session: get user", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// ==========================
// Logout (ends session, clears cookie)
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetSessionToken(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Sessions.Delete(r.Context(), token); err != nil {
		slog.Error("logout: delete session", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	h.setSessionCookie(w, "", -1)

	w.WriteHeader(http.StatusNoContent)
}
