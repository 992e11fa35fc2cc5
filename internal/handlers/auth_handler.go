package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/adhyayan/internal/interfaces"
	"github.com/ternarybob/adhyayan/internal/services/auth"
	"github.com/ternarybob/arbor"
)

const (
	// SessionCookieName carries the server-side session ID
	SessionCookieName = "adhyayan_session"

	// stateCookieName carries the OAuth state between login and callback
	stateCookieName = "adhyayan_oauth_state"
)

// AuthHandler serves Google OAuth login and session endpoints
type AuthHandler struct {
	authService interfaces.AuthService
	logger      arbor.ILogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService interfaces.AuthService, logger arbor.ILogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// LoginHandler redirects the browser to Google's authorization page.
// GET /auth/login
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !h.authService.Enabled() {
		WriteError(w, http.StatusServiceUnavailable, "Authentication is not configured")
		return
	}

	state, err := auth.NewState()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate OAuth state")
		WriteError(w, http.StatusInternalServerError, "Failed to start login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.authService.LoginURL(state), http.StatusTemporaryRedirect)
}

// LoginURLHandler returns the Google authorization URL as JSON for
// clients that drive the redirect themselves.
// GET /api/auth/login
func (h *AuthHandler) LoginURLHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if !h.authService.Enabled() {
		WriteError(w, http.StatusServiceUnavailable, "Authentication is not configured")
		return
	}

	state, err := auth.NewState()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to generate OAuth state")
		WriteError(w, http.StatusInternalServerError, "Failed to start login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	WriteJSON(w, http.StatusOK, map[string]string{
		"login_url": h.authService.LoginURL(state),
	})
}

// CallbackHandler completes the OAuth flow and establishes a session.
// GET /auth/callback?state=...&code=...
func (h *AuthHandler) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		WriteError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	// State is single use
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	session, err := h.authService.HandleCallback(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Warn().Err(err).Msg("OAuth callback failed")
		WriteError(w, http.StatusUnauthorized, "Login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// LogoutHandler deletes the session and clears the cookie.
// POST /api/auth/logout
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to delete session")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	WriteSuccess(w, "Logged out")
}

// MeHandler reports the current session's user.
// GET /api/auth/me
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if !h.authService.Enabled() {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"auth_enabled":  false,
			"authenticated": true,
		})
		return
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"auth_enabled":  true,
			"authenticated": false,
		})
		return
	}

	session, err := h.authService.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"auth_enabled":  true,
			"authenticated": false,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"auth_enabled":  true,
		"authenticated": true,
		"email":         session.Email,
		"name":          session.Name,
		"picture":       session.Picture,
	})
}
