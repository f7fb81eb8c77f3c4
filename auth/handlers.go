package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"heritage/utils"

	"github.com/julienschmidt/httprouter"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler handles POST /api/auth/login.
func (m *Manager) LoginHandler(timeout time.Duration) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var input loginRequest
		if err := utils.DecodeJSON(r, &input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		input.Email = strings.TrimSpace(input.Email)
		if input.Email == "" || input.Password == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		token, s, err := m.Login(ctx, input.Email, input.Password)
		if err != nil {
			m.log.Warn().Err(err).Str("email", input.Email).Msg("admin login failed")
			utils.RespondWithBackendError(w, err, "Login failed. Please try again.")
			return
		}

		utils.RespondWithJSON(w, http.StatusOK, map[string]any{
			"token":     token,
			"email":     s.Email,
			"expiresAt": s.ExpiresAt,
		})
	}
}

// LogoutHandler handles POST /api/auth/logout.
func (m *Manager) LogoutHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token, ok := BearerToken(r.Header.Get("Authorization"))
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "No token provided")
		return
	}
	if err := m.Logout(r.Context(), token); err != nil {
		m.log.Error().Err(err).Msg("logout failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to invalidate session")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out successfully"})
}

// SessionHandler handles GET /api/auth/session behind Authenticate.
func SessionHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := SessionFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"email":     s.Email,
		"expiresAt": s.ExpiresAt,
	})
}
