package http

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

type AuthHandler struct {
	authService    ports.AuthService
	redirectURL    string
	cookieDomain   string
	cookieSameSite http.SameSite
	tokenTTL       time.Duration
}

func NewAuthHandler(authService ports.AuthService, redirectURL string, cookieDomain string, cookieSameSite http.SameSite, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		redirectURL:    redirectURL,
		cookieDomain:   cookieDomain,
		cookieSameSite: cookieSameSite,
		tokenTTL:       tokenTTL,
	}
}

// GoogleCallback receives the Google Identity Services form post, exchanges the
// credential for an access token cookie and redirects back to the client.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	credential := r.FormValue("credential")
	if credential == "" {
		writeError(w, http.StatusBadRequest, "missing credential")
		return
	}

	accessToken, identity, err := h.authService.LoginWithGoogle(r.Context(), credential)
	if err != nil {
		log.Warn().Err(err).Msg("google login rejected")
		writeError(w, http.StatusUnauthorized, "authentication failed")
		return
	}

	log.Info().Str("user_id", identity.UserID).Msg("user logged in")
	h.setAccessTokenCookie(w, accessToken)

	http.Redirect(w, r, h.redirectURL, http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: AccessTokenName, MaxAge: -1, Path: "/", Domain: h.cookieDomain})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) setAccessTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenName,
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.cookieSameSite,
		MaxAge:   int(h.tokenTTL.Seconds()),
	})
}
