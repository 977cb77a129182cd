package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

type contextKey string

const (
	IdentityKey     contextKey = "identity"
	AccessTokenName            = "access_token"
)

// identityFromRequest reads the access token from the cookie or a bearer header.
func identityFromRequest(tokens ports.AuthService, r *http.Request) (*domain.Identity, bool) {
	token := ""
	if cookie, err := r.Cookie(AccessTokenName); err == nil {
		token = cookie.Value
	}
	if h := r.Header.Get("Authorization"); token == "" && strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	}
	if token == "" {
		return nil, false
	}

	identity, err := tokens.ParseAccessToken(token)
	if err != nil {
		return nil, false
	}
	return identity, true
}

// RequireIdentity rejects requests without a valid access token.
func RequireIdentity(tokens ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityFromRequest(tokens, r)
			if !ok {
				writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), IdentityKey, *identity)))
		})
	}
}

// OptionalIdentity attaches the caller identity when a valid token is present.
func OptionalIdentity(tokens ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity, ok := identityFromRequest(tokens, r); ok {
				r = r.WithContext(context.WithValue(r.Context(), IdentityKey, *identity))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(domain.Identity)
	return identity, ok
}
