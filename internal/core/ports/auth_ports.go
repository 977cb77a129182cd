package ports

import (
	"context"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
)

type TokenPayload struct {
	Subject string
	Email   string
	Name    string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string, clientID string) (*TokenPayload, error)
}

type AuthService interface {
	// LoginWithGoogle verifies a Google credential and returns a signed access token.
	LoginWithGoogle(ctx context.Context, googleToken string) (string, *domain.Identity, error)
	IssueAccessToken(identity domain.Identity) (string, error)
	ParseAccessToken(token string) (*domain.Identity, error)
}
