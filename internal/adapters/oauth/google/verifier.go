package google

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"

	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

type validateFunc func(ctx context.Context, token string, audience string) (*idtoken.Payload, error)

type GoogleVerifier struct {
	validate validateFunc
}

func NewVerifier() ports.TokenVerifier {
	return &GoogleVerifier{validate: idtoken.Validate}
}

// Verify checks the ID token signature and audience. Name and email are
// optional; the subject is the stable user id.
func (v *GoogleVerifier) Verify(ctx context.Context, token string, clientID string) (*ports.TokenPayload, error) {
	if clientID == "" {
		return nil, errors.New("google client id not configured")
	}

	payload, err := v.validate(ctx, token, clientID)
	if err != nil {
		return nil, fmt.Errorf("validate id token: %w", err)
	}
	if payload.Subject == "" {
		return nil, errors.New("subject not found in claims")
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)

	return &ports.TokenPayload{Subject: payload.Subject, Email: email, Name: name}, nil
}
