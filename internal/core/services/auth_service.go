package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/vncsmyrnk/collective-pool/internal/core/domain"
	"github.com/vncsmyrnk/collective-pool/internal/core/ports"
)

const DefaultAccessTokenTTL = 24 * time.Hour

type AuthService struct {
	googleTokenVerifier ports.TokenVerifier
	jwtSecret           []byte
	googleClientID      string
	clock               ports.Clock
	ttl                 time.Duration
}

type accessClaims struct {
	Name   string `json:"name"`
	Wallet string `json:"wallet,omitempty"`
	jwt.RegisteredClaims
}

func NewAuthService(googleTokenVerifier ports.TokenVerifier, jwtSecret, googleClientID string, clock ports.Clock, ttl time.Duration) *AuthService {
	if jwtSecret == "" {
		log.Warn().Msg("JWT secret not set, access tokens cannot be issued")
	}
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	return &AuthService{
		googleTokenVerifier: googleTokenVerifier,
		jwtSecret:           []byte(jwtSecret),
		googleClientID:      googleClientID,
		clock:               clock,
		ttl:                 ttl,
	}
}

// LoginWithGoogle verifies a Google credential and exchanges it for an access
// token carrying the collaborator identity.
func (s *AuthService) LoginWithGoogle(ctx context.Context, googleToken string) (string, *domain.Identity, error) {
	payload, err := s.googleTokenVerifier.Verify(ctx, googleToken, s.googleClientID)
	if err != nil {
		return "", nil, fmt.Errorf("invalid google token: %w: %w", domain.ErrUnauthorized, err)
	}

	identity := domain.Identity{
		UserID:      "google_" + payload.Subject,
		DisplayName: domain.DisplayNameFor(payload.Name, payload.Email),
	}

	token, err := s.IssueAccessToken(identity)
	if err != nil {
		return "", nil, err
	}

	return token, &identity, nil
}

func (s *AuthService) IssueAccessToken(identity domain.Identity) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", errors.New("failed to generate access token: empty secret")
	}
	if err := identity.Validate(); err != nil {
		return "", err
	}

	now := s.clock.Now()
	claims := accessClaims{
		Name:   identity.DisplayName,
		Wallet: identity.WalletAddress,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) ParseAccessToken(tokenString string) (*domain.Identity, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	identity := &domain.Identity{
		UserID:        claims.Subject,
		DisplayName:   claims.Name,
		WalletAddress: claims.Wallet,
	}
	if err := identity.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	return identity, nil
}
