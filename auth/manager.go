package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const issuer = "heritage-storefront"

// Claims identify an admin session. The token alone grants nothing; the
// session it names must still exist server side.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator checks admin credentials and returns the backend token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type Manager struct {
	repo   Repository
	authn  Authenticator
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

func NewManager(repo Repository, authn Authenticator, secret []byte, ttl time.Duration, log zerolog.Logger) *Manager {
	return &Manager{repo: repo, authn: authn, secret: secret, ttl: ttl, now: time.Now, log: log}
}

// Login verifies the credentials with the backend, opens a session and
// returns a signed token for it.
func (m *Manager) Login(ctx context.Context, email, password string) (string, Session, error) {
	backendToken, err := m.authn.Login(ctx, email, password)
	if err != nil {
		return "", Session{}, err
	}

	now := m.now()
	s := Session{
		ID:           uuid.NewString(),
		Email:        email,
		BackendToken: backendToken,
		ExpiresAt:    now.Add(m.ttl),
	}
	if err := m.repo.Save(ctx, s); err != nil {
		return "", Session{}, fmt.Errorf("save session: %w", err)
	}

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   email,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign token: %w", err)
	}

	m.log.Info().Str("session_id", s.ID).Str("email", email).Msg("admin logged in")
	return token, s, nil
}

// Validate checks signature, expiry and that the session is still open.
// Every failure wraps ErrInvalidToken.
func (m *Manager) Validate(ctx context.Context, token string) (Session, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	s, err := m.repo.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Session{}, fmt.Errorf("%w: session closed", ErrInvalidToken)
		}
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	if s.Expired(m.now()) {
		return Session{}, fmt.Errorf("%w: session expired", ErrInvalidToken)
	}
	return s, nil
}

// Logout closes the session the token names. Closing an already closed
// session is not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	s, err := m.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil
		}
		return err
	}
	if err := m.repo.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.log.Info().Str("session_id", s.ID).Msg("admin logged out")
	return nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
