package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/notekeep/notekeep/internal/model"
)

// Session token errors. Every verification failure wraps ErrUnauthorized.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenMissing = fmt.Errorf("%w: token missing", ErrUnauthorized)
	ErrTokenInvalid = fmt.Errorf("%w: token invalid", ErrUnauthorized)
)

// MinSecretLength is the shortest HS256 signing secret accepted.
const MinSecretLength = 32

// SessionIssuer signs and verifies HS256 session tokens that carry the
// user's public identity.
type SessionIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionIssuer creates a session issuer.
func NewSessionIssuer(secret, issuer string, ttl time.Duration) (*SessionIssuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &SessionIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns how long issued tokens stay valid.
func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

type sessionClaims struct {
	jwt.RegisteredClaims
	User sessionUser `json:"user"`
}

type sessionUser struct {
	ID        string    `json:"_id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedOn time.Time `json:"createdOn"`
}

// Issue creates a signed token for the identity, expiring after the TTL.
func (s *SessionIssuer) Issue(identity *model.Identity) (string, error) {
	if identity == nil || identity.ID == "" {
		return "", errors.New("identity is required")
	}

	now := s.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		User: sessionUser{
			ID:        identity.ID,
			FullName:  identity.FullName,
			Email:     identity.Email,
			CreatedOn: identity.CreatedOn,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature, issuer and expiry and returns the
// identity it carries.
func (s *SessionIssuer) Verify(token string) (*model.Identity, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.Subject != claims.User.ID {
		return nil, ErrTokenInvalid
	}

	return &model.Identity{
		ID:        claims.User.ID,
		FullName:  claims.User.FullName,
		Email:     claims.User.Email,
		CreatedOn: claims.User.CreatedOn,
	}, nil
}
