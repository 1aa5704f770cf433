package files

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for every failure mode — malformed,
// forged, and expired tokens are indistinguishable to callers so the response
// never reveals which check failed.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService mints and verifies bearer capability tokens, each scoped to
// exactly one storage path with bounded validity. Tokens are stateless: none
// are stored, none can be revoked, and replay within the TTL is accepted —
// the short default TTL is the mitigation.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenService creates a TokenService signing with the given secret.
// defaultTTL applies when IssueDefault is used.
func NewTokenService(secret string, defaultTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Issue returns a signed token granting read access to path for ttl.
func (t *TokenService) Issue(path string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   path,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// IssueDefault issues a token with the service's default TTL.
func (t *TokenService) IssueDefault(path string) (string, error) {
	return t.Issue(path, t.defaultTTL)
}

// Verify checks the token's signature and expiry and returns the storage path
// it grants access to. Every failure returns ErrInvalidToken.
func (t *TokenService) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(tok *jwt.Token) (interface{}, error) {
			if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
