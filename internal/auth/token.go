package auth // package auth provides password hashing, bearer tokens and role checks

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// DefaultTokenTTL is used when the caller does not specify a lifetime.
const DefaultTokenTTL = 30 * time.Minute

// Token validation failures. A token is either valid (signature checks
// out and it has not expired) or it maps to exactly one of these.
// There is no revoked state; logout is purely client side.
var (
	ErrTokenMalformed   = errors.New("token malformed")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// IssuedToken carries a signed JWT string together with its expiry so
// handlers can report both to the client.
type IssuedToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenService issues and validates HS256 bearer tokens. The signing
// secret is set once at construction and read concurrently without
// locking.
type TokenService struct {
	secret     []byte
	defaultTTL time.Duration
}

// NewTokenService builds a TokenService. A non-positive defaultTTL
// falls back to DefaultTokenTTL.
func NewTokenService(secret string, defaultTTL time.Duration) *TokenService {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), defaultTTL: defaultTTL}
}

// Issue builds and signs an HS256 JWT for the given subject (the
// identity's email). The JWT includes standard claims: subject (sub),
// expiration (exp) and issued at (iat). A non-positive ttl uses the
// service default.
func (s *TokenService) Issue(subject string, ttl time.Duration) (IssuedToken, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: signed, Exp: exp}, nil
}

// Validate verifies the signature and claims of a raw token string and
// returns its subject. Failures are collapsed into the three sentinel
// errors above; no clock-skew leeway is granted.
func (s *TokenService) Validate(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrInvalidSignature
		default:
			return "", ErrTokenMalformed
		}
	}
	if !tok.Valid {
		return "", ErrTokenMalformed
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenMalformed
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrTokenMalformed
	}
	return sub, nil
}
