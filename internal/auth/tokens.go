package auth

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the session token payload: {"user":{"id":...}} plus registered claims.
type Claims struct {
	User ClaimsUser `json:"user"`
	jwtlib.RegisteredClaims
}

type ClaimsUser struct {
	ID string `json:"id"`
}

// Tokens issues and verifies HS256 session tokens with a shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of t that reads the current time from now.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	c := *t
	c.now = now
	return &c
}

// Issue signs a token for accountID that expires after the configured TTL.
func (t *Tokens) Issue(accountID string) (string, error) {
	if len(t.secret) == 0 || t.ttl <= 0 {
		return "", ErrTokenInvalid
	}

	now := t.now().UTC()
	claims := Claims{
		User: ClaimsUser{ID: accountID},
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature, algorithm and expiry and returns the account id.
func (t *Tokens) Verify(tokenString string) (string, error) {
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(t.now),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(*jwtlib.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if tok == nil || !tok.Valid || c.User.ID == "" {
		return "", ErrTokenInvalid
	}

	return c.User.ID, nil
}
