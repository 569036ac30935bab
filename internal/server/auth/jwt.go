// Package auth issues and verifies PhoneAuth bearer tokens and hashes
// passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/phoneauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the JWT payload: the registered claims (jti, sub, iat, exp) plus
// the owning user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// IssuedToken is a freshly signed token together with the claims the
// revocation store needs.
type IssuedToken struct {
	Token     string
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// TokenIssuer signs and parses HS256 tokens with a fixed lifetime.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// TTL is the lifetime given to every issued token.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a new token for userID. Every token gets its own jti, so two
// tokens issued within the same second still differ.
func (i *TokenIssuer) Issue(userID string) (*IssuedToken, error) {
	now := i.now()
	id := uuid.NewString()
	expiresAt := now.Add(i.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{
		Token:     tokenString,
		ID:        id,
		UserID:    userID,
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

// Parse verifies signature and expiry. It returns common.ErrTokenExpired for
// a well-signed but expired token and common.ErrInvalidToken for anything
// else that fails.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.ID == "" || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
