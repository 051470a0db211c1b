// Package token signs and verifies identity tokens shared by the user and todo
// services. Trust rests only on the HS256 secret both services are given; there
// is no server-side session, so verification needs nothing but the secret and
// the current time.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todo-services/internal/apperr"
)

var (
	ErrMissingToken = apperr.New(apperr.KindMissingToken, "Access token required")
	ErrInvalidToken = apperr.New(apperr.KindInvalidToken, "Invalid or expired token")
)

// Identity is the verified caller.
type Identity struct {
	OwnerID string
	Email   string
}

// Claims embeds the registered claims; Subject carries the owner id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs a token for id valid from now for ttl.
func Issue(secret []byte, id Identity, now time.Time, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("token: empty signing secret")
	}
	claims := Claims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.OwnerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify checks raw against secret at time now and returns the embedded identity.
func Verify(raw string, secret []byte, now time.Time) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrMissingToken
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.KindInvalidToken, ErrInvalidToken.Message, err)
	}
	if !tok.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{OwnerID: claims.Subject, Email: claims.Email}, nil
}
