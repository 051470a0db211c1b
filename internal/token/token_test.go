package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-services/internal/apperr"
)

var (
	secret = []byte("shared-secret")
	now    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	alice  = Identity{OwnerID: "owner-a", Email: "alice@example.com"}
)

func TestIssueAndVerify(t *testing.T) {
	raw, err := Issue(secret, alice, now, time.Hour)
	require.NoError(t, err)

	got, err := Verify(raw, secret, now.Add(59*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestVerify_Missing(t *testing.T) {
	_, err := Verify("", secret, now)
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.Equal(t, apperr.KindMissingToken, apperr.KindOf(err))
}

func TestVerify_Expired(t *testing.T) {
	raw, err := Issue(secret, alice, now, time.Hour)
	require.NoError(t, err)

	_, err = Verify(raw, secret, now.Add(2*time.Hour))
	assert.Equal(t, apperr.KindInvalidToken, apperr.KindOf(err))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	raw, err := Issue([]byte("other-secret"), alice, now, time.Hour)
	require.NoError(t, err)

	_, err = Verify(raw, secret, now)
	assert.Equal(t, apperr.KindInvalidToken, apperr.KindOf(err))
}

func TestVerify_TamperedPayload(t *testing.T) {
	raw, err := Issue(secret, alice, now, time.Hour)
	require.NoError(t, err)

	forged, err := Issue(secret, Identity{OwnerID: "owner-b", Email: "bob@example.com"}, now, time.Hour)
	require.NoError(t, err)

	// Splice bob's claims onto alice's signature.
	a := strings.Split(raw, ".")
	b := strings.Split(forged, ".")
	spliced := a[0] + "." + b[1] + "." + a[2]

	_, err = Verify(spliced, secret, now)
	assert.Equal(t, apperr.KindInvalidToken, apperr.KindOf(err))
}

func TestVerify_Malformed(t *testing.T) {
	_, err := Verify("not.a.jwt", secret, now)
	assert.Equal(t, apperr.KindInvalidToken, apperr.KindOf(err))
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		Email: alice.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   alice.OwnerID,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Verify(raw, secret, now)
	assert.Equal(t, apperr.KindInvalidToken, apperr.KindOf(err))
}

func TestVerify_RequiresExpiry(t *testing.T) {
	claims := Claims{Email: alice.Email, RegisteredClaims: jwt.RegisteredClaims{Subject: alice.OwnerID}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = Verify(raw, secret, now)
	assert.Equal(t, apperr.KindInvalidToken, apperr.KindOf(err))
}

func TestVerify_RequiresSubject(t *testing.T) {
	raw, err := Issue(secret, Identity{Email: alice.Email}, now, time.Hour)
	require.NoError(t, err)

	_, err = Verify(raw, secret, now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssue_EmptySecret(t *testing.T) {
	_, err := Issue(nil, alice, now, time.Hour)
	assert.Error(t, err)
}
