package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("test_secret")

	token, err := m.CreateToken("user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a").CreateToken("user-42")
	require.NoError(t, err)

	_, err = NewManager("secret-b").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenGarbage(t *testing.T) {
	m := NewManager("test_secret")

	_, err := m.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	m := NewManager("test_secret")

	past := time.Now().Add(-time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		ID: "user-42",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Hour)),
			ExpiresAt: jwt.NewNumericDate(past),
		},
	})
	signed, err := token.SignedString(m.secret)
	require.NoError(t, err)

	_, err = m.ParseToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenMissingID(t *testing.T) {
	m := NewManager("test_secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(m.secret)
	require.NoError(t, err)

	_, err = m.ParseToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsUnsignedAlg(t *testing.T) {
	m := NewManager("test_secret")

	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims{ID: "user-42"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ParseToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
