package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	SetKey("test-key")

	token, err := GenerateToken(42)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
}

func TestValidateRejects(t *testing.T) {
	SetKey("test-key")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:         1,
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()},
	})
	expiredStr, err := expired.SignedString([]byte("test-key"))
	require.NoError(t, err)

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1}).SignedString([]byte("other"))
	require.NoError(t, err)

	anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":    "not-a-token",
		"expired":    expiredStr,
		"wrong key":  otherKey,
		"no subject": anonymous,
	} {
		_, err := ValidateToken(token)
		assert.Error(t, err, name)
	}
}

func TestTokenFromQuery(t *testing.T) {
	assert.Equal(t, "abc", TokenFromQuery("token=abc&token=def"))
	assert.Equal(t, "a b", TokenFromQuery("x=1&token=a%20b"))
	assert.Empty(t, TokenFromQuery("x=1"))
	assert.Empty(t, TokenFromQuery(""))
}

func TestTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", TokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", TokenFromHeader("bearer abc"))
	assert.Empty(t, TokenFromHeader("Basic abc"))
	assert.Empty(t, TokenFromHeader("Bearer "))
}
