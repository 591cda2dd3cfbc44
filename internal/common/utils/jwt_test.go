// internal/common/utils/jwt_test.go

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	claims := &JWTClaims{
		UserID:    42,
		Email:     "ana@usp.br",
		Type:      "access",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		IssuedAt:  time.Now().Unix(),
		Issuer:    "uniroom",
		Subject:   "42",
		TokenID:   "token-1",
	}

	token, err := GenerateJWT(claims, "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := ValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, "ana@usp.br", parsed.Email)
	assert.Equal(t, "access", parsed.Type)
	assert.Equal(t, "token-1", parsed.TokenID)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	claims := &JWTClaims{
		UserID:    1,
		Type:      "access",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	token, err := GenerateJWT(claims, "secret-a")
	require.NoError(t, err)

	_, err = ValidateJWT(token, "secret-b")
	assert.Error(t, err)
}

func TestValidateJWTExpired(t *testing.T) {
	claims := &JWTClaims{
		UserID:    1,
		Type:      "access",
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
	}

	token, err := GenerateJWT(claims, "test-secret")
	require.NoError(t, err)

	_, err = ValidateJWT(token, "test-secret")
	assert.Error(t, err)
}

func TestValidateJWTGarbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token", "test-secret")
	assert.Error(t, err)
}
