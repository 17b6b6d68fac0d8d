package utils

import (
	"testing"
	"time"

	"medisync/config"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestExtractClaims(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	raw := signedToken(t, "test-secret", jwt.MapClaims{
		"sub":   "user-1",
		"role":  "doctor",
		"name":  "Dr. Indiana Jones",
		"email": "doc@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := ExtractClaims(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "doctor", claims.Role)
	assert.Equal(t, "Dr. Indiana Jones", claims.Name)
	assert.Equal(t, "doc@example.com", claims.Email)
}

func TestExtractClaimsRejectsWrongKey(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	raw := signedToken(t, "another-secret", jwt.MapClaims{"sub": "user-1"})
	_, err := ExtractClaims(raw)
	assert.Error(t, err)
}

func TestExtractClaimsFailsClosedWithoutSecret(t *testing.T) {
	config.AppConfig.JWTSecret = ""

	raw := signedToken(t, "anything", jwt.MapClaims{"sub": "user-1"})
	_, err := ExtractClaims(raw)
	assert.ErrorIs(t, err, ErrNoJWTSecret)
}
