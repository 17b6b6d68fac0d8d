package utils

import (
	"errors"

	"medisync/config"

	"github.com/golang-jwt/jwt"
)

// Token issuance lives in the account service; this backend only validates
// bearer tokens and extracts the identity claims it needs for role checks.

// ErrNoJWTSecret means JWT_SECRET is unset; every token is rejected until
// it is configured.
var ErrNoJWTSecret = errors.New("JWT secret is not configured")

func signingKey() ([]byte, error) {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		return nil, ErrNoJWTSecret
	}
	return []byte(secret), nil
}

// Claims carries the identity fields this backend consumes from a token.
type Claims struct {
	UserID string
	Role   string
	Name   string
	Email  string
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	key, err := signingKey()
	if err != nil {
		return nil, err
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
}

// ExtractClaims validates a token string and pulls out the subject, role,
// display name and email claims.
func ExtractClaims(tokenString string) (*Claims, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	role, _ := mapClaims["role"].(string)
	name, _ := mapClaims["name"].(string)
	email, _ := mapClaims["email"].(string)

	return &Claims{UserID: sub, Role: role, Name: name, Email: email}, nil
}
