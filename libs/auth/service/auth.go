package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const accessTokenType = "access"

// AccessClaims is the payload of an access token
type AccessClaims struct {
	UserID int    `json:"user_id"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// TokenGenerator handles JWT access token generation and validation
//
// Tokens are issued by the identity provider in front of the platform. The
// services only validate them, GenerateAccessToken exists for tooling and tests.
type TokenGenerator struct {
	secret            string
	accessTokenExpiry time.Duration
	parser            *jwt.Parser
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:            secret,
		accessTokenExpiry: accessExpiry,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// GenerateAccessToken creates an HS256 access token for userID
func (tg *TokenGenerator) GenerateAccessToken(userID int) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID,
		Type:   accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(tg.accessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns the userID it was issued for
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (int, error) {
	claims := &AccessClaims{}
	token, err := tg.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tg.secret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return 0, errors.New("token is invalid")
	}

	if claims.Type != accessTokenType {
		return 0, errors.New("token is not an access token")
	}
	if claims.UserID <= 0 {
		return 0, errors.New("user_id not found in token")
	}

	return claims.UserID, nil
}
