package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/BloggingApp/post-web/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrMissingRole    = errors.New("token has no role claim")
)

// DecodeClaims reads the claims of a token without verifying its signature.
// The result may only drive UI decisions; the posts API enforces authorization.
// A token without a string role is malformed; unknown roles are kept.
func DecodeClaims(token string) (*model.Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedToken, err.Error())
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, ErrMissingRole)
	}

	result := &model.Claims{Role: model.Role(role)}
	if email, ok := claims["email"].(string); ok {
		result.Email = email
	}
	if sub, err := claims.GetSubject(); err == nil {
		result.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}

	return result, nil
}

// SignClaims builds an HS256 token carrying the posts API claim set.
// Used by tests and local fakes of the posts API.
func SignClaims(claims model.Claims, secret []byte) (string, error) {
	mapClaims := jwt.MapClaims{
		"email": claims.Email,
		"sub":   claims.Subject,
		"iat":   claims.IssuedAt.Unix(),
	}
	if claims.Role != "" {
		mapClaims["role"] = string(claims.Role)
	}
	if !claims.ExpiresAt.IsZero() {
		mapClaims["exp"] = claims.ExpiresAt.Unix()
	}
	if claims.IssuedAt.IsZero() {
		mapClaims["iat"] = time.Now().Unix()
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString(secret)
}
