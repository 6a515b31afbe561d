package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/pkg/config"
	pkgerrors "github.com/taeyang999/xposconnect-sub000/pkg/errors"
)

var signingMethod = jwt.SigningMethodHS256

// MintAccessToken signs a token shaped like the ones the identity provider
// issues. The API never mints tokens for users; tooling and tests do.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	switch {
	case cfg.Secret == "":
		return "", errors.New("jwt secret is required")
	case cfg.Issuer == "":
		return "", errors.New("jwt issuer is required")
	case cfg.ExpirationMinutes <= 0:
		return "", errors.New("jwt expiration minutes must be positive")
	}
	email := NormalizeEmail(payload.Email)
	if email == "" {
		return "", errors.New("email is required")
	}
	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	registered := jwt.RegisteredClaims{
		Subject:   email,
		Issuer:    cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)),
		ID:        jti,
	}
	if cfg.Audience != "" {
		registered.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(signingMethod, AccessTokenClaims{
		Email:            email,
		PlatformRole:     payload.PlatformRole,
		GivenName:        payload.FirstName,
		FamilyName:       payload.LastName,
		RegisteredClaims: registered,
	}).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies signature, issuer, expiry and, when configured,
// audience. Tokens without an exp claim are rejected.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Duration(cfg.LeewaySeconds) * time.Second),
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &AccessTokenClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}, opts...); err != nil {
		return nil, err
	}
	return claims, nil
}

// Authenticate turns a bearer token into an Identity. Every failure is an
// UNAUTHORIZED error whose reason detail tells expired tokens apart from the rest.
func Authenticate(cfg config.JWTConfig, tokenString string) (*Identity, error) {
	claims, err := ParseAccessToken(cfg, tokenString)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "expired"
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token").
			WithDetails(map[string]string{"reason": reason})
	}
	identity := IdentityFromClaims(claims)
	if identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token carries no email").
			WithDetails(map[string]string{"reason": "no_email"})
	}
	return identity, nil
}
