package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Email        string
	PlatformRole string
	FirstName    string
	LastName     string
	JTI          string
}

// AccessTokenClaims represents the identity-provider access token accepted by the API.
// The subject carries the account email.
type AccessTokenClaims struct {
	Email        string `json:"email"`
	PlatformRole string `json:"role,omitempty"`
	GivenName    string `json:"given_name,omitempty"`
	FamilyName   string `json:"family_name,omitempty"`
	jwt.RegisteredClaims
}
