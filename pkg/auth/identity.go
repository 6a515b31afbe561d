package auth

import (
	"strings"

	"github.com/taeyang999/xposconnect-sub000/pkg/enums"
)

// Identity is the authenticated account as reported by the identity provider.
type Identity struct {
	Email        string
	PlatformRole string
	FirstName    string
	LastName     string
}

// IsPlatformAdmin reports whether the identity provider granted the admin role.
func (i *Identity) IsPlatformAdmin() bool {
	return i != nil && i.PlatformRole == enums.PlatformRoleAdmin
}

// NormalizeEmail lowercases and trims an email so lookups match regardless of casing.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IdentityFromClaims converts verified claims into an Identity. The email claim
// wins over the subject when both are present.
func IdentityFromClaims(claims *AccessTokenClaims) *Identity {
	if claims == nil {
		return nil
	}
	email := claims.Email
	if strings.TrimSpace(email) == "" {
		email = claims.Subject
	}
	email = NormalizeEmail(email)
	if email == "" {
		return nil
	}
	return &Identity{
		Email:        email,
		PlatformRole: strings.TrimSpace(claims.PlatformRole),
		FirstName:    strings.TrimSpace(claims.GivenName),
		LastName:     strings.TrimSpace(claims.FamilyName),
	}
}
