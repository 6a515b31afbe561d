package validators

import (
	"errors"
	"strings"
)

var ErrInvalidToken = errors.New("invalid auth token")

// BearerToken extracts the token from an Authorization header value. Both
// "Bearer <token>" and a bare token are accepted; the scheme word alone is not.
func BearerToken(raw string) (string, error) {
	parts := strings.Fields(raw)
	switch {
	case len(parts) == 2 && strings.EqualFold(parts[0], "bearer"):
		return parts[1], nil
	case len(parts) == 1 && !strings.EqualFold(parts[0], "bearer"):
		return parts[0], nil
	}
	return "", ErrInvalidToken
}
