package auth

import (
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded claim set of a verified access token.
// Permissions is nil when the token carries no "permissions" claim at all.
type Claims struct {
	jwt.RegisteredClaims
	Scope       string   `json:"scope,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// HasPermission reports whether the permission is granted by the claim set
func (c *Claims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// CheckPermission asserts that permission is present in the claim set.
// An empty permission only requires a verified token.
func CheckPermission(permission string, claims *Claims) error {
	if permission == "" {
		return nil
	}
	if claims == nil || claims.Permissions == nil {
		return ErrPermissionsMissing
	}
	if !claims.HasPermission(permission) {
		return ErrPermissionNotFound
	}
	return nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrHeaderMissing
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrHeaderMalformed
	}
	return parts[1], nil
}
