package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPermission(t *testing.T) {
	tests := []struct {
		name       string
		permission string
		claims     *Claims
		wantErr    *AuthError
	}{
		{
			name:       "permission granted",
			permission: "create:actor",
			claims:     &Claims{Permissions: []string{"get:actors", "create:actor"}},
		},
		{
			name:       "empty permission only needs a token",
			permission: "",
			claims:     &Claims{},
		},
		{
			name:       "permission missing from list",
			permission: "delete:movie",
			claims:     &Claims{Permissions: []string{"create:actor"}},
			wantErr:    ErrPermissionNotFound,
		},
		{
			name:       "empty list",
			permission: "delete:movie",
			claims:     &Claims{Permissions: []string{}},
			wantErr:    ErrPermissionNotFound,
		},
		{
			name:       "no permissions claim",
			permission: "patch:movie",
			claims:     &Claims{},
			wantErr:    ErrPermissionsMissing,
		},
		{
			name:       "nil claims",
			permission: "patch:movie",
			wantErr:    ErrPermissionsMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPermission(tt.permission, tt.claims)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, http.StatusForbidden, authErr.StatusCode)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr *AuthError
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "case insensitive scheme", header: "bearer abc", want: "abc"},
		{name: "extra whitespace", header: "  Bearer   abc  ", want: "abc"},
		{name: "missing", header: "", wantErr: ErrHeaderMissing},
		{name: "single part", header: "abc.def.ghi", wantErr: ErrHeaderMalformed},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrHeaderMalformed},
		{name: "too many parts", header: "Bearer abc def", wantErr: ErrHeaderMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := BearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

func TestAuthError(t *testing.T) {
	cause := assert.AnError
	err := wrap(ErrTokenExpired, cause)

	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInvalidClaims)
	assert.Contains(t, err.Error(), "token_expired")
	assert.Equal(t, "token_expired: Token expired.", ErrTokenExpired.Error())
}
