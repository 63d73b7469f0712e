package auth

import (
	"fmt"
	"net/http"
)

// Error codes carried by AuthError.
const (
	CodeAuthorizationHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader              = "invalid_header"
	CodeTokenExpired               = "token_expired"
	CodeInvalidClaims              = "invalid_claims"
	CodeUnauthorized               = "unauthorized"
)

// AuthError is a standardized way to communicate auth failure modes.
// StatusCode is the HTTP status the failure maps to.
type AuthError struct {
	Code        string
	Description string
	StatusCode  int
	Err         error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Unwrap implements errors.Unwrap
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches another AuthError describing the same failure
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.StatusCode == t.StatusCode && e.Description == t.Description
}

func newAuthError(code, description string, status int, err error) *AuthError {
	return &AuthError{Code: code, Description: description, StatusCode: status, Err: err}
}

var (
	// ErrHeaderMissing is returned when no Authorization header is sent
	ErrHeaderMissing = newAuthError(CodeAuthorizationHeaderMissing, "Authorization header is expected.", http.StatusUnauthorized, nil)

	// ErrHeaderMalformed is returned when the header is not "Bearer <token>"
	ErrHeaderMalformed = newAuthError(CodeInvalidHeader, "Authorization header must be a bearer token.", http.StatusUnauthorized, nil)

	// ErrMissingKeyID is returned when the token header has no kid
	ErrMissingKeyID = newAuthError(CodeInvalidHeader, "Authorization malformed.", http.StatusUnauthorized, nil)

	// ErrKeyNotFound is returned when no key in the set matches the token kid
	ErrKeyNotFound = newAuthError(CodeInvalidHeader, "Unable to find the appropriate key.", http.StatusUnauthorized, nil)

	// ErrTokenExpired is returned when the exp claim is in the past
	ErrTokenExpired = newAuthError(CodeTokenExpired, "Token expired.", http.StatusUnauthorized, nil)

	// ErrInvalidClaims is returned on audience or issuer mismatch
	ErrInvalidClaims = newAuthError(CodeInvalidClaims, "Incorrect claims. Please, check the audience and issuer.", http.StatusUnauthorized, nil)

	// ErrInvalidToken is returned when the token cannot be parsed or verified
	ErrInvalidToken = newAuthError(CodeInvalidHeader, "Unable to parse authentication token.", http.StatusUnauthorized, nil)

	// ErrPermissionsMissing is returned when the claim set has no permissions claim
	ErrPermissionsMissing = newAuthError(CodeInvalidClaims, "Permissions not included in JWT.", http.StatusForbidden, nil)

	// ErrPermissionNotFound is returned when the required permission is absent
	ErrPermissionNotFound = newAuthError(CodeUnauthorized, "Permission not found.", http.StatusForbidden, nil)
)

// wrap returns a copy of a sentinel carrying the underlying cause
func wrap(sentinel *AuthError, err error) *AuthError {
	return newAuthError(sentinel.Code, sentinel.Description, sentinel.StatusCode, err)
}
