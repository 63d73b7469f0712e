// Package auth verifies bearer tokens issued by an external identity
// provider and checks the permissions they carry.
//
// A Validator fetches the provider's JSON Web Key Set, selects the key named
// by the token's kid header and verifies signature, expiry, audience and
// issuer. CheckPermission then asserts that a named permission is present in
// the token's "permissions" claim. Failures are reported as *AuthError values
// that carry the HTTP status they map to.
package auth
