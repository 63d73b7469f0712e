package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// ErrJWKSFetchFailed is returned when the key set cannot be retrieved
var ErrJWKSFetchFailed = errors.New("failed to fetch JWKS")

// JWKS represents the JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a JSON Web Key
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Config holds configuration for Validator
type Config struct {
	JWKSURL    string
	Issuer     string
	Audience   string
	Algorithms []string
	// CacheTTL bounds how long fetched keys are reused. Zero selects one hour,
	// a negative value fetches the key set on every verification.
	CacheTTL time.Duration
	// RefreshCooldown is the minimum gap between key set fetches triggered by
	// cache misses. Zero selects ten seconds, a negative value disables it.
	RefreshCooldown time.Duration
	HTTPTimeout     time.Duration
	HTTPClient      *http.Client
}

// Validator verifies RS256-family bearer tokens against a remote key set
type Validator struct {
	jwksURL    string
	issuer     string
	audience   string
	algorithms []string
	cacheTTL   time.Duration
	cooldown   time.Duration
	timeout    time.Duration
	httpClient *http.Client

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	fetchedAt   time.Time
	attemptedAt time.Time
	sf          singleflight.Group
}

// NewValidator creates a new token validator
func NewValidator(cfg Config) *Validator {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.RefreshCooldown == 0 {
		cfg.RefreshCooldown = 10 * time.Second
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = []string{jwt.SigningMethodRS256.Alg()}
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	return &Validator{
		jwksURL:    cfg.JWKSURL,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		algorithms: cfg.Algorithms,
		cacheTTL:   cfg.CacheTTL,
		cooldown:   cfg.RefreshCooldown,
		timeout:    cfg.HTTPTimeout,
		httpClient: client,
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// ValidateToken verifies signature, expiry, audience and issuer and returns
// the decoded claims. Every failure is an *AuthError.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	unverified, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, wrap(ErrInvalidToken, err)
	}
	kid, ok := unverified.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, ErrMissingKeyID
	}

	publicKey, err := v.getPublicKey(ctx, kid)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return nil, authErr
		}
		return nil, wrap(ErrKeyNotFound, err)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.algorithms),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	token, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return publicKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, wrap(ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, wrap(ErrInvalidClaims, err)
		case errors.Is(err, jwt.ErrTokenRequiredClaimMissing) && claims.ExpiresAt != nil:
			// exp is present, so the missing claim is aud or iss
			return nil, wrap(ErrInvalidClaims, err)
		default:
			return nil, wrap(ErrInvalidToken, err)
		}
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// FetchJWKS downloads the key set
func (v *Validator) FetchJWKS(ctx context.Context) (*JWKS, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrJWKSFetchFailed, resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	return &jwks, nil
}

// getPublicKey retrieves the public key for a given kid, refreshing the
// cached set when it is stale or does not know the kid. A cached key outlives
// a failed refresh.
func (v *Validator) getPublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, exists := v.keys[kid]
	fresh := v.cacheTTL > 0 && time.Since(v.fetchedAt) < v.cacheTTL
	coolingDown := v.cacheTTL > 0 && v.cooldown > 0 &&
		!v.attemptedAt.IsZero() && time.Since(v.attemptedAt) < v.cooldown
	v.mu.RUnlock()

	switch {
	case exists && fresh:
		return key, nil
	case coolingDown:
		if exists {
			return key, nil
		}
		return nil, ErrKeyNotFound
	}

	err := v.sharedRefresh(ctx)

	v.mu.RLock()
	key, exists = v.keys[kid]
	v.mu.RUnlock()

	if exists {
		return key, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, ErrKeyNotFound
}

// sharedRefresh joins the in-flight refresh or starts one. The fetch is
// detached from ctx so one caller going away does not fail the others; each
// caller still stops waiting when its own ctx ends.
func (v *Validator) sharedRefresh(ctx context.Context) error {
	ch := v.sf.DoChan("refresh", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.timeout)
		defer cancel()
		return nil, v.refresh(fetchCtx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// refresh replaces the cached keys with the current remote set. The cached
// keys are kept when the fetch fails.
func (v *Validator) refresh(ctx context.Context) error {
	jwks, err := v.FetchJWKS(ctx)
	if err != nil {
		v.mu.Lock()
		v.attemptedAt = time.Now()
		v.mu.Unlock()
		return err
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for i := range jwks.Keys {
		jwk := &jwks.Keys[i]
		if jwk.Kty != "RSA" || jwk.Kid == "" {
			continue
		}
		publicKey, err := jwkToRSAPublicKey(jwk)
		if err != nil {
			continue
		}
		keys[jwk.Kid] = publicKey
	}

	now := time.Now()
	v.mu.Lock()
	v.keys = keys
	v.fetchedAt = now
	v.attemptedAt = now
	v.mu.Unlock()
	return nil
}

// jwkToRSAPublicKey converts a JWK to an RSA public key
func jwkToRSAPublicKey(jwk *JWK) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}
	if len(nBytes) == 0 || len(eBytes) == 0 {
		return nil, errors.New("empty modulus or exponent")
	}
	if len(eBytes) > 4 {
		return nil, errors.New("exponent too large")
	}

	var e int
	for _, b := range eBytes {
		e = e*256 + int(b)
	}
	if e < 2 {
		return nil, fmt.Errorf("invalid exponent %d", e)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
