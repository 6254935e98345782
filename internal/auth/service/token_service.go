package service

import (
	"crypto/ed25519"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/vaultkeeper/internal/auth/domain"
	apperrors "github.com/allisson/vaultkeeper/internal/errors"
	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	Nonce string `json:"nonce"`
}

type jwtTokenService struct{}

// NewTokenService creates a TokenService signing with EdDSA (Ed25519).
func NewTokenService() TokenService {
	return &jwtTokenService{}
}

// Sign encodes claims as a JWT signed with privateKey. The kid header carries claims.KeyID.
func (s *jwtTokenService) Sign(claims authDomain.Claims, privateKey ed25519.PrivateKey) (string, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return "", signingKeyDomain.ErrInvalidKeyMaterial
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			Issuer:    claims.Issuer,
			Audience:  jwt.ClaimStrings(claims.Audience),
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		Nonce: claims.Nonce,
	})
	token.Header["kid"] = claims.KeyID.String()

	signed, err := token.SignedString(privateKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// Parse verifies the signature with the key named by the kid header and enforces
// algorithm, issuer, audience and expiry. Errors returned by resolve stay in the
// chain so callers can tell a store outage from a bad token.
func (s *jwtTokenService) Parse(
	token string,
	resolve PublicKeyResolver,
	opts ParseOptions,
) (*authDomain.Claims, error) {
	var keyID uuid.UUID

	keyfunc := func(t *jwt.Token) (any, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("missing kid header")
		}
		id, err := uuid.Parse(kid)
		if err != nil {
			return nil, fmt.Errorf("malformed kid header: %w", err)
		}
		keyID = id
		return resolve(id)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithIssuer(opts.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if opts.Now != nil {
		parserOpts = append(parserOpts, jwt.WithTimeFunc(opts.Now))
	}

	var claims tokenClaims
	if _, err := jwt.ParseWithClaims(token, &claims, keyfunc, parserOpts...); err != nil {
		return nil, err
	}

	if !audienceMatches(claims.Audience, opts.Audience) {
		return nil, fmt.Errorf("token audience %v not accepted", []string(claims.Audience))
	}

	return &authDomain.Claims{
		Subject:   claims.Subject,
		Issuer:    claims.Issuer,
		Audience:  claims.Audience,
		IssuedAt:  numericTime(claims.IssuedAt),
		ExpiresAt: numericTime(claims.ExpiresAt),
		Nonce:     claims.Nonce,
		KeyID:     keyID,
	}, nil
}

// audienceMatches reports whether any token audience is accepted. An empty
// accepted list disables the check.
func audienceMatches(tokenAudience, accepted []string) bool {
	if len(accepted) == 0 {
		return true
	}
	for _, aud := range tokenAudience {
		if slices.Contains(accepted, aud) {
			return true
		}
	}
	return false
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.UTC()
}
