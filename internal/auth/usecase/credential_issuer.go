package usecase

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/vaultkeeper/internal/auth/domain"
	authService "github.com/allisson/vaultkeeper/internal/auth/service"
	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
	apperrors "github.com/allisson/vaultkeeper/internal/errors"
	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
	signingKeyUseCase "github.com/allisson/vaultkeeper/internal/signingkey/usecase"
	userDomain "github.com/allisson/vaultkeeper/internal/user/domain"
	userService "github.com/allisson/vaultkeeper/internal/user/service"
)

// Config holds the claim settings of issued tokens.
type Config struct {
	Issuer   string
	Audience []string
	TokenTTL time.Duration
}

// Option configures a credential issuer.
type Option func(*credentialIssuer)

// WithClock overrides the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *credentialIssuer) {
		c.now = now
	}
}

type credentialIssuer struct {
	cfg            Config
	users          UserLookup
	passwordHasher userService.PasswordHasher
	keys           signingKeyUseCase.KeyLifecycleUseCase
	nonceService   authService.NonceService
	tokenService   authService.TokenService
	now            func() time.Time
}

// NewCredentialIssuer creates a CredentialIssuer.
func NewCredentialIssuer(
	cfg Config,
	users UserLookup,
	passwordHasher userService.PasswordHasher,
	keys signingKeyUseCase.KeyLifecycleUseCase,
	nonceService authService.NonceService,
	tokenService authService.TokenService,
	opts ...Option,
) CredentialIssuer {
	c := &credentialIssuer{
		cfg:            cfg,
		users:          users,
		passwordHasher: passwordHasher,
		keys:           keys,
		nonceService:   nonceService,
		tokenService:   tokenService,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *credentialIssuer) Authorize(
	ctx context.Context,
	user *userDomain.User,
	creds authDomain.Credentials,
) (*authDomain.IssuedToken, error) {
	// An unknown account goes through Verify with an empty hash and ends in
	// the same error as a wrong password.
	var passwordHash string
	if user != nil {
		passwordHash = user.PasswordHash
	}
	if !c.passwordHasher.Verify(creds.Password, passwordHash) || user == nil {
		return nil, authDomain.ErrInvalidCredentials
	}

	material, err := c.keys.GetOrCreateActive(ctx)
	if err != nil {
		return nil, apperrors.Join(authDomain.ErrTokenIssuanceFailed, err)
	}
	defer cryptoDomain.Zero(material.PrivateKey)

	issuedAt := c.now().UTC().Truncate(time.Second)
	claims := authDomain.Claims{
		Subject:   user.Email,
		Issuer:    c.cfg.Issuer,
		Audience:  c.cfg.Audience,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(c.cfg.TokenTTL),
		Nonce:     c.nonceService.Compute(user.Email),
		KeyID:     material.ID,
	}

	signed, err := c.tokenService.Sign(claims, material.PrivateKey)
	if err != nil {
		return nil, apperrors.Join(authDomain.ErrTokenIssuanceFailed, err)
	}

	return &authDomain.IssuedToken{
		AccessToken: signed,
		TokenType:   authDomain.TokenType,
		ExpiresAt:   claims.ExpiresAt,
		KeyID:       material.ID,
	}, nil
}

func (c *credentialIssuer) Login(
	ctx context.Context,
	creds authDomain.Credentials,
) (*authDomain.IssuedToken, error) {
	user, err := c.users.GetUserByEmail(ctx, creds.Email)
	if err != nil && !apperrors.Is(err, userDomain.ErrUserNotFound) {
		return nil, err
	}
	// user is nil when not found; Authorize still spends a verification on it.
	return c.Authorize(ctx, user, creds)
}

func (c *credentialIssuer) Authenticate(ctx context.Context, token string) (*authDomain.Claims, error) {
	resolve := func(keyID uuid.UUID) (ed25519.PublicKey, error) {
		publicKey, err := c.keys.Get(ctx, keyID)
		if err != nil {
			return nil, err
		}
		return publicKey.Key, nil
	}

	claims, err := c.tokenService.Parse(token, resolve, authService.ParseOptions{
		Issuer:   c.cfg.Issuer,
		Audience: c.cfg.Audience,
		Now:      c.now,
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUnavailable) {
			return nil, err
		}
		return nil, apperrors.Join(authDomain.ErrInvalidToken, err)
	}

	if !c.nonceService.Verify(claims.Subject, claims.Nonce) {
		return nil, authDomain.ErrInvalidToken
	}

	return claims, nil
}

func (c *credentialIssuer) JWKS(ctx context.Context) (*authDomain.KeySet, error) {
	publicKeys, err := c.keys.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	keySet := &authDomain.KeySet{Keys: make([]authDomain.JWK, 0, len(publicKeys))}
	for _, publicKey := range publicKeys {
		keySet.Keys = append(keySet.Keys, authDomain.JWK{
			Kty: "OKP",
			Crv: "Ed25519",
			X:   base64.RawURLEncoding.EncodeToString(publicKey.Key),
			Kid: publicKey.ID.String(),
			Alg: signingKeyDomain.Algorithm,
			Use: "sig",
		})
	}
	return keySet, nil
}
