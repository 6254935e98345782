package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/vaultkeeper/internal/auth/http/dto"
	authUseCase "github.com/allisson/vaultkeeper/internal/auth/usecase"
	"github.com/allisson/vaultkeeper/internal/httputil"
)

// TokenHandler handles HTTP requests for token issuance and key discovery.
type TokenHandler struct {
	issuer authUseCase.CredentialIssuer
	logger *slog.Logger
}

// NewTokenHandler creates a new token handler.
func NewTokenHandler(issuer authUseCase.CredentialIssuer, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		issuer: issuer,
		logger: logger,
	}
}

// IssueTokenHandler exchanges email and password for a signed access token.
// POST /v1/token - No authentication required.
// Returns 201 Created. An unknown email and a wrong password both return 401.
func (h *TokenHandler) IssueTokenHandler(c *gin.Context) {
	var req dto.IssueTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	token, err := h.issuer.Login(c.Request.Context(), dto.ToCredentials(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToIssueTokenResponse(token))
}

// JWKSHandler publishes the public signing keys.
// GET /.well-known/jwks.json - No authentication required.
func (h *TokenHandler) JWKSHandler(c *gin.Context) {
	keySet, err := h.issuer.JWKS(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, keySet)
}
