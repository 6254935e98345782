// Package http provides HTTP handlers for secret management operations.
// Every route runs behind the authentication middleware.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHttp "github.com/allisson/vaultkeeper/internal/auth/http"
	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
	apperrors "github.com/allisson/vaultkeeper/internal/errors"
	"github.com/allisson/vaultkeeper/internal/httputil"
	"github.com/allisson/vaultkeeper/internal/secrets/http/dto"
	secretsUseCase "github.com/allisson/vaultkeeper/internal/secrets/usecase"
	customValidation "github.com/allisson/vaultkeeper/internal/validation"
)

var errMissingClaims = errors.New("missing authenticated subject")

// SecretHandler handles HTTP requests for secret management operations.
type SecretHandler struct {
	secretUseCase secretsUseCase.SecretUseCase
	logger        *slog.Logger
}

// NewSecretHandler creates a new secret handler.
func NewSecretHandler(secretUseCase secretsUseCase.SecretUseCase, logger *slog.Logger) *SecretHandler {
	return &SecretHandler{
		secretUseCase: secretUseCase,
		logger:        logger,
	}
}

// CreateHandler stores a secret owned by the authenticated subject.
// POST /v1/secrets - Returns 201 Created with metadata only.
func (h *SecretHandler) CreateHandler(c *gin.Context) {
	claims, ok := authHttp.GetClaims(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.Join(apperrors.ErrUnauthorized, errMissingClaims), h.logger)
		return
	}

	var req dto.CreateSecretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(req.Value)

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	secret, err := h.secretUseCase.Create(c.Request.Context(), claims.Subject, req.Name, req.Value)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("secret_created",
		slog.String("secret_id", secret.ID.String()),
		slog.String("owner", secret.Owner),
	)
	c.JSON(http.StatusCreated, dto.MapSecretToMetadataResponse(secret))
}

// GetHandler retrieves and decrypts a secret by id.
// GET /v1/secrets/:id - Returns 200 OK with the plaintext value, zeroed after the response.
func (h *SecretHandler) GetHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	secret, err := h.secretUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(secret.Plaintext)

	c.JSON(http.StatusOK, dto.MapSecretToGetResponse(secret))
}

// ListHandler lists secret metadata newest first.
// GET /v1/secrets?offset=0&limit=50
func (h *SecretHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	secrets, err := h.secretUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretsToListResponse(secrets))
}

// ListByOwnerHandler lists the metadata of every secret of an owner, ordered by name.
// GET /v1/secrets/owner/:owner
func (h *SecretHandler) ListByOwnerHandler(c *gin.Context) {
	owner := c.Param("owner")
	if owner == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("owner cannot be empty"), h.logger)
		return
	}

	secrets, err := h.secretUseCase.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSecretsToListResponse(secrets))
}

// DeleteHandler removes a secret permanently.
// DELETE /v1/secrets/:id - Returns 204 No Content.
func (h *SecretHandler) DeleteHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.secretUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("secret_deleted", slog.String("secret_id", id.String()))
	c.Data(http.StatusNoContent, "application/json", nil)
}

func (h *SecretHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid secret id"), h.logger)
		return uuid.Nil, false
	}
	return id, true
}
