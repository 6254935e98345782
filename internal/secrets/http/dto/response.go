package dto

import (
	"time"

	secretsDomain "github.com/allisson/vaultkeeper/internal/secrets/domain"
)

// SecretResponse represents a secret in API responses.
// Value carries plaintext and is only set on GET /v1/secrets/:id.
type SecretResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	Value     []byte    `json:"value,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListSecretsResponse wraps secret metadata for list endpoints.
type ListSecretsResponse struct {
	Data []SecretResponse `json:"data"`
}

// MapSecretToMetadataResponse converts a domain secret to a response without its value.
func MapSecretToMetadataResponse(secret *secretsDomain.Secret) SecretResponse {
	return SecretResponse{
		ID:        secret.ID.String(),
		Name:      secret.Name,
		Owner:     secret.Owner,
		CreatedAt: secret.CreatedAt,
	}
}

// MapSecretToGetResponse includes the plaintext value. The caller zeroes
// secret.Plaintext once the response is written.
func MapSecretToGetResponse(secret *secretsDomain.Secret) SecretResponse {
	resp := MapSecretToMetadataResponse(secret)
	resp.Value = secret.Plaintext
	return resp
}

// MapSecretsToListResponse converts domain secrets to a list response.
func MapSecretsToListResponse(secrets []*secretsDomain.Secret) ListSecretsResponse {
	data := make([]SecretResponse, 0, len(secrets))
	for _, secret := range secrets {
		data = append(data, MapSecretToMetadataResponse(secret))
	}
	return ListSecretsResponse{Data: data}
}
