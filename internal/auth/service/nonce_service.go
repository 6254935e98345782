package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

type nonceService struct {
	secret []byte
}

// NewNonceService creates a NonceService keyed with the auth secret.
func NewNonceService(secret []byte) NonceService {
	key := make([]byte, len(secret))
	copy(key, secret)
	return &nonceService{secret: key}
}

// Compute returns hex(HMAC-SHA256(secret, subject)).
func (n *nonceService) Compute(subject string) string {
	mac := hmac.New(sha256.New, n.secret)
	_, _ = mac.Write([]byte(subject))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the nonce for subject and compares it in constant time.
func (n *nonceService) Verify(subject, nonce string) bool {
	return hmac.Equal([]byte(n.Compute(subject)), []byte(nonce))
}
