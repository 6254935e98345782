package domain

// JWK is a public Ed25519 key in RFC 8037 OKP form.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
}

// KeySet is a JSON Web Key Set (RFC 7517).
type KeySet struct {
	Keys []JWK `json:"keys"`
}
