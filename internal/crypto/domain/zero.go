package domain

// Zero overwrites b with zeros. Derived keys and decrypted private keys are
// passed through it as soon as the operation that needed them returns.
func Zero(b []byte) {
	clear(b)
}
