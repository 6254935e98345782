package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
)

const vaultFormatVersion = 1

// Vault is an in-memory name to sealed-blob map. Values are sealed on AddSecret
// and opened on GetSecret; the map itself never holds plaintext.
type Vault struct {
	mu      sync.RWMutex
	cipher  Cipher
	entries map[string][]byte
}

type vaultDocument struct {
	Version int          `bson:"v"`
	Entries []vaultEntry `bson:"e"`
}

type vaultEntry struct {
	Name string `bson:"n"`
	Blob []byte `bson:"b"`
}

// NewVault creates an empty vault sealing values with cipher.
func NewVault(cipher Cipher) *Vault {
	return &Vault{
		cipher:  cipher,
		entries: make(map[string][]byte),
	}
}

// AddSecret seals plaintext and stores it under name, replacing any previous value.
func (v *Vault) AddSecret(name string, plaintext []byte) error {
	if name == "" {
		return cryptoDomain.ErrMalformedInput
	}

	blob, err := v.cipher.Seal(plaintext)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries[name] = blob
	return nil
}

// GetSecret opens the value stored under name.
func (v *Vault) GetSecret(name string) ([]byte, error) {
	v.mu.RLock()
	blob, ok := v.entries[name]
	v.mu.RUnlock()
	if !ok {
		return nil, cryptoDomain.ErrVaultEntryNotFound
	}
	return v.cipher.Open(blob)
}

// RemoveSecret deletes the value stored under name.
func (v *Vault) RemoveSecret(name string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.entries[name]; !ok {
		return cryptoDomain.ErrVaultEntryNotFound
	}
	delete(v.entries, name)
	return nil
}

// Names returns the stored names in lexical order.
func (v *Vault) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.namesLocked()
}

// MarshalBinary encodes the sealed entries as a single BSON document.
// Entries are sorted by name so equal vaults encode identically.
func (v *Vault) MarshalBinary() ([]byte, error) {
	doc := vaultDocument{Version: vaultFormatVersion}

	v.mu.RLock()
	for _, name := range v.namesLocked() {
		doc.Entries = append(doc.Entries, vaultEntry{Name: name, Blob: v.entries[name]})
	}
	v.mu.RUnlock()

	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode vault: %w", err)
	}
	return data, nil
}

// UnmarshalBinary replaces the vault content with the entries encoded in data.
// Blobs are not opened here; a wrong passphrase is only detected by GetSecret.
func (v *Vault) UnmarshalBinary(data []byte) error {
	if len(data) == 0 {
		return cryptoDomain.ErrVaultCorrupted
	}

	var doc vaultDocument
	if err := bson.Unmarshal(data, &doc); err != nil {
		return cryptoDomain.ErrVaultCorrupted
	}
	if doc.Version != vaultFormatVersion {
		return cryptoDomain.ErrVaultCorrupted
	}

	entries := make(map[string][]byte, len(doc.Entries))
	for _, e := range doc.Entries {
		if e.Name == "" || len(e.Blob) < cryptoDomain.NonceSize {
			return cryptoDomain.ErrVaultCorrupted
		}
		entries[e.Name] = e.Blob
	}

	v.mu.Lock()
	v.entries = entries
	v.mu.Unlock()
	return nil
}

// SaveToFile writes the vault to path through a temporary file and rename,
// so a crash never leaves a half-written vault behind.
func (v *Vault) SaveToFile(path string) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".vault-*")
	if err != nil {
		return fmt.Errorf("failed to create temp vault file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write vault file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to chmod vault file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close vault file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace vault file: %w", err)
	}
	return nil
}

// LoadVaultFile reads the vault stored at path. A missing file yields an empty vault.
func LoadVaultFile(path string, cipher Cipher) (*Vault, error) {
	v := NewVault(cipher)

	data, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("failed to read vault file: %w", err)
	}

	if err := v.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vault) namesLocked() []string {
	names := make([]string, 0, len(v.entries))
	for name := range v.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
