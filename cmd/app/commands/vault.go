package commands

import (
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
	cryptoService "github.com/allisson/vaultkeeper/internal/crypto/service"
)

// RunVaultPut seals value into the vault file at path under name, creating the
// file when it does not exist. An empty value is read from io without echo.
func RunVaultPut(cipher cryptoService.Cipher, logger *slog.Logger, path, name, value string, io IOTuple) error {
	vault, err := cryptoService.LoadVaultFile(path, cipher)
	if err != nil {
		return err
	}

	plaintext := []byte(value)
	if value == "" {
		if plaintext, err = readHidden(io, "Value: "); err != nil {
			return err
		}
	}
	defer cryptoDomain.Zero(plaintext)

	if err := vault.AddSecret(name, plaintext); err != nil {
		return fmt.Errorf("failed to add %q: %w", name, err)
	}
	if err := vault.SaveToFile(path); err != nil {
		return err
	}

	logger.Info("vault entry stored", slog.String("path", path), slog.String("name", name))
	return nil
}

// RunVaultGet writes the opened value stored under name to io.
func RunVaultGet(cipher cryptoService.Cipher, path, name string, io IOTuple) error {
	vault, err := cryptoService.LoadVaultFile(path, cipher)
	if err != nil {
		return err
	}

	plaintext, err := vault.GetSecret(name)
	if err != nil {
		return fmt.Errorf("failed to get %q: %w", name, err)
	}
	defer cryptoDomain.Zero(plaintext)

	if _, err := io.Writer.Write(plaintext); err != nil {
		return err
	}
	_, err = fmt.Fprintln(io.Writer)
	return err
}

// RunVaultRemove deletes name from the vault file.
func RunVaultRemove(cipher cryptoService.Cipher, logger *slog.Logger, path, name string) error {
	vault, err := cryptoService.LoadVaultFile(path, cipher)
	if err != nil {
		return err
	}

	if err := vault.RemoveSecret(name); err != nil {
		return fmt.Errorf("failed to remove %q: %w", name, err)
	}
	if err := vault.SaveToFile(path); err != nil {
		return err
	}

	logger.Info("vault entry removed", slog.String("path", path), slog.String("name", name))
	return nil
}

// RunVaultList prints the stored names, one per line or as a JSON array.
func RunVaultList(cipher cryptoService.Cipher, path, format string, io IOTuple) error {
	vault, err := cryptoService.LoadVaultFile(path, cipher)
	if err != nil {
		return err
	}

	names := vault.Names()
	if format == "json" {
		return writeJSON(io.Writer, names)
	}
	for _, name := range names {
		_, _ = fmt.Fprintln(io.Writer, name)
	}
	return nil
}
