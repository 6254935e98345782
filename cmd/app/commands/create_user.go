package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	userUseCase "github.com/allisson/vaultkeeper/internal/user/usecase"
)

// RunCreateUser registers a user account. When password is empty it is read
// from io without echo. Output is text or JSON per format.
func RunCreateUser(
	ctx context.Context,
	users userUseCase.UseCase,
	logger *slog.Logger,
	email string,
	password string,
	format string,
	io IOTuple,
) error {
	if password == "" {
		value, err := readHidden(io, "Password: ")
		if err != nil {
			return err
		}
		password = string(value)
	}

	user, err := users.RegisterUser(ctx, userUseCase.RegisterUserInput{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("user created", slog.String("user_id", user.ID.String()), slog.String("email", user.Email))

	if format == "json" {
		return writeJSON(io.Writer, map[string]string{
			"id":         user.ID.String(),
			"email":      user.Email,
			"created_at": user.CreatedAt.Format(time.RFC3339),
		})
	}

	_, _ = fmt.Fprintln(io.Writer, "User created successfully!")
	_, _ = fmt.Fprintf(io.Writer, "ID: %s\n", user.ID)
	_, _ = fmt.Fprintf(io.Writer, "Email: %s\n", user.Email)
	return nil
}
