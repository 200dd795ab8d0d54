package server

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the initial admin account from configuration.
// Idempotent: does nothing if the email is already registered.
func SeedAdmin(ctx context.Context, logger *slog.Logger, db *sql.DB, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil
	}

	var exists int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM admins WHERE email = ?
	`, email).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO admins (email, password_hash) VALUES (?, ?)
	`, email, string(hash))
	if err != nil {
		return err
	}

	logger.Info("admin account seeded", "email", email)
	return nil
}
