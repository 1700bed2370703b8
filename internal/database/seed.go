package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default admin user if none exists. The admin will be
// prompted to set up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Insert default admin user. 2FA is not enabled — they must set it up
	// on first login.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@foliopress.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Starter tags so the insights editor has something to attach.
	for _, name := range []string{"Leadership", "Fundraising", "Product"} {
		if _, err := db.Exec(`
			INSERT INTO tags (name, slug) VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, name, slugify(name)); err != nil {
			return fmt.Errorf("seed insert tag %q: %w", name, err)
		}
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@foliopress.local",
		"password", "admin",
	)

	return nil
}

// slugify is a minimal lowercase transform for seed data. Real slug
// generation lives in internal/slug; seed names are plain ASCII words.
func slugify(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
