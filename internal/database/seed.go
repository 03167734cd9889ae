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
	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, full_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "admin@inkwell.local", string(hash), "Admin", "admin", false).Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// A published welcome post so the public feed isn't empty in dev.
	_, err = db.Exec(`
		INSERT INTO posts (title, slug, content, excerpt, tags, status, author_id, read_time, published_at)
		VALUES ($1, $2, $3, $4, $5, 'published', $6, 1, NOW())
	`,
		"Welcome to Inkwell",
		"welcome-to-inkwell",
		"This is your first post. Sign in to the admin dashboard to edit or delete it, and to write your own.",
		"Your blog is up and running.",
		`["welcome"]`,
		adminID,
	)
	if err != nil {
		return fmt.Errorf("seed insert welcome post: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@inkwell.local",
		"password", "admin",
	)

	return nil
}
