package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: an admin
// account plus a demo shop with a default home template, one section, and
// a few blocks (including a container with nested children). The admin
// will be prompted to set up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var adminID uuid.UUID
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "admin@storefront.local", string(hash), "Admin", "admin", false).Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	var shopID uuid.UUID
	err = db.QueryRow(`
		INSERT INTO shops (owner_id, subdomain, name, status)
		VALUES ($1, 'demo', 'Demo Shop', 'active')
		RETURNING id
	`, adminID).Scan(&shopID)
	if err != nil {
		return fmt.Errorf("seed insert shop: %w", err)
	}

	var templateID uuid.UUID
	err = db.QueryRow(`
		INSERT INTO templates (shop_id, name, type, is_default)
		VALUES ($1, 'Home', 'home', TRUE)
		RETURNING id
	`, shopID).Scan(&templateID)
	if err != nil {
		return fmt.Errorf("seed insert template: %w", err)
	}

	var sectionID uuid.UUID
	err = db.QueryRow(`
		INSERT INTO sections (template_id, type, settings, enabled, position)
		VALUES ($1, 'hero', '{"layout": "full-width"}', TRUE, 0)
		RETURNING id
	`, templateID).Scan(&sectionID)
	if err != nil {
		return fmt.Errorf("seed insert section: %w", err)
	}

	// Two plain blocks and a container carrying a nested tree.
	seedBlocks := []struct {
		id       string
		typ      string
		settings string
		position int
	}{
		{uuid.NewString(), "text", `{"content": "Welcome to your new shop"}`, 0},
		{uuid.NewString(), "button", `{"label": "Shop now", "url": "/collections/all"}`, 1},
		{uuid.NewString(), "container", fmt.Sprintf(
			`{"gap": 16, "blocks": [
				{"id": %q, "type": "image", "settings": {"src": "", "alt": "Showcase"}, "enabled": true, "position": 0},
				{"id": %q, "type": "text", "settings": {"content": "Curated picks"}, "enabled": true, "position": 1}
			]}`, uuid.NewString(), uuid.NewString()), 2},
	}

	for _, b := range seedBlocks {
		_, err = db.Exec(`
			INSERT INTO section_blocks (id, section_id, type, settings, enabled, position, version)
			VALUES ($1, $2, $3, $4, TRUE, $5, 1)
		`, b.id, sectionID, b.typ, b.settings, b.position)
		if err != nil {
			return fmt.Errorf("seed insert block %s: %w", b.typ, err)
		}
	}

	slog.Info("database seeded",
		"email", "admin@storefront.local",
		"password", "admin",
		"shop", "demo",
	)

	return nil
}
