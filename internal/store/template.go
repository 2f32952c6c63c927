// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// TemplateStore handles all template-related database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// ListByShop returns all templates for a shop ordered by type and name.
func (s *TemplateStore) ListByShop(shopID uuid.UUID) ([]models.Template, error) {
	rows, err := s.db.Query(`
		SELECT id, shop_id, name, type, is_default, created_at, updated_at
		FROM templates WHERE shop_id = $1
		ORDER BY type, name
	`, shopID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(
			&t.ID, &t.ShopID, &t.Name, &t.Type, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template by its UUID. Returns nil if not found.
func (s *TemplateStore) FindByID(id uuid.UUID) (*models.Template, error) {
	t := &models.Template{}
	err := s.db.QueryRow(`
		SELECT id, shop_id, name, type, is_default, created_at, updated_at
		FROM templates WHERE id = $1
	`, id).Scan(
		&t.ID, &t.ShopID, &t.Name, &t.Type, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// FindDefault returns the default template of the given type for a shop.
// Returns nil if the shop has none.
func (s *TemplateStore) FindDefault(shopID uuid.UUID, tmplType models.TemplateType) (*models.Template, error) {
	t := &models.Template{}
	err := s.db.QueryRow(`
		SELECT id, shop_id, name, type, is_default, created_at, updated_at
		FROM templates WHERE shop_id = $1 AND type = $2 AND is_default = TRUE
		LIMIT 1
	`, shopID, tmplType).Scan(
		&t.ID, &t.ShopID, &t.Name, &t.Type, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find default template: %w", err)
	}
	return t, nil
}

// Create inserts a new template. Does NOT make it the default automatically.
func (s *TemplateStore) Create(shopID uuid.UUID, name string, tmplType models.TemplateType) (*models.Template, error) {
	t := &models.Template{}
	err := s.db.QueryRow(`
		INSERT INTO templates (shop_id, name, type, is_default)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, shop_id, name, type, is_default, created_at, updated_at
	`, shopID, name, tmplType).Scan(
		&t.ID, &t.ShopID, &t.Name, &t.Type, &t.IsDefault, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return t, nil
}

// Rename updates a template's name.
func (s *TemplateStore) Rename(id uuid.UUID, name string) error {
	_, err := s.db.Exec(`
		UPDATE templates SET name = $1, updated_at = NOW() WHERE id = $2
	`, name, id)
	if err != nil {
		return fmt.Errorf("rename template: %w", err)
	}
	return nil
}

// SetDefault makes a template the default for its type within its shop,
// clearing the flag on any other template of the same type. Uses a
// transaction for atomicity.
func (s *TemplateStore) SetDefault(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var shopID uuid.UUID
	var tmplType string
	err = tx.QueryRow(`SELECT shop_id, type FROM templates WHERE id = $1`, id).Scan(&shopID, &tmplType)
	if err != nil {
		return fmt.Errorf("get template: %w", err)
	}

	_, err = tx.Exec(`UPDATE templates SET is_default = FALSE WHERE shop_id = $1 AND type = $2`, shopID, tmplType)
	if err != nil {
		return fmt.Errorf("clear default templates: %w", err)
	}

	_, err = tx.Exec(`UPDATE templates SET is_default = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("set default template: %w", err)
	}

	return tx.Commit()
}

// Delete removes a template by ID. Cannot delete the default template.
func (s *TemplateStore) Delete(id uuid.UUID) error {
	result, err := s.db.Exec(`DELETE FROM templates WHERE id = $1 AND is_default = FALSE`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("cannot delete: template is the default or not found")
	}
	return nil
}
