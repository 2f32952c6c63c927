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

// ShopStore handles all shop-related database operations.
type ShopStore struct {
	db *sql.DB
}

// NewShopStore creates a new ShopStore with the given database connection.
func NewShopStore(db *sql.DB) *ShopStore {
	return &ShopStore{db: db}
}

// FindBySubdomain retrieves a shop by its subdomain. Returns nil if not found.
func (s *ShopStore) FindBySubdomain(subdomain string) (*models.Shop, error) {
	sh := &models.Shop{}
	err := s.db.QueryRow(`
		SELECT id, owner_id, subdomain, name, status, created_at, updated_at
		FROM shops WHERE subdomain = $1
	`, subdomain).Scan(
		&sh.ID, &sh.OwnerID, &sh.Subdomain, &sh.Name, &sh.Status, &sh.CreatedAt, &sh.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find shop by subdomain: %w", err)
	}
	return sh, nil
}

// FindByID retrieves a shop by its UUID. Returns nil if not found.
func (s *ShopStore) FindByID(id uuid.UUID) (*models.Shop, error) {
	sh := &models.Shop{}
	err := s.db.QueryRow(`
		SELECT id, owner_id, subdomain, name, status, created_at, updated_at
		FROM shops WHERE id = $1
	`, id).Scan(
		&sh.ID, &sh.OwnerID, &sh.Subdomain, &sh.Name, &sh.Status, &sh.CreatedAt, &sh.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find shop by id: %w", err)
	}
	return sh, nil
}

// ListByOwner returns all shops owned by a user, oldest first.
func (s *ShopStore) ListByOwner(ownerID uuid.UUID) ([]models.Shop, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, subdomain, name, status, created_at, updated_at
		FROM shops WHERE owner_id = $1
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()

	var shops []models.Shop
	for rows.Next() {
		var sh models.Shop
		if err := rows.Scan(
			&sh.ID, &sh.OwnerID, &sh.Subdomain, &sh.Name, &sh.Status, &sh.CreatedAt, &sh.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		shops = append(shops, sh)
	}
	return shops, rows.Err()
}

// ListAll returns every shop on the platform, newest first. Admin use only.
func (s *ShopStore) ListAll() ([]models.Shop, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, subdomain, name, status, created_at, updated_at
		FROM shops ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list all shops: %w", err)
	}
	defer rows.Close()

	var shops []models.Shop
	for rows.Next() {
		var sh models.Shop
		if err := rows.Scan(
			&sh.ID, &sh.OwnerID, &sh.Subdomain, &sh.Name, &sh.Status, &sh.CreatedAt, &sh.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		shops = append(shops, sh)
	}
	return shops, rows.Err()
}

// SetStatus moves a shop between active and suspended.
func (s *ShopStore) SetStatus(id uuid.UUID, status models.ShopStatus) error {
	_, err := s.db.Exec(`
		UPDATE shops SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("set shop status: %w", err)
	}
	return nil
}

// Create provisions a new shop. The subdomain must already be normalized;
// a unique constraint on it surfaces duplicates as an error.
func (s *ShopStore) Create(ownerID uuid.UUID, subdomain, name string) (*models.Shop, error) {
	sh := &models.Shop{}
	err := s.db.QueryRow(`
		INSERT INTO shops (owner_id, subdomain, name, status)
		VALUES ($1, $2, $3, 'active')
		RETURNING id, owner_id, subdomain, name, status, created_at, updated_at
	`, ownerID, subdomain, name).Scan(
		&sh.ID, &sh.OwnerID, &sh.Subdomain, &sh.Name, &sh.Status, &sh.CreatedAt, &sh.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create shop: %w", err)
	}
	return sh, nil
}

// UpdateName renames a shop.
func (s *ShopStore) UpdateName(id uuid.UUID, name string) error {
	_, err := s.db.Exec(`
		UPDATE shops SET name = $1, updated_at = NOW() WHERE id = $2
	`, name, id)
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}
	return nil
}

// Delete removes a shop and, through cascading constraints, all of its
// templates, sections, blocks, and assets.
func (s *ShopStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	return nil
}
