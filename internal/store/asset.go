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

// AssetStore handles theme asset metadata. The binaries live in S3.
type AssetStore struct {
	db *sql.DB
}

// NewAssetStore creates a new AssetStore with the given database connection.
func NewAssetStore(db *sql.DB) *AssetStore {
	return &AssetStore{db: db}
}

// Create records an uploaded asset.
func (s *AssetStore) Create(a *models.Asset) (*models.Asset, error) {
	created := &models.Asset{}
	err := s.db.QueryRow(`
		INSERT INTO assets (shop_id, filename, content_type, size_bytes, s3_key, public_url, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, shop_id, filename, content_type, size_bytes, s3_key, public_url, uploaded_by, created_at
	`, a.ShopID, a.Filename, a.ContentType, a.SizeBytes, a.S3Key, a.PublicURL, a.UploadedBy).Scan(
		&created.ID, &created.ShopID, &created.Filename, &created.ContentType,
		&created.SizeBytes, &created.S3Key, &created.PublicURL, &created.UploadedBy, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return created, nil
}

// FindByID retrieves an asset by its UUID. Returns nil if not found.
func (s *AssetStore) FindByID(id uuid.UUID) (*models.Asset, error) {
	a := &models.Asset{}
	err := s.db.QueryRow(`
		SELECT id, shop_id, filename, content_type, size_bytes, s3_key, public_url, uploaded_by, created_at
		FROM assets WHERE id = $1
	`, id).Scan(
		&a.ID, &a.ShopID, &a.Filename, &a.ContentType,
		&a.SizeBytes, &a.S3Key, &a.PublicURL, &a.UploadedBy, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find asset by id: %w", err)
	}
	return a, nil
}

// ListByShop returns a shop's assets, newest first.
func (s *AssetStore) ListByShop(shopID uuid.UUID) ([]models.Asset, error) {
	rows, err := s.db.Query(`
		SELECT id, shop_id, filename, content_type, size_bytes, s3_key, public_url, uploaded_by, created_at
		FROM assets WHERE shop_id = $1
		ORDER BY created_at DESC
	`, shopID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(
			&a.ID, &a.ShopID, &a.Filename, &a.ContentType,
			&a.SizeBytes, &a.S3Key, &a.PublicURL, &a.UploadedBy, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// Delete removes an asset row by ID.
func (s *AssetStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	return nil
}
