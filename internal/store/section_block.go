// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// SectionBlockStore handles the top-level block rows of sections.
// Container rows carry an entire nested block tree inside their settings
// payload; the version column backs the optimistic lock used when that
// payload is rewritten.
type SectionBlockStore struct {
	db *sql.DB
}

// NewSectionBlockStore creates a new SectionBlockStore with the given
// database connection.
func NewSectionBlockStore(db *sql.DB) *SectionBlockStore {
	return &SectionBlockStore{db: db}
}

const blockCols = `id, section_id, type, settings, enabled, position, version, created_at, updated_at`

func scanBlock(row interface{ Scan(...any) error }) (*models.SectionBlock, error) {
	b := &models.SectionBlock{}
	err := row.Scan(
		&b.ID, &b.SectionID, &b.Type, &b.Settings,
		&b.Enabled, &b.Position, &b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBySection returns a section's top-level block rows in render order.
func (s *SectionBlockStore) ListBySection(sectionID uuid.UUID) ([]models.SectionBlock, error) {
	rows, err := s.db.Query(`
		SELECT `+blockCols+` FROM section_blocks
		WHERE section_id = $1 ORDER BY position ASC
	`, sectionID)
	if err != nil {
		return nil, fmt.Errorf("list section blocks: %w", err)
	}
	defer rows.Close()

	var blocks []models.SectionBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section block: %w", err)
		}
		blocks = append(blocks, *b)
	}
	return blocks, rows.Err()
}

// FindByID retrieves a top-level block row by id within a section.
// Returns nil if no direct row matches (the block may still exist nested
// inside a container row).
func (s *SectionBlockStore) FindByID(sectionID uuid.UUID, blockID string) (*models.SectionBlock, error) {
	b, err := scanBlock(s.db.QueryRow(`
		SELECT `+blockCols+` FROM section_blocks
		WHERE section_id = $1 AND id = $2
	`, sectionID, blockID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find section block: %w", err)
	}
	return b, nil
}

// ListContainers returns the section's container-type rows ordered by
// (position, id). The ordering makes first-match resolution deterministic
// when the same id would match in more than one container.
func (s *SectionBlockStore) ListContainers(sectionID uuid.UUID, containerTypes []string) ([]models.SectionBlock, error) {
	placeholders := make([]string, len(containerTypes))
	args := make([]any, 0, len(containerTypes)+1)
	args = append(args, sectionID)
	for i, t := range containerTypes {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, t)
	}

	rows, err := s.db.Query(`
		SELECT `+blockCols+` FROM section_blocks
		WHERE section_id = $1 AND type IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY position ASC, id ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list container blocks: %w", err)
	}
	defer rows.Close()

	var blocks []models.SectionBlock
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan container block: %w", err)
		}
		blocks = append(blocks, *b)
	}
	return blocks, rows.Err()
}

// Create inserts a top-level block row at the end of the section's list.
func (s *SectionBlockStore) Create(b *models.SectionBlock) (*models.SectionBlock, error) {
	settings := b.Settings
	if len(settings) == 0 {
		settings = json.RawMessage(`{}`)
	}
	created, err := scanBlock(s.db.QueryRow(`
		INSERT INTO section_blocks (id, section_id, type, settings, enabled, position, version)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM section_blocks WHERE section_id = $2), 1)
		RETURNING `+blockCols+`
	`, b.ID, b.SectionID, b.Type, settings, b.Enabled))
	if err != nil {
		return nil, fmt.Errorf("create section block: %w", err)
	}
	return created, nil
}

// UpdateFields applies a partial update to a top-level row. Nil arguments
// leave the corresponding column unchanged.
func (s *SectionBlockStore) UpdateFields(sectionID uuid.UUID, blockID string, settings json.RawMessage, enabled *bool, position *int) (*models.SectionBlock, error) {
	var settingsArg any
	if settings != nil {
		settingsArg = []byte(settings)
	}

	b, err := scanBlock(s.db.QueryRow(`
		UPDATE section_blocks SET
			settings = COALESCE($1, settings),
			enabled = COALESCE($2, enabled),
			position = COALESCE($3, position),
			version = version + 1,
			updated_at = NOW()
		WHERE section_id = $4 AND id = $5
		RETURNING `+blockCols+`
	`, settingsArg, enabled, position, sectionID, blockID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update section block: %w", err)
	}
	return b, nil
}

// UpdateSettingsVersioned rewrites a container row's settings payload only
// if the row still carries the expected version. Returns false when the
// version check fails, meaning a concurrent writer got there first.
func (s *SectionBlockStore) UpdateSettingsVersioned(blockID string, settings json.RawMessage, expectedVersion int) (bool, error) {
	result, err := s.db.Exec(`
		UPDATE section_blocks SET
			settings = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
	`, []byte(settings), blockID, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("versioned settings update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("versioned settings update: %w", err)
	}
	return rows == 1, nil
}

// DeleteAndShift removes a top-level row and shifts down the position of
// every later sibling so the sequence stays contiguous zero-based.
// Returns false when no row matched.
func (s *SectionBlockStore) DeleteAndShift(sectionID uuid.UUID, blockID string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRow(`
		SELECT position FROM section_blocks WHERE section_id = $1 AND id = $2
	`, sectionID, blockID).Scan(&position)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup section block: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM section_blocks WHERE section_id = $1 AND id = $2`, sectionID, blockID); err != nil {
		return false, fmt.Errorf("delete section block: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE section_blocks SET position = position - 1
		WHERE section_id = $1 AND position > $2
	`, sectionID, position)
	if err != nil {
		return false, fmt.Errorf("shift section blocks: %w", err)
	}

	return true, tx.Commit()
}

// TopLevelIDs returns the ids of the section's top-level rows. Combined
// with the nested ids harvested from container trees, it gives the full id
// set used to enforce uniqueness at creation time.
func (s *SectionBlockStore) TopLevelIDs(sectionID uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT id FROM section_blocks WHERE section_id = $1
	`, sectionID)
	if err != nil {
		return nil, fmt.Errorf("top level ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
