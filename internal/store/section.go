// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// ErrReorderMismatch means a reorder request did not list every section of
// the template exactly once. Accepting a subset would leave duplicate or
// non-contiguous positions behind.
var ErrReorderMismatch = errors.New("section ids do not match the template's sections")

// SectionStore handles all section-related database operations.
type SectionStore struct {
	db *sql.DB
}

// NewSectionStore creates a new SectionStore with the given database connection.
func NewSectionStore(db *sql.DB) *SectionStore {
	return &SectionStore{db: db}
}

const sectionCols = `id, template_id, type, settings, enabled, position, created_at, updated_at`

func scanSection(row interface{ Scan(...any) error }) (*models.Section, error) {
	sec := &models.Section{}
	err := row.Scan(
		&sec.ID, &sec.TemplateID, &sec.Type, &sec.Settings,
		&sec.Enabled, &sec.Position, &sec.CreatedAt, &sec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sec, nil
}

// ListByTemplate returns a template's sections in render order.
func (s *SectionStore) ListByTemplate(templateID uuid.UUID) ([]models.Section, error) {
	rows, err := s.db.Query(`
		SELECT `+sectionCols+` FROM sections
		WHERE template_id = $1 ORDER BY position ASC
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, *sec)
	}
	return sections, rows.Err()
}

// FindByID retrieves a section by its UUID. Returns nil if not found.
func (s *SectionStore) FindByID(id uuid.UUID) (*models.Section, error) {
	sec, err := scanSection(s.db.QueryRow(`
		SELECT `+sectionCols+` FROM sections WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find section by id: %w", err)
	}
	return sec, nil
}

// FindOwned retrieves a section only if its template belongs to a shop
// owned by the given user. This is the ownership guard every editor
// mutation passes through. Returns nil if the section does not exist or
// the chain of ownership does not reach the user.
func (s *SectionStore) FindOwned(sectionID, ownerID uuid.UUID) (*models.Section, error) {
	sec, err := scanSection(s.db.QueryRow(`
		SELECT s.id, s.template_id, s.type, s.settings, s.enabled, s.position, s.created_at, s.updated_at
		FROM sections s
		JOIN templates t ON t.id = s.template_id
		JOIN shops sh ON sh.id = t.shop_id
		WHERE s.id = $1 AND sh.owner_id = $2
	`, sectionID, ownerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find owned section: %w", err)
	}
	return sec, nil
}

// ShopIDForSection resolves the shop that transitively owns a section.
// Returns uuid.Nil and no error when the section does not exist.
func (s *SectionStore) ShopIDForSection(sectionID uuid.UUID) (uuid.UUID, error) {
	var shopID uuid.UUID
	err := s.db.QueryRow(`
		SELECT t.shop_id FROM sections s
		JOIN templates t ON t.id = s.template_id
		WHERE s.id = $1
	`, sectionID).Scan(&shopID)
	if err == sql.ErrNoRows {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("shop for section: %w", err)
	}
	return shopID, nil
}

// Create appends a section at the end of the template's section list.
func (s *SectionStore) Create(templateID uuid.UUID, sectionType string, settings json.RawMessage) (*models.Section, error) {
	if len(settings) == 0 {
		settings = json.RawMessage(`{}`)
	}
	sec, err := scanSection(s.db.QueryRow(`
		INSERT INTO sections (template_id, type, settings, enabled, position)
		VALUES ($1, $2, $3, TRUE,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM sections WHERE template_id = $1))
		RETURNING `+sectionCols+`
	`, templateID, sectionType, settings))
	if err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	return sec, nil
}

// Update replaces a section's settings and enabled flag.
func (s *SectionStore) Update(id uuid.UUID, settings json.RawMessage, enabled bool) (*models.Section, error) {
	if len(settings) == 0 {
		settings = json.RawMessage(`{}`)
	}
	sec, err := scanSection(s.db.QueryRow(`
		UPDATE sections SET settings = $1, enabled = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+sectionCols+`
	`, settings, enabled, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update section: %w", err)
	}
	return sec, nil
}

// DeleteAndShift removes a section and closes the position gap among the
// template's remaining sections, preserving contiguous zero-based order.
func (s *SectionStore) DeleteAndShift(id uuid.UUID) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var templateID uuid.UUID
	var position int
	err = tx.QueryRow(`SELECT template_id, position FROM sections WHERE id = $1`, id).
		Scan(&templateID, &position)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup section: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM sections WHERE id = $1`, id); err != nil {
		return false, fmt.Errorf("delete section: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE sections SET position = position - 1
		WHERE template_id = $1 AND position > $2
	`, templateID, position)
	if err != nil {
		return false, fmt.Errorf("shift sections: %w", err)
	}

	return true, tx.Commit()
}

// Reorder assigns positions to the template's sections following the given
// id order. The ids must be a permutation of the template's section ids;
// anything else returns ErrReorderMismatch and writes nothing, keeping the
// position sequence contiguous.
func (s *SectionStore) Reorder(templateID uuid.UUID, orderedIDs []uuid.UUID) error {
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return ErrReorderMismatch
		}
		seen[id] = true
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRow(`
		SELECT COUNT(*) FROM sections WHERE template_id = $1
	`, templateID).Scan(&total); err != nil {
		return fmt.Errorf("count sections: %w", err)
	}
	if total != len(orderedIDs) {
		return ErrReorderMismatch
	}

	for i, id := range orderedIDs {
		res, err := tx.Exec(`
			UPDATE sections SET position = $1, updated_at = NOW()
			WHERE id = $2 AND template_id = $3
		`, i, id, templateID)
		if err != nil {
			return fmt.Errorf("reorder section %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reorder section %s: %w", id, err)
		}
		if n != 1 {
			return ErrReorderMismatch
		}
	}

	return tx.Commit()
}
