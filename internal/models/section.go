// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TempSectionPrefix marks client-side placeholder sections that have not
// been persisted yet. Mutations against them are rejected outright.
const TempSectionPrefix = "temp-"

// IsTempSectionID reports whether the given section id is a client-only
// placeholder for an unsaved section.
func IsTempSectionID(id string) bool {
	return strings.HasPrefix(id, TempSectionPrefix)
}

// Section represents a page-level content region belonging to a template.
// Sections are position-ordered within their template and own an ordered
// collection of top-level block rows.
type Section struct {
	ID         uuid.UUID       `json:"id"`
	TemplateID uuid.UUID       `json:"template_id"`
	Type       string          `json:"type"`
	Settings   json.RawMessage `json:"settings"`
	Enabled    bool            `json:"enabled"`
	Position   int             `json:"position"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// SectionBlock is a top-level block row owned by a section. Container-type
// rows embed an arbitrarily deep tree of child blocks inside their settings
// payload; nested children never get rows of their own. Version implements
// optimistic locking for container read-modify-write cycles.
type SectionBlock struct {
	ID        string          `json:"id"`
	SectionID uuid.UUID       `json:"section_id"`
	Type      string          `json:"type"`
	Settings  json.RawMessage `json:"settings"`
	Enabled   bool            `json:"enabled"`
	Position  int             `json:"position"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
