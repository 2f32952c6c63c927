// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// TemplateType categorizes templates by the storefront page they compose.
type TemplateType string

const (
	TemplateTypeHome       TemplateType = "home"
	TemplateTypePage       TemplateType = "page"
	TemplateTypeProduct    TemplateType = "product"
	TemplateTypeCollection TemplateType = "collection"
)

// ValidTemplateType reports whether t is a known template type.
func ValidTemplateType(t TemplateType) bool {
	switch t {
	case TemplateTypeHome, TemplateTypePage, TemplateTypeProduct, TemplateTypeCollection:
		return true
	}
	return false
}

// Template represents a themed page layout belonging to a shop. A template
// owns an ordered list of sections; the storefront runtime renders the
// default template of each type.
type Template struct {
	ID        uuid.UUID    `json:"id"`
	ShopID    uuid.UUID    `json:"shop_id"`
	Name      string       `json:"name"`
	Type      TemplateType `json:"type"`
	IsDefault bool         `json:"is_default"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
