// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ShopStatus represents the lifecycle state of a merchant shop.
type ShopStatus string

const (
	ShopStatusActive    ShopStatus = "active"
	ShopStatusSuspended ShopStatus = "suspended"
)

// Shop represents a merchant storefront provisioned under a subdomain.
// Each shop is exclusively owned by one user.
type Shop struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Subdomain string     `json:"subdomain"`
	Name      string     `json:"name"`
	Status    ShopStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsActive returns true if the shop can serve its storefront.
func (s *Shop) IsActive() bool {
	return s.Status == ShopStatusActive
}
