package models

import (
	"time"

	"github.com/google/uuid"
)

// Asset represents an uploaded theme file (logo, imagery, fonts) belonging
// to a shop. The binary lives in S3; the row tracks its key and public URL.
type Asset struct {
	ID          uuid.UUID `json:"id"`
	ShopID      uuid.UUID `json:"shop_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	S3Key       string    `json:"s3_key"`
	PublicURL   string    `json:"public_url"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
