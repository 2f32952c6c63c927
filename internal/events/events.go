// Package events publishes editor activity to a Redis Stream so
// out-of-process consumers (webhook dispatchers, analytics) can react to
// theme changes without being in the request path.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// StreamName is the Redis Stream editor events are appended to.
	StreamName = "storefront:editor:events"

	// maxStreamLen caps the stream with approximate trimming so an idle
	// consumer cannot grow it without bound.
	maxStreamLen = 10_000
)

// Event names emitted by the editor.
const (
	EventBlockCreated   = "block.created"
	EventBlockUpdated   = "block.updated"
	EventBlockDeleted   = "block.deleted"
	EventSectionUpdated = "section.updated"
	EventSectionDeleted = "section.deleted"
)

// Payload is the JSON document stored in each stream entry.
type Payload struct {
	Event     string    `json:"event"`
	ShopID    uuid.UUID `json:"shop_id"`
	SectionID string    `json:"section_id"`
	BlockID   string    `json:"block_id,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher appends editor events to the stream. A nil Publisher is safe
// to call and does nothing, so wiring stays optional in tests.
type Publisher struct {
	client *redis.Client
}

// NewPublisher creates a Publisher on the given Redis client.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish appends one event entry. Publishing is best-effort: failures are
// logged and never fail the mutation that triggered them.
func (p *Publisher) Publish(ctx context.Context, event string, shopID uuid.UUID, sectionID, blockID string) {
	if p == nil || p.client == nil {
		return
	}

	payload, err := json.Marshal(Payload{
		Event:     event,
		ShopID:    shopID,
		SectionID: sectionID,
		BlockID:   blockID,
		At:        time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("event marshal failed", "event", event, "error", err)
		return
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]any{"data": payload},
	}).Err()
	if err != nil {
		slog.Warn("event publish failed", "event", event, "error", err)
	}
}
