// Package events publishes domain events for downstream consumers
// (cache invalidation, search indexing, analytics).
package events

import (
	"context"
	"time"
)

// Subjects for catalog and order events.
const (
	SubjectProductCreated  = "catalog.product.created"
	SubjectProductUpdated  = "catalog.product.updated"
	SubjectProductDeleted  = "catalog.product.deleted"
	SubjectCategoryChanged = "catalog.category.changed"
	SubjectOrderFinalized  = "orders.finalized"
)

// Event is the envelope published on every subject.
type Event struct {
	Subject    string    `json:"subject"`
	EntityID   string    `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits domain events. Publishing is best-effort: callers log
// failures but never fail the originating request over them.
type Publisher interface {
	Publish(ctx context.Context, subject, entityID string) error
	Close()
}
