package engagement

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Event models the persisted row in engagement_events.
type Event struct {
	bun.BaseModel `bun:"table:engagement_events"`

	ID         uuid.UUID      `bun:",pk,type:uuid"`
	UserID     uuid.UUID      `bun:"user_id,type:uuid"`
	BuildingID uuid.UUID      `bun:"building_id,type:uuid"`
	EventType  string         `bun:"event_type"`
	EntityType string         `bun:"entity_type"`
	EntityID   string         `bun:"entity_id"`
	Topic      string         `bun:"topic"`
	Data       map[string]any `bun:"data,type:jsonb"`
	CreatedAt  time.Time      `bun:"created_at"`
}
