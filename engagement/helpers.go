package engagement

import (
	"strings"

	"github.com/goliatone/go-homebrief/pkg/types"
	"github.com/google/uuid"
)

// RecordOption mutates the EngagementRecord produced by BuildRecord.
type RecordOption func(*types.EngagementRecord)

// WithEntity attaches the entity the interaction targeted.
func WithEntity(entityType, entityID string) RecordOption {
	return func(record *types.EngagementRecord) {
		record.EntityType = strings.TrimSpace(entityType)
		record.EntityID = strings.TrimSpace(entityID)
	}
}

// WithTopic sets the free-form topic field used for downstream filtering.
func WithTopic(topic string) RecordOption {
	return func(record *types.EngagementRecord) {
		record.Topic = strings.TrimSpace(topic)
	}
}

// WithData attaches metadata to the record. The map is defensively copied.
func WithData(data map[string]any) RecordOption {
	return func(record *types.EngagementRecord) {
		record.Data = cloneMetadata(data)
	}
}

// BuildRecord constructs an EngagementRecord for a UI surface. It trims the
// event type and applies options in order; the caller supplies identifiers
// already resolved by its auth layer.
func BuildRecord(userID, buildingID uuid.UUID, eventType string, opts ...RecordOption) types.EngagementRecord {
	record := types.EngagementRecord{
		UserID:     userID,
		BuildingID: buildingID,
		EventType:  strings.TrimSpace(eventType),
		Data:       map[string]any{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&record)
		}
	}

	return record
}

func cloneMetadata(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
