package engagement

import (
	"context"
	"errors"

	"github.com/goliatone/go-homebrief/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires the Bun-backed engagement repository.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Event]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type engagementStore interface {
	repository.Repository[*Event]
}

// Repository persists engagement events and exposes query helpers.
type Repository struct {
	engagementStore
	db    *bun.DB
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs a repository that implements both EngagementSink
// and EngagementRepository interfaces.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("engagement: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Event]{
			NewRecord: func() *Event { return &Event{} },
			GetID: func(event *Event) uuid.UUID {
				if event == nil {
					return uuid.Nil
				}
				return event.ID
			},
			SetID: func(event *Event, id uuid.UUID) {
				if event != nil {
					event.ID = id
				}
			},
		})
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	return &Repository{
		engagementStore: repo,
		db:              cfg.DB,
		clock:           clock,
		idGen:           idGen,
	}, nil
}

var (
	_ repository.Repository[*Event] = (*Repository)(nil)
	_ types.EngagementSink          = (*Repository)(nil)
	_ types.EngagementRepository    = (*Repository)(nil)
)

// Log appends one engagement event. Rows are never updated or deleted through
// this repository; retention is the host's concern.
func (r *Repository) Log(ctx context.Context, record types.EngagementRecord) error {
	event := toEvent(record)
	if event.ID == uuid.Nil {
		event.ID = r.idGen.UUID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.clock.Now()
	}
	_, err := r.Create(ctx, event)
	return err
}

// ListEngagement returns a paginated feed filtered by the supplied criteria,
// newest first.
func (r *Repository) ListEngagement(ctx context.Context, filter types.EngagementFilter) (types.EngagementPage, error) {
	pagination := normalizePagination(filter.Pagination, 50, 200)
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.OrderExpr("created_at DESC").
				Limit(pagination.Limit).
				Offset(pagination.Offset)
			return applyEngagementFilter(q, filter)
		},
	}

	rows, total, err := r.List(ctx, criteria...)
	if err != nil {
		return types.EngagementPage{}, err
	}
	records := make([]types.EngagementRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toEngagementRecord(row))
	}
	return types.EngagementPage{
		Records:    records,
		Total:      total,
		NextOffset: pagination.Offset + pagination.Limit,
		HasMore:    pagination.Offset+pagination.Limit < total,
	}, nil
}

// EngagementStats aggregates counts grouped by event type.
func (r *Repository) EngagementStats(ctx context.Context, filter types.EngagementStatsFilter) (types.EngagementStats, error) {
	stats := types.EngagementStats{
		ByEventType: make(map[string]int),
	}
	if r.db == nil {
		return stats, errors.New("engagement: stats requires bun DB")
	}
	query := r.db.NewSelect().
		Table("engagement_events").
		ColumnExpr("COUNT(*) AS total").
		ColumnExpr("event_type").
		Group("event_type")
	query = applyEngagementStatsFilter(query, filter)

	type row struct {
		EventType string `bun:"event_type"`
		Total     int    `bun:"total"`
	}
	var rows []row
	if err := query.Scan(ctx, &rows); err != nil {
		return stats, err
	}
	total := 0
	for _, rec := range rows {
		stats.ByEventType[rec.EventType] = rec.Total
		total += rec.Total
	}
	stats.Total = total
	return stats, nil
}

func applyEngagementFilter(q *bun.SelectQuery, filter types.EngagementFilter) *bun.SelectQuery {
	if filter.BuildingID != uuid.Nil {
		q = q.Where("building_id = ?", filter.BuildingID)
	}
	if filter.UserID != uuid.Nil {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if len(filter.EventTypes) > 0 {
		q = q.Where("event_type IN (?)", bun.In(filter.EventTypes))
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.Topic != "" {
		q = q.Where("topic = ?", filter.Topic)
	}
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if filter.Until != nil && !filter.Until.IsZero() {
		q = q.Where("created_at <= ?", filter.Until)
	}
	return q
}

func applyEngagementStatsFilter(q *bun.SelectQuery, filter types.EngagementStatsFilter) *bun.SelectQuery {
	if filter.BuildingID != uuid.Nil {
		q = q.Where("building_id = ?", filter.BuildingID)
	}
	if filter.UserID != uuid.Nil {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Since != nil && !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if filter.Until != nil && !filter.Until.IsZero() {
		q = q.Where("created_at <= ?", filter.Until)
	}
	if len(filter.EventTypes) > 0 {
		q = q.Where("event_type IN (?)", bun.In(filter.EventTypes))
	}
	return q
}

func toEvent(record types.EngagementRecord) *Event {
	return &Event{
		ID:         record.ID,
		UserID:     record.UserID,
		BuildingID: record.BuildingID,
		EventType:  record.EventType,
		EntityType: record.EntityType,
		EntityID:   record.EntityID,
		Topic:      record.Topic,
		Data:       cloneMap(record.Data),
		CreatedAt:  record.OccurredAt,
	}
}

func toEngagementRecord(event *Event) types.EngagementRecord {
	if event == nil {
		return types.EngagementRecord{}
	}
	return types.EngagementRecord{
		ID:         event.ID,
		UserID:     event.UserID,
		BuildingID: event.BuildingID,
		EventType:  event.EventType,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		Topic:      event.Topic,
		Data:       cloneMap(event.Data),
		OccurredAt: event.CreatedAt,
	}
}

// FromEngagementRecord converts a domain engagement record into the Bun model
// so it can be reused by transports without duplicating conversion logic.
func FromEngagementRecord(record types.EngagementRecord) *Event {
	return toEvent(record)
}

// ToEngagementRecord converts the Bun model into the domain engagement record.
func ToEngagementRecord(event *Event) types.EngagementRecord {
	return toEngagementRecord(event)
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func normalizePagination(p types.Pagination, def, max int) types.Pagination {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
