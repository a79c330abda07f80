package types

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// CardCategory identifies one of the four dashboard sections whose relative
// order is personalized per user/building.
type CardCategory string

const (
	CardPackages  CardCategory = "packages"
	CardEvents    CardCategory = "events"
	CardCommunity CardCategory = "community"
	CardBulletin  CardCategory = "bulletin"
)

// DefaultCardOrder returns the fixed fallback ordering used when no signal or
// engagement data distinguishes the categories. Callers receive a fresh slice
// so they can mutate it safely.
func DefaultCardOrder() []CardCategory {
	return []CardCategory{CardPackages, CardEvents, CardCommunity, CardBulletin}
}

// Known engagement event types. The sink accepts unknown types verbatim so
// hosts can add surfaces without upgrading this module; scoring simply ignores
// types it does not recognize.
const (
	EngagementHomeView     = "home_view"
	EngagementPackageOpen  = "package_open"
	EngagementEventRSVP    = "event_rsvp"
	EngagementPostOpen     = "post_open"
	EngagementBulletinOpen = "bulletin_open"
)

// CategoryForEvent maps a known engagement event type to the card category it
// should boost. The second return is false for unrecognized types.
func CategoryForEvent(eventType string) (CardCategory, bool) {
	switch eventType {
	case EngagementPackageOpen:
		return CardPackages, true
	case EngagementEventRSVP:
		return CardEvents, true
	case EngagementPostOpen:
		return CardCommunity, true
	case EngagementBulletinOpen:
		return CardBulletin, true
	default:
		return "", false
	}
}

// CategoryForEntity maps an engagement entity type ("package", "event", ...)
// to a card category. The second return is false for unrecognized types.
func CategoryForEntity(entityType string) (CardCategory, bool) {
	switch entityType {
	case "package":
		return CardPackages, true
	case "event":
		return CardEvents, true
	case "post":
		return CardCommunity, true
	case "bulletin":
		return CardBulletin, true
	default:
		return "", false
	}
}

// EngagementRecord describes sink inputs and is shared across the sink and
// query layers. Records are immutable once logged.
type EngagementRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	BuildingID uuid.UUID
	EventType  string
	EntityType string
	EntityID   string
	Topic      string
	Data       map[string]any
	OccurredAt time.Time
}

// EngagementSink is the minimal DI contract for recording engagement. Keep it
// stable and limited to Log so hosts can swap sinks without breaking changes.
// Callers treat Log as best-effort: failures are logged and discarded, never
// propagated into the user's primary action.
type EngagementSink interface {
	Log(context.Context, EngagementRecord) error
}

// EngagementFilter narrows engagement feed queries.
type EngagementFilter struct {
	UserID     uuid.UUID
	BuildingID uuid.UUID
	EventTypes []string
	EntityType string
	Topic      string
	Since      *time.Time
	Until      *time.Time
	Pagination Pagination
}

// Type implements gocommand.Message for query inputs.
func (EngagementFilter) Type() string {
	return "query.engagement.feed"
}

// Validate implements gocommand.Message.
func (filter EngagementFilter) Validate() error {
	if filter.BuildingID == uuid.Nil {
		return ErrBuildingIDRequired
	}
	return nil
}

// EngagementPage represents a paginated feed response.
type EngagementPage struct {
	Records    []EngagementRecord
	Total      int
	NextOffset int
	HasMore    bool
}

// EngagementStatsFilter scopes aggregate engagement queries.
type EngagementStatsFilter struct {
	UserID     uuid.UUID
	BuildingID uuid.UUID
	Since      *time.Time
	Until      *time.Time
	EventTypes []string
}

// Type implements gocommand.Message for query inputs.
func (EngagementStatsFilter) Type() string {
	return "query.engagement.stats"
}

// Validate implements gocommand.Message.
func (filter EngagementStatsFilter) Validate() error {
	if filter.BuildingID == uuid.Nil {
		return ErrBuildingIDRequired
	}
	return nil
}

// EngagementStats powers dashboard widgets summarizing event types.
type EngagementStats struct {
	Total       int
	ByEventType map[string]int
}

// EngagementRepository exposes read-side access to the engagement log.
type EngagementRepository interface {
	ListEngagement(ctx context.Context, filter EngagementFilter) (EngagementPage, error)
	EngagementStats(ctx context.Context, filter EngagementStatsFilter) (EngagementStats, error)
}

// ActivitySignals aggregates building-wide counts over fixed windows. All
// counts are plain non-negative integers; absence of data is zero, never a
// sentinel, so narration and scoring never special-case missing data.
type ActivitySignals struct {
	PackagesPending     int
	EventsToday         int
	EventsThisWeek      int
	PostsLast24h        int
	BulletinItemsLast7d int
	JoinersLast24h      int
	JoinersLast7d       int
}

// JoinerCounts carries the aggregate-only resident join counts. The source
// contract deliberately exposes two integers and never individual rows.
type JoinerCounts struct {
	Last24h int
	Last7d  int
}

// ActivitySource reads building-wide counts from the hosting platform's data
// stores. Each method covers one signal so the aggregator can fan out and
// degrade failed fetches independently.
type ActivitySource interface {
	PendingPackages(ctx context.Context, buildingID uuid.UUID) (int, error)
	EventsBetween(ctx context.Context, buildingID uuid.UUID, from, until time.Time) (int, error)
	PostsSince(ctx context.Context, buildingID uuid.UUID, since time.Time) (int, error)
	BulletinListingsSince(ctx context.Context, buildingID uuid.UUID, since time.Time) (int, error)
}

// JoinerSource returns aggregate joiner counts for a building.
type JoinerSource interface {
	JoinerCounts(ctx context.Context, buildingID uuid.UUID, now time.Time) (JoinerCounts, error)
}

// HomeContext carries the narrated status lines. Line1 is always present;
// Line2 is empty when there is no momentum to report.
type HomeContext struct {
	Line1 string
	Line2 string
}

// Momentum summarizes resident growth for the momentum widget.
type Momentum struct {
	JoinersLast7d int
	Line          string
}

// HomeBrief is the engine's output and the cached artifact. CardRanking is
// always a permutation of the four known categories.
type HomeBrief struct {
	Context     HomeContext
	Momentum    Momentum
	CardRanking []CardCategory
	GeneratedAt time.Time
}

// DefaultBrief returns the no-personalization brief served when aggregation
// fails or personalization is disabled: empty context, default card order.
func DefaultBrief(now time.Time) HomeBrief {
	return HomeBrief{
		CardRanking: DefaultCardOrder(),
		GeneratedAt: now,
	}
}

// BriefResult wraps a brief with its cache provenance.
type BriefResult struct {
	Brief     HomeBrief
	FromCache bool
}

// BriefCache persists generated briefs keyed by (user, building). Get returns
// nil on a miss; freshness is a policy decision made by the caller, not the
// store. Put is an idempotent last-write-wins overwrite.
type BriefCache interface {
	GetBrief(ctx context.Context, userID, buildingID uuid.UUID) (*HomeBrief, error)
	PutBrief(ctx context.Context, userID, buildingID uuid.UUID, brief HomeBrief) error
}

// BriefEvent is emitted after a brief is generated (cache hits do not emit).
type BriefEvent struct {
	UserID      uuid.UUID
	BuildingID  uuid.UUID
	Brief       HomeBrief
	GeneratedAt time.Time
}

// Hooks groups optional callbacks invoked after key workflows complete.
type Hooks struct {
	AfterEngagement func(context.Context, EngagementRecord)
	AfterBrief      func(context.Context, BriefEvent)
}

// Pagination supports query pagination across admin panels.
type Pagination struct {
	Limit  int
	Offset int
}

// Clock abstracts time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID creation.
type IDGenerator interface {
	UUID() uuid.UUID
}

// Logger captures basic logging hooks used by the engine.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Error(msg string, err error, fields ...any)
}

// SystemClock defers to time.Now for production usage.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator produces UUIDv4 identifiers.
type UUIDGenerator struct{}

// UUID returns a randomly generated UUID.
func (UUIDGenerator) UUID() uuid.UUID { return uuid.New() }

// NopLogger discards all log lines.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, error, ...any) {}

var (
	// ErrUserIDRequired indicates a user identifier was omitted.
	ErrUserIDRequired = errors.New("go-homebrief: user id required")
	// ErrBuildingIDRequired indicates a building identifier was omitted.
	ErrBuildingIDRequired = errors.New("go-homebrief: building id required")
	// ErrServiceNotReady indicates the service has not been properly configured.
	ErrServiceNotReady = errors.New("go-homebrief: service not ready")
	// ErrMissingEngagementSink occurs when no engagement sink was supplied.
	ErrMissingEngagementSink = errors.New("go-homebrief: missing engagement sink")
	// ErrMissingEngagementRepository occurs when no engagement repository was supplied.
	ErrMissingEngagementRepository = errors.New("go-homebrief: missing engagement repository")
	// ErrMissingActivitySource occurs when the aggregator lacks a building activity source.
	ErrMissingActivitySource = errors.New("go-homebrief: missing activity source")
	// ErrMissingJoinerSource occurs when the aggregator lacks a joiner aggregate source.
	ErrMissingJoinerSource = errors.New("go-homebrief: missing joiner source")
	// ErrMissingBriefCache occurs when no brief cache was supplied.
	ErrMissingBriefCache = errors.New("go-homebrief: missing brief cache")
	// ErrMissingAggregator occurs when brief generation lacks a signal aggregator.
	ErrMissingAggregator = errors.New("go-homebrief: missing signal aggregator")
)
