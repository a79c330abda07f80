// Package query hosts the read-side handlers for go-homebrief. HomeBriefQuery
// is the dashboard entry point; the engagement feed and stats queries power
// admin panels over the same log the ranking boost reads from.
package query

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"
	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-homebrief/brief"
	"github.com/goliatone/go-homebrief/pkg/types"
	"github.com/google/uuid"
)

// DefaultMaxBriefAge is the freshness window applied when neither the query
// configuration nor the request override it. Tens of minutes is a product
// tuning default, not a correctness constraint.
const DefaultMaxBriefAge = 30 * time.Minute

// HomeBriefRequest asks for the brief for one (user, building) pair.
type HomeBriefRequest struct {
	UserID     uuid.UUID
	BuildingID uuid.UUID
	// BuildingName is carried for transports that fold it into the response
	// payload; the engine itself does not read it.
	BuildingName string
	// Now defaults to the query clock; tests pin it for determinism.
	Now time.Time
	// MaxAge overrides the configured freshness window when positive.
	MaxAge time.Duration
}

// Type implements gocommand.Message for query inputs.
func (HomeBriefRequest) Type() string {
	return "query.home.brief"
}

// Validate implements gocommand.Message.
func (req HomeBriefRequest) Validate() error {
	if req.UserID == uuid.Nil {
		return types.ErrUserIDRequired
	}
	if req.BuildingID == uuid.Nil {
		return types.ErrBuildingIDRequired
	}
	return nil
}

// HomeBriefQuery serves briefs cache-first and recomputes on miss. All
// recoverable failures degrade: a broken cache reads as a miss, a failed
// cache write is logged and dropped, and a failed recompute yields the
// no-personalization default so the dashboard always renders.
type HomeBriefQuery struct {
	generator *brief.Generator
	cache     types.BriefCache
	gate      featuregate.FeatureGate
	clock     types.Clock
	logger    types.Logger
	maxAge    time.Duration
}

// HomeBriefConfig wires dependencies for the brief query.
type HomeBriefConfig struct {
	Generator *brief.Generator
	Cache     types.BriefCache
	Gate      featuregate.FeatureGate
	Clock     types.Clock
	Logger    types.Logger
	MaxAge    time.Duration
}

// NewHomeBriefQuery constructs the brief query handler.
func NewHomeBriefQuery(cfg HomeBriefConfig) *HomeBriefQuery {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxBriefAge
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &HomeBriefQuery{
		generator: cfg.Generator,
		cache:     cfg.Cache,
		gate:      cfg.Gate,
		clock:     clock,
		logger:    logger,
		maxAge:    maxAge,
	}
}

var _ gocommand.Querier[HomeBriefRequest, types.BriefResult] = (*HomeBriefQuery)(nil)

// Query returns the brief for the pair, from cache when fresh enough.
func (q *HomeBriefQuery) Query(ctx context.Context, req HomeBriefRequest) (types.BriefResult, error) {
	if q.generator == nil {
		return types.BriefResult{}, types.ErrMissingAggregator
	}
	if err := req.Validate(); err != nil {
		return types.BriefResult{}, err
	}
	now := req.Now
	if now.IsZero() {
		now = q.clock.Now()
	}
	maxAge := req.MaxAge
	if maxAge <= 0 {
		maxAge = q.maxAge
	}

	enabled, err := featureEnabled(ctx, q.gate, featurePersonalization, req.UserID, req.BuildingID)
	if err != nil {
		// A broken gate must not take the dashboard down with it.
		q.logger.Error("homebrief: feature gate check failed, serving personalized brief", err)
		enabled = true
	}
	if !enabled {
		return types.BriefResult{Brief: types.DefaultBrief(now)}, nil
	}

	if cached := q.cachedBrief(ctx, req.UserID, req.BuildingID, now, maxAge); cached != nil {
		return types.BriefResult{Brief: *cached, FromCache: true}, nil
	}

	generated, err := q.generator.Generate(ctx, req.UserID, req.BuildingID, now)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled mid-flight: abandon with no cache write.
			return types.BriefResult{}, ctx.Err()
		}
		q.logger.Error("homebrief: brief generation failed, serving default", err)
		return types.BriefResult{Brief: types.DefaultBrief(now)}, nil
	}

	if q.cache != nil {
		// Best-effort write: a cache failure never fails the response.
		if err := q.cache.PutBrief(ctx, req.UserID, req.BuildingID, generated); err != nil {
			q.logger.Error("homebrief: cache write failed, continuing", err)
		}
	}
	return types.BriefResult{Brief: generated}, nil
}

func (q *HomeBriefQuery) cachedBrief(ctx context.Context, userID, buildingID uuid.UUID, now time.Time, maxAge time.Duration) *types.HomeBrief {
	if q.cache == nil {
		return nil
	}
	cached, err := q.cache.GetBrief(ctx, userID, buildingID)
	if err != nil {
		// A broken cache read is a miss, never a failure.
		q.logger.Error("homebrief: cache read failed, treating as miss", err)
		return nil
	}
	if cached == nil {
		return nil
	}
	age := now.Sub(cached.GeneratedAt)
	if age < 0 || age > maxAge {
		return nil
	}
	return cached
}
