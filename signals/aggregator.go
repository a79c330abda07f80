package signals

import (
	"context"
	"time"

	"github.com/goliatone/go-homebrief/pkg/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultEngagementLimit bounds how many of the user's own recent events feed
// the ranking boost. The bound caps query cost; it is an accepted
// approximation, not a correctness requirement.
const DefaultEngagementLimit = 100

// AggregatorConfig wires the external sources the aggregator reads from.
type AggregatorConfig struct {
	Activity        types.ActivitySource
	Joiners         types.JoinerSource
	Engagement      types.EngagementRepository
	Clock           types.Clock
	Logger          types.Logger
	Location        *time.Location
	EngagementLimit int
}

// Aggregator pulls building-wide counts and the requesting user's recent
// engagement in one concurrent pass.
type Aggregator struct {
	activity        types.ActivitySource
	joiners         types.JoinerSource
	engagement      types.EngagementRepository
	logger          types.Logger
	location        *time.Location
	engagementLimit int
}

// NewAggregator constructs an aggregator from the supplied configuration.
func NewAggregator(cfg AggregatorConfig) (*Aggregator, error) {
	if cfg.Activity == nil {
		return nil, types.ErrMissingActivitySource
	}
	if cfg.Joiners == nil {
		return nil, types.ErrMissingJoinerSource
	}
	if cfg.Engagement == nil {
		return nil, types.ErrMissingEngagementRepository
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	limit := cfg.EngagementLimit
	if limit <= 0 || limit > DefaultEngagementLimit {
		limit = DefaultEngagementLimit
	}
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	return &Aggregator{
		activity:        cfg.Activity,
		joiners:         cfg.Joiners,
		engagement:      cfg.Engagement,
		logger:          logger,
		location:        location,
		engagementLimit: limit,
	}, nil
}

// Aggregate fetches all activity signals for the building plus the user's
// recent engagement. The six fetches run concurrently; a failure on any one of
// them degrades that signal to zero (or an empty list) rather than failing the
// whole call. The returned error is non-nil only for invalid input or when the
// context is cancelled before the fan-out completes.
func (a *Aggregator) Aggregate(ctx context.Context, buildingID, userID uuid.UUID, now time.Time) (types.ActivitySignals, []types.EngagementRecord, error) {
	if buildingID == uuid.Nil {
		return types.ActivitySignals{}, nil, types.ErrBuildingIDRequired
	}
	if userID == uuid.Nil {
		return types.ActivitySignals{}, nil, types.ErrUserIDRequired
	}

	windows := ComputeWindows(now, a.location)

	var (
		signals types.ActivitySignals
		recent  []types.EngagementRecord
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := a.activity.PendingPackages(gctx, buildingID)
		signals.PackagesPending = a.degrade("packages_pending", count, err)
		return nil
	})
	g.Go(func() error {
		count, err := a.activity.EventsBetween(gctx, buildingID, windows.TodayStart, windows.TodayEnd)
		signals.EventsToday = a.degrade("events_today", count, err)
		return nil
	})
	g.Go(func() error {
		// Upcoming events over the next 30 days; this broader window feeds
		// scoring while the calendar-day count above feeds narration.
		count, err := a.activity.EventsBetween(gctx, buildingID, windows.Now, windows.Next30d)
		signals.EventsThisWeek = a.degrade("events_upcoming", count, err)
		return nil
	})
	g.Go(func() error {
		count, err := a.activity.PostsSince(gctx, buildingID, windows.Last24h)
		signals.PostsLast24h = a.degrade("posts_last_24h", count, err)
		return nil
	})
	g.Go(func() error {
		count, err := a.activity.BulletinListingsSince(gctx, buildingID, windows.Last7d)
		signals.BulletinItemsLast7d = a.degrade("bulletin_last_7d", count, err)
		return nil
	})
	g.Go(func() error {
		counts, err := a.joiners.JoinerCounts(gctx, buildingID, now)
		if err != nil {
			a.logger.Error("signals: joiner fetch failed, degrading to zero", err)
			return nil
		}
		signals.JoinersLast24h = clampNonNegative(counts.Last24h)
		signals.JoinersLast7d = clampNonNegative(counts.Last7d)
		if signals.JoinersLast24h > signals.JoinersLast7d {
			signals.JoinersLast7d = signals.JoinersLast24h
		}
		return nil
	})
	g.Go(func() error {
		since := windows.Last7d
		page, err := a.engagement.ListEngagement(gctx, types.EngagementFilter{
			UserID:     userID,
			BuildingID: buildingID,
			Since:      &since,
			Pagination: types.Pagination{Limit: a.engagementLimit},
		})
		if err != nil {
			a.logger.Error("signals: engagement fetch failed, degrading to empty", err)
			return nil
		}
		recent = page.Records
		return nil
	})

	// Fetch closures always return nil; the group is used for its context
	// plumbing and join semantics, not error propagation.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return types.ActivitySignals{}, nil, err
	}
	return signals, recent, nil
}

func (a *Aggregator) degrade(signal string, count int, err error) int {
	if err != nil {
		a.logger.Error("signals: "+signal+" fetch failed, degrading to zero", err)
		return 0
	}
	return clampNonNegative(count)
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
