package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-homebrief/pkg/types"
)

// EngagementFeedQuery renders paginated engagement feeds for admin panels.
type EngagementFeedQuery struct {
	repo types.EngagementRepository
}

// NewEngagementFeedQuery constructs the feed query helper.
func NewEngagementFeedQuery(repo types.EngagementRepository) *EngagementFeedQuery {
	return &EngagementFeedQuery{repo: repo}
}

var _ gocommand.Querier[types.EngagementFilter, types.EngagementPage] = (*EngagementFeedQuery)(nil)

// Query fetches a page of engagement events via the injected repository.
func (q *EngagementFeedQuery) Query(ctx context.Context, filter types.EngagementFilter) (types.EngagementPage, error) {
	if q.repo == nil {
		return types.EngagementPage{}, types.ErrMissingEngagementRepository
	}
	if err := filter.Validate(); err != nil {
		return types.EngagementPage{}, err
	}
	return q.repo.ListEngagement(ctx, filter)
}

// EngagementStatsQuery aggregates engagement counts per event type.
type EngagementStatsQuery struct {
	repo types.EngagementRepository
}

// NewEngagementStatsQuery constructs the stats helper.
func NewEngagementStatsQuery(repo types.EngagementRepository) *EngagementStatsQuery {
	return &EngagementStatsQuery{repo: repo}
}

var _ gocommand.Querier[types.EngagementStatsFilter, types.EngagementStats] = (*EngagementStatsQuery)(nil)

// Query returns aggregate counts for UI widgets.
func (q *EngagementStatsQuery) Query(ctx context.Context, filter types.EngagementStatsFilter) (types.EngagementStats, error) {
	if q.repo == nil {
		return types.EngagementStats{}, types.ErrMissingEngagementRepository
	}
	if err := filter.Validate(); err != nil {
		return types.EngagementStats{}, err
	}
	return q.repo.EngagementStats(ctx, filter)
}
