// Package ranking converts aggregated activity signals plus the user's recent
// engagement into a total order over the four dashboard card categories. The
// scorer is pure and deterministic; equal scores keep the fixed default order.
package ranking

import (
	"sort"

	"github.com/goliatone/go-homebrief/pkg/types"
)

// Scores computes the per-category totals for the supplied inputs. Activity
// contributes weighted counts; each recent engagement event adds a flat boost
// to the category it maps to. Events that map to nothing contribute nothing.
func Scores(signals types.ActivitySignals, engagement []types.EngagementRecord, weights Weights) map[types.CardCategory]int {
	scores := map[types.CardCategory]int{
		types.CardPackages:  signals.PackagesPending * weights.PackagePending,
		types.CardEvents:    signals.EventsToday*weights.EventToday + signals.EventsThisWeek*weights.EventUpcoming,
		types.CardCommunity: signals.PostsLast24h * weights.CommunityPost,
		types.CardBulletin:  signals.BulletinItemsLast7d * weights.BulletinListing,
	}

	for _, record := range engagement {
		if category, ok := categoryFor(record); ok {
			scores[category] += weights.EngagementBoost
		}
	}
	return scores
}

// Rank orders the four card categories by descending score. The sort is
// stable over the fixed default order, so categories with equal scores never
// swap across repeated calls with identical input.
func Rank(signals types.ActivitySignals, engagement []types.EngagementRecord, weights Weights) []types.CardCategory {
	scores := Scores(signals, engagement, weights)
	order := types.DefaultCardOrder()
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	return order
}

// categoryFor resolves the boost target for one engagement record. The entity
// type wins when present; otherwise the event type mapping applies.
func categoryFor(record types.EngagementRecord) (types.CardCategory, bool) {
	if category, ok := types.CategoryForEntity(record.EntityType); ok {
		return category, true
	}
	return types.CategoryForEvent(record.EventType)
}
