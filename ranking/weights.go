package ranking

import (
	opts "github.com/goliatone/go-options"
)

// Weight override keys accepted by ResolveWeights.
const (
	WeightKeyPackagePending  = "package_pending"
	WeightKeyEventToday      = "event_today"
	WeightKeyEventUpcoming   = "event_upcoming"
	WeightKeyCommunityPost   = "community_post"
	WeightKeyBulletinListing = "bulletin_listing"
	WeightKeyEngagementBoost = "engagement_boost"
)

// Weights holds the per-signal multipliers feeding category scores. The
// defaults encode a deliberate priority ordering: urgent, actionable signals
// (pending packages, same-day events) outweigh passive browsing signals.
type Weights struct {
	PackagePending  int
	EventToday      int
	EventUpcoming   int
	CommunityPost   int
	BulletinListing int
	EngagementBoost int
}

// DefaultWeights returns the stock scoring weights.
func DefaultWeights() Weights {
	return Weights{
		PackagePending:  10,
		EventToday:      8,
		EventUpcoming:   2,
		CommunityPost:   5,
		BulletinListing: 3,
		EngagementBoost: 2,
	}
}

func (w Weights) toMap() map[string]any {
	return map[string]any{
		WeightKeyPackagePending:  w.PackagePending,
		WeightKeyEventToday:      w.EventToday,
		WeightKeyEventUpcoming:   w.EventUpcoming,
		WeightKeyCommunityPost:   w.CommunityPost,
		WeightKeyBulletinListing: w.BulletinListing,
		WeightKeyEngagementBoost: w.EngagementBoost,
	}
}

// ResolveWeights merges the default weights with host-supplied override layers
// via a go-options stack. Later layers win; unknown keys and non-numeric
// values are ignored so a partial or sloppy override never breaks scoring.
func ResolveWeights(overrides ...map[string]any) (Weights, error) {
	base := opts.NewScope("defaults", opts.ScopePrioritySystem,
		opts.WithScopeLabel("Scoring Defaults"))
	layers := []opts.Layer[map[string]any]{
		opts.NewLayer(base, DefaultWeights().toMap(), opts.WithSnapshotID[map[string]any](base.Name)),
	}
	for i, override := range overrides {
		if len(override) == 0 {
			continue
		}
		scope := opts.NewScope("override", opts.ScopePrioritySystem+i+1,
			opts.WithScopeLabel("Host Override"))
		layers = append(layers, opts.NewLayer(scope, override, opts.WithSnapshotID[map[string]any](scope.Name)))
	}

	stack, err := opts.NewStack(layers...)
	if err != nil {
		return DefaultWeights(), err
	}
	merged, err := stack.Merge()
	if err != nil {
		return DefaultWeights(), err
	}
	return weightsFromMap(merged.Value), nil
}

func weightsFromMap(values map[string]any) Weights {
	w := DefaultWeights()
	if len(values) == 0 {
		return w
	}
	assign := func(key string, target *int) {
		if value, ok := intValue(values[key]); ok {
			*target = value
		}
	}
	assign(WeightKeyPackagePending, &w.PackagePending)
	assign(WeightKeyEventToday, &w.EventToday)
	assign(WeightKeyEventUpcoming, &w.EventUpcoming)
	assign(WeightKeyCommunityPost, &w.CommunityPost)
	assign(WeightKeyBulletinListing, &w.BulletinListing)
	assign(WeightKeyEngagementBoost, &w.EngagementBoost)
	return w
}

func intValue(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
