package ranking

import (
	"testing"

	"github.com/goliatone/go-homebrief/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestScores_WeightedSignals(t *testing.T) {
	signals := types.ActivitySignals{
		PackagesPending:     2,
		EventsToday:         1,
		EventsThisWeek:      3,
		PostsLast24h:        4,
		BulletinItemsLast7d: 5,
	}

	scores := Scores(signals, nil, DefaultWeights())
	require.Equal(t, 20, scores[types.CardPackages])
	require.Equal(t, 14, scores[types.CardEvents])
	require.Equal(t, 20, scores[types.CardCommunity])
	require.Equal(t, 15, scores[types.CardBulletin])
}

func TestScores_EngagementBoost(t *testing.T) {
	engagement := []types.EngagementRecord{
		{EventType: types.EngagementPackageOpen},
		{EventType: types.EngagementPackageOpen},
		{EventType: types.EngagementPostOpen},
		{EventType: "unknown_surface"},
		{EventType: types.EngagementHomeView},
	}

	scores := Scores(types.ActivitySignals{}, engagement, DefaultWeights())
	require.Equal(t, 4, scores[types.CardPackages])
	require.Equal(t, 2, scores[types.CardCommunity])
	require.Equal(t, 0, scores[types.CardEvents])
	require.Equal(t, 0, scores[types.CardBulletin])
}

func TestScores_EntityTypeWinsOverEventType(t *testing.T) {
	engagement := []types.EngagementRecord{
		{EventType: types.EngagementPostOpen, EntityType: "event"},
	}

	scores := Scores(types.ActivitySignals{}, engagement, DefaultWeights())
	require.Equal(t, 2, scores[types.CardEvents])
	require.Equal(t, 0, scores[types.CardCommunity])
}

func TestRank_DescendingScores(t *testing.T) {
	signals := types.ActivitySignals{
		PostsLast24h:        10,
		BulletinItemsLast7d: 1,
		EventsToday:         1,
	}

	order := Rank(signals, nil, DefaultWeights())
	require.Equal(t, []types.CardCategory{
		types.CardCommunity,
		types.CardEvents,
		types.CardBulletin,
		types.CardPackages,
	}, order)
}

func TestRank_TiesKeepDefaultOrder(t *testing.T) {
	order := Rank(types.ActivitySignals{}, nil, DefaultWeights())
	require.Equal(t, types.DefaultCardOrder(), order)

	// Partial ties keep the default relative order within the tied group.
	signals := types.ActivitySignals{PostsLast24h: 1, EventsToday: 0}
	order = Rank(signals, nil, DefaultWeights())
	require.Equal(t, []types.CardCategory{
		types.CardCommunity,
		types.CardPackages,
		types.CardEvents,
		types.CardBulletin,
	}, order)
}

func TestRank_IsDeterministic(t *testing.T) {
	signals := types.ActivitySignals{PackagesPending: 1, PostsLast24h: 2}
	engagement := []types.EngagementRecord{{EventType: types.EngagementBulletinOpen}}

	first := Rank(signals, engagement, DefaultWeights())
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Rank(signals, engagement, DefaultWeights()))
	}
}

func TestResolveWeights_Defaults(t *testing.T) {
	weights, err := ResolveWeights()
	require.NoError(t, err)
	require.Equal(t, DefaultWeights(), weights)
}

func TestResolveWeights_LayeredOverrides(t *testing.T) {
	weights, err := ResolveWeights(
		map[string]any{WeightKeyPackagePending: 20, WeightKeyCommunityPost: 7},
		map[string]any{WeightKeyCommunityPost: 9},
	)
	require.NoError(t, err)
	require.Equal(t, 20, weights.PackagePending)
	require.Equal(t, 9, weights.CommunityPost)
	require.Equal(t, DefaultWeights().EventToday, weights.EventToday)
}

func TestResolveWeights_IgnoresJunkValues(t *testing.T) {
	weights, err := ResolveWeights(map[string]any{
		WeightKeyEventToday:      "not-a-number",
		WeightKeyEngagementBoost: float64(6),
		"unknown_key":            1,
	})
	require.NoError(t, err)
	require.Equal(t, DefaultWeights().EventToday, weights.EventToday)
	require.Equal(t, 6, weights.EngagementBoost)
}
