package brief

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-homebrief/pkg/types"
	"github.com/goliatone/go-homebrief/ranking"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeAggregator struct {
	signals types.ActivitySignals
	recent  []types.EngagementRecord
	err     error

	buildingID uuid.UUID
	userID     uuid.UUID
	now        time.Time
}

func (f *fakeAggregator) Aggregate(_ context.Context, buildingID, userID uuid.UUID, now time.Time) (types.ActivitySignals, []types.EngagementRecord, error) {
	f.buildingID = buildingID
	f.userID = userID
	f.now = now
	if f.err != nil {
		return types.ActivitySignals{}, nil, f.err
	}
	return f.signals, f.recent, nil
}

func TestGenerate_ComposesBrief(t *testing.T) {
	aggregator := &fakeAggregator{
		signals: types.ActivitySignals{
			EventsToday:     1,
			PackagesPending: 3,
			JoinersLast7d:   2,
		},
	}

	var event types.BriefEvent
	generator, err := NewGenerator(GeneratorConfig{
		Aggregator: aggregator,
		Hooks: types.Hooks{
			AfterBrief: func(_ context.Context, evt types.BriefEvent) {
				event = evt
			},
		},
	})
	require.NoError(t, err)

	userID := uuid.New()
	buildingID := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	generated, err := generator.Generate(context.Background(), userID, buildingID, now)
	require.NoError(t, err)

	require.Equal(t, "1 event today · 3 packages waiting", generated.Context.Line1)
	require.Equal(t, "2 new residents joined this week.", generated.Context.Line2)
	require.Equal(t, 2, generated.Momentum.JoinersLast7d)
	require.Equal(t, generated.Context.Line2, generated.Momentum.Line)
	require.Equal(t, []types.CardCategory{
		types.CardPackages,
		types.CardEvents,
		types.CardCommunity,
		types.CardBulletin,
	}, generated.CardRanking)
	require.True(t, generated.GeneratedAt.Equal(now))

	require.Equal(t, userID, event.UserID)
	require.Equal(t, buildingID, event.BuildingID)
	require.Equal(t, generated.Context, event.Brief.Context)

	require.Equal(t, buildingID, aggregator.buildingID)
	require.Equal(t, userID, aggregator.userID)
}

func TestGenerate_EngagementBoostShiftsRanking(t *testing.T) {
	// Bulletin has no building-wide activity but the user keeps opening
	// bulletin listings; the boost alone should lift it above community.
	aggregator := &fakeAggregator{
		signals: types.ActivitySignals{PostsLast24h: 1},
		recent: []types.EngagementRecord{
			{EventType: types.EngagementBulletinOpen},
			{EventType: types.EngagementBulletinOpen},
			{EventType: types.EngagementBulletinOpen},
		},
	}
	generator, err := NewGenerator(GeneratorConfig{Aggregator: aggregator})
	require.NoError(t, err)

	generated, err := generator.Generate(context.Background(), uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)
	require.Equal(t, types.CardBulletin, generated.CardRanking[0])
	require.Equal(t, types.CardCommunity, generated.CardRanking[1])
}

func TestGenerate_WeightOverridesApplied(t *testing.T) {
	aggregator := &fakeAggregator{
		signals: types.ActivitySignals{PackagesPending: 1, PostsLast24h: 1},
	}
	generator, err := NewGenerator(GeneratorConfig{
		Aggregator: aggregator,
		WeightOverrides: []map[string]any{
			{ranking.WeightKeyCommunityPost: 50},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 50, generator.Weights().CommunityPost)

	generated, err := generator.Generate(context.Background(), uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)
	require.Equal(t, types.CardCommunity, generated.CardRanking[0])
}

func TestGenerate_AggregatorErrorPropagates(t *testing.T) {
	aggregator := &fakeAggregator{err: errors.New("bad input")}
	hookCalled := false
	generator, err := NewGenerator(GeneratorConfig{
		Aggregator: aggregator,
		Hooks: types.Hooks{
			AfterBrief: func(context.Context, types.BriefEvent) {
				hookCalled = true
			},
		},
	})
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), uuid.New(), uuid.New(), time.Now())
	require.Error(t, err)
	require.False(t, hookCalled, "hook must not fire when aggregation fails")
}

func TestNewGenerator_RequiresAggregator(t *testing.T) {
	_, err := NewGenerator(GeneratorConfig{})
	require.ErrorIs(t, err, types.ErrMissingAggregator)
}
