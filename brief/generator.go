// Package brief composes aggregated signals, narration, and card ranking into
// the HomeBrief artifact. The generator is the recompute path shared by the
// cache-first query and the forced refresh command.
package brief

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-homebrief/narrator"
	"github.com/goliatone/go-homebrief/pkg/types"
	"github.com/goliatone/go-homebrief/ranking"
	"github.com/google/uuid"
)

// SignalAggregator is the slice of the signals.Aggregator contract the
// generator needs, kept as an interface so tests can fake it.
type SignalAggregator interface {
	Aggregate(ctx context.Context, buildingID, userID uuid.UUID, now time.Time) (types.ActivitySignals, []types.EngagementRecord, error)
}

// GeneratorConfig wires the brief generation pipeline.
type GeneratorConfig struct {
	Aggregator SignalAggregator
	Narrator   *narrator.Narrator
	// WeightOverrides are merged over the default scoring weights, later
	// layers winning, via ranking.ResolveWeights.
	WeightOverrides []map[string]any
	Hooks           types.Hooks
	Logger          types.Logger
}

// Generator produces briefs on demand.
type Generator struct {
	aggregator SignalAggregator
	narrator   *narrator.Narrator
	weights    ranking.Weights
	hooks      types.Hooks
	logger     types.Logger
}

// NewGenerator constructs a generator from the supplied configuration.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.Aggregator == nil {
		return nil, types.ErrMissingAggregator
	}
	narrate := cfg.Narrator
	if narrate == nil {
		narrate = narrator.New(narrator.Config{})
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	weights, err := ranking.ResolveWeights(cfg.WeightOverrides...)
	if err != nil {
		return nil, err
	}
	return &Generator{
		aggregator: cfg.Aggregator,
		narrator:   narrate,
		weights:    weights,
		hooks:      cfg.Hooks,
		logger:     logger,
	}, nil
}

// Generate recomputes the brief for the pair at now. Narration and ranking
// are independent of each other's output and run concurrently once signals
// are in. Errors surface only for invalid input or cancellation; signal-level
// failures are already degraded to zeros inside the aggregator.
func (g *Generator) Generate(ctx context.Context, userID, buildingID uuid.UUID, now time.Time) (types.HomeBrief, error) {
	signals, recent, err := g.aggregator.Aggregate(ctx, buildingID, userID, now)
	if err != nil {
		return types.HomeBrief{}, err
	}

	var (
		homeContext types.HomeContext
		momentum    types.Momentum
		cardRanking []types.CardCategory
		wg          sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		homeContext = g.narrator.Narrate(signals)
		momentum = g.narrator.Momentum(signals)
	}()
	go func() {
		defer wg.Done()
		cardRanking = ranking.Rank(signals, recent, g.weights)
	}()
	wg.Wait()

	generated := types.HomeBrief{
		Context:     homeContext,
		Momentum:    momentum,
		CardRanking: cardRanking,
		GeneratedAt: now,
	}

	if g.hooks.AfterBrief != nil {
		g.hooks.AfterBrief(ctx, types.BriefEvent{
			UserID:      userID,
			BuildingID:  buildingID,
			Brief:       generated,
			GeneratedAt: now,
		})
	}
	return generated, nil
}

// Weights exposes the resolved scoring weights, mainly for diagnostics.
func (g *Generator) Weights() ranking.Weights {
	return g.weights
}
