package service

import (
	"context"
	"time"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-homebrief/brief"
	"github.com/goliatone/go-homebrief/command"
	"github.com/goliatone/go-homebrief/engagement"
	"github.com/goliatone/go-homebrief/narrator"
	"github.com/goliatone/go-homebrief/pkg/types"
	"github.com/goliatone/go-homebrief/query"
	"github.com/goliatone/go-homebrief/signals"
	"github.com/goliatone/go-masker"
)

// Service is the entry point for go-homebrief. It wires signal sources, the
// engagement log, the brief cache, hooks, and the command/query facades
// supplied by the host application.
type Service struct {
	cfg        Config
	commands   Commands
	queries    Queries
	sink       types.EngagementSink
	repo       types.EngagementRepository
	aggregator *signals.Aggregator
	generator  *brief.Generator
}

// Commands exposes the service command handlers.
type Commands struct {
	LogEngagement *command.EngagementLogCommand
	RefreshBrief  *command.BriefRefreshCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	HomeBrief       *query.HomeBriefQuery
	EngagementFeed  *query.EngagementFeedQuery
	EngagementStats *query.EngagementStatsQuery
}

// Config captures all required dependencies so callers can provide their own
// instances (bun.DB-backed sources, cached repositories, hooks, etc.).
type Config struct {
	ActivitySource       types.ActivitySource
	JoinerSource         types.JoinerSource
	EngagementSink       types.EngagementSink
	EngagementRepository types.EngagementRepository
	BriefCache           types.BriefCache
	FeatureGate          featuregate.FeatureGate
	Hooks                types.Hooks
	Clock                types.Clock
	IDGenerator          types.IDGenerator
	Logger               types.Logger
	// Masker overrides the default engagement metadata masker.
	Masker *masker.Masker
	// Narrator overrides the default context narrator.
	Narrator *narrator.Narrator
	// Location sets the building-local day boundary; defaults to UTC.
	Location *time.Location
	// MaxBriefAge is the freshness window for cached briefs.
	MaxBriefAge time.Duration
	// EngagementLimit caps the recent-engagement fetch feeding the ranking boost.
	EngagementLimit int
	// WeightOverrides layer over the default ranking weights, later maps winning.
	WeightOverrides []map[string]any
	// QuietLines overrides the narrator's quiet-day sentence set.
	QuietLines []string
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) *Service {
	norm := normalizeConfig(cfg)

	repo := norm.EngagementRepository
	if repo == nil {
		if cast, ok := norm.EngagementSink.(types.EngagementRepository); ok {
			repo = cast
		}
	}

	var sink types.EngagementSink
	if norm.EngagementSink != nil {
		sink = &engagement.SanitizingSink{
			Sink:   norm.EngagementSink,
			Masker: norm.Masker,
		}
	}

	s := &Service{
		cfg:  norm,
		sink: sink,
		repo: repo,
	}

	if norm.ActivitySource != nil && norm.JoinerSource != nil && repo != nil {
		aggregator, err := signals.NewAggregator(signals.AggregatorConfig{
			Activity:        norm.ActivitySource,
			Joiners:         norm.JoinerSource,
			Engagement:      repo,
			Clock:           norm.Clock,
			Logger:          norm.Logger,
			Location:        norm.Location,
			EngagementLimit: norm.EngagementLimit,
		})
		if err != nil {
			norm.Logger.Error("go-homebrief: aggregator initialization failed", err)
		} else {
			s.aggregator = aggregator
		}
	}

	if s.aggregator != nil {
		narrate := norm.Narrator
		if narrate == nil {
			narrate = narrator.New(narrator.Config{QuietLines: norm.QuietLines})
		}
		generator, err := brief.NewGenerator(brief.GeneratorConfig{
			Aggregator:      s.aggregator,
			Narrator:        narrate,
			WeightOverrides: norm.WeightOverrides,
			Hooks:           norm.Hooks,
			Logger:          norm.Logger,
		})
		if err != nil {
			norm.Logger.Error("go-homebrief: generator initialization failed", err)
		} else {
			s.generator = generator
		}
	}

	s.commands = s.buildCommands()
	s.queries = s.buildQueries()
	return s
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxBriefAge <= 0 {
		cfg.MaxBriefAge = query.DefaultMaxBriefAge
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// EngagementSink returns the configured sink (with sanitization applied) so
// transports can emit engagement records for auxiliary workflows.
func (s *Service) EngagementSink() types.EngagementSink {
	if s == nil {
		return nil
	}
	return s.sink
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil &&
		s.sink != nil &&
		s.repo != nil &&
		s.cfg.BriefCache != nil &&
		s.aggregator != nil &&
		s.generator != nil
}

// HealthCheck surfaces missing configuration so upstream transports can fail
// fast at boot instead of serving degraded briefs forever.
func (s *Service) HealthCheck(ctx context.Context) error {
	if !s.Ready() {
		return types.ErrServiceNotReady
	}
	if s.cfg.ActivitySource == nil {
		return types.ErrMissingActivitySource
	}
	if s.cfg.JoinerSource == nil {
		return types.ErrMissingJoinerSource
	}
	if s.sink == nil {
		return types.ErrMissingEngagementSink
	}
	if s.repo == nil {
		return types.ErrMissingEngagementRepository
	}
	if s.cfg.BriefCache == nil {
		return types.ErrMissingBriefCache
	}
	return nil
}

func (s *Service) buildCommands() Commands {
	return Commands{
		LogEngagement: command.NewEngagementLogCommand(command.EngagementLogConfig{
			Sink:  s.sink,
			Hooks: s.cfg.Hooks,
			Clock: s.cfg.Clock,
		}),
		RefreshBrief: command.NewBriefRefreshCommand(command.BriefRefreshConfig{
			Generator: s.generator,
			Cache:     s.cfg.BriefCache,
			Clock:     s.cfg.Clock,
			Logger:    s.cfg.Logger,
		}),
	}
}

func (s *Service) buildQueries() Queries {
	return Queries{
		HomeBrief: query.NewHomeBriefQuery(query.HomeBriefConfig{
			Generator: s.generator,
			Cache:     s.cfg.BriefCache,
			Gate:      s.cfg.FeatureGate,
			Clock:     s.cfg.Clock,
			Logger:    s.cfg.Logger,
			MaxAge:    s.cfg.MaxBriefAge,
		}),
		EngagementFeed:  query.NewEngagementFeedQuery(s.repo),
		EngagementStats: query.NewEngagementStatsQuery(s.repo),
	}
}
