package command

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-homebrief/brief"
	"github.com/goliatone/go-homebrief/pkg/types"
	"github.com/google/uuid"
)

// BriefRefreshInput forces a recompute for one (user, building) pair,
// bypassing the freshness window. Result, when supplied, receives the
// generated brief.
type BriefRefreshInput struct {
	UserID     uuid.UUID
	BuildingID uuid.UUID
	Now        time.Time
	Result     *types.HomeBrief
}

// Type implements gocommand.Message.
func (BriefRefreshInput) Type() string {
	return "command.brief.refresh"
}

// Validate implements gocommand.Message.
func (input BriefRefreshInput) Validate() error {
	if input.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	if input.BuildingID == uuid.Nil {
		return ErrBuildingIDRequired
	}
	return nil
}

// BriefRefreshCommand regenerates and stores a brief regardless of the cached
// entry's age. Unlike the read path, a cache write failure here is surfaced:
// the command exists to repopulate the cache, so a silent no-op would defeat it.
type BriefRefreshCommand struct {
	generator *brief.Generator
	cache     types.BriefCache
	clock     types.Clock
	logger    types.Logger
}

// BriefRefreshConfig wires dependencies for the refresh command.
type BriefRefreshConfig struct {
	Generator *brief.Generator
	Cache     types.BriefCache
	Clock     types.Clock
	Logger    types.Logger
}

// NewBriefRefreshCommand constructs the refresh command handler.
func NewBriefRefreshCommand(cfg BriefRefreshConfig) *BriefRefreshCommand {
	return &BriefRefreshCommand{
		generator: cfg.Generator,
		cache:     cfg.Cache,
		clock:     safeClock(cfg.Clock),
		logger:    safeLogger(cfg.Logger),
	}
}

var _ gocommand.Commander[BriefRefreshInput] = (*BriefRefreshCommand)(nil)

// Execute recomputes the brief and writes it to the cache.
func (c *BriefRefreshCommand) Execute(ctx context.Context, input BriefRefreshInput) error {
	if c.generator == nil {
		return ErrGeneratorRequired
	}
	if c.cache == nil {
		return types.ErrMissingBriefCache
	}
	if err := input.Validate(); err != nil {
		return err
	}
	at := input.Now
	if at.IsZero() {
		at = now(c.clock)
	}

	generated, err := c.generator.Generate(ctx, input.UserID, input.BuildingID, at)
	if err != nil {
		return err
	}
	if err := c.cache.PutBrief(ctx, input.UserID, input.BuildingID, generated); err != nil {
		return err
	}
	if input.Result != nil {
		*input.Result = generated
	}
	return nil
}
