package command

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-homebrief/pkg/types"
	"github.com/google/uuid"
)

// EngagementLogInput wraps a record to persist through the EngagementSink.
type EngagementLogInput struct {
	Record types.EngagementRecord
}

// Type implements gocommand.Message.
func (EngagementLogInput) Type() string {
	return "command.engagement.log"
}

// Validate implements gocommand.Message. Event types outside the known set
// pass validation on purpose: unknown types are stored verbatim so new UI
// surfaces can ship before this module learns about them.
func (input EngagementLogInput) Validate() error {
	if input.Record.UserID == uuid.Nil {
		return ErrUserIDRequired
	}
	if input.Record.BuildingID == uuid.Nil {
		return ErrBuildingIDRequired
	}
	if strings.TrimSpace(input.Record.EventType) == "" {
		return ErrEventTypeRequired
	}
	return nil
}

// EngagementLogCommand appends engagement records. Callers on the hot path
// should treat Execute as fire-and-forget: log the returned error and move on,
// never let it fail the action the user just performed.
type EngagementLogCommand struct {
	sink  types.EngagementSink
	hooks types.Hooks
	clock types.Clock
}

// EngagementLogConfig wires dependencies for the log command.
type EngagementLogConfig struct {
	Sink  types.EngagementSink
	Hooks types.Hooks
	Clock types.Clock
}

// NewEngagementLogCommand constructs the logging command handler.
func NewEngagementLogCommand(cfg EngagementLogConfig) *EngagementLogCommand {
	return &EngagementLogCommand{
		sink:  cfg.Sink,
		hooks: cfg.Hooks,
		clock: safeClock(cfg.Clock),
	}
}

var _ gocommand.Commander[EngagementLogInput] = (*EngagementLogCommand)(nil)

// Execute validates and persists the supplied record.
func (c *EngagementLogCommand) Execute(ctx context.Context, input EngagementLogInput) error {
	if c.sink == nil {
		return types.ErrMissingEngagementSink
	}
	if err := input.Validate(); err != nil {
		return err
	}
	record := input.Record
	if record.OccurredAt.IsZero() {
		record.OccurredAt = now(c.clock)
	}
	if err := c.sink.Log(ctx, record); err != nil {
		return err
	}
	emitEngagementHook(ctx, c.hooks, record)
	return nil
}
