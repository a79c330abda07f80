// Package crudsvc adapts the go-homebrief command/query layer to go-crud
// controllers so hosts can mount the engagement log on their REST routers.
// The log is append-only: update and delete operations are disabled.
package crudsvc

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-homebrief/command"
	"github.com/goliatone/go-homebrief/engagement"
	"github.com/goliatone/go-homebrief/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
)

// EngagementServiceConfig wires dependencies for the CRUD-backed engagement service.
type EngagementServiceConfig struct {
	LogCommand gocommand.Commander[command.EngagementLogInput]
	FeedQuery  gocommand.Querier[types.EngagementFilter, types.EngagementPage]
}

// EngagementService adapts the engagement command/query layer to a go-crud
// controller.
type EngagementService struct {
	logCmd  gocommand.Commander[command.EngagementLogInput]
	feed    gocommand.Querier[types.EngagementFilter, types.EngagementPage]
	emitter EngagementEmitter
	logger  types.Logger
}

// NewEngagementService constructs the adapter.
func NewEngagementService(cfg EngagementServiceConfig, opts ...ServiceOption) *EngagementService {
	options := applyOptions(opts)
	return &EngagementService{
		logCmd:  cfg.LogCommand,
		feed:    cfg.FeedQuery,
		emitter: options.emitter,
		logger:  options.logger,
	}
}

func (s *EngagementService) Create(ctx crud.Context, record *engagement.Event) (*engagement.Event, error) {
	if s.logCmd == nil {
		return nil, goerrors.New("engagement logging disabled", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	payload := engagement.ToEngagementRecord(record)
	input := command.EngagementLogInput{Record: payload}
	if err := s.logCmd.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	s.emit(ctx.UserContext(), payload)
	return engagement.FromEngagementRecord(payload), nil
}

func (s *EngagementService) CreateBatch(ctx crud.Context, records []*engagement.Event) ([]*engagement.Event, error) {
	created := make([]*engagement.Event, 0, len(records))
	for _, record := range records {
		rec, err := s.Create(ctx, record)
		if err != nil {
			return nil, err
		}
		created = append(created, rec)
	}
	return created, nil
}

func (s *EngagementService) Update(crud.Context, *engagement.Event) (*engagement.Event, error) {
	return nil, notSupported(crud.OpUpdate)
}

func (s *EngagementService) UpdateBatch(crud.Context, []*engagement.Event) ([]*engagement.Event, error) {
	return nil, notSupported(crud.OpUpdateBatch)
}

func (s *EngagementService) Delete(crud.Context, *engagement.Event) error {
	return notSupported(crud.OpDelete)
}

func (s *EngagementService) DeleteBatch(crud.Context, []*engagement.Event) error {
	return notSupported(crud.OpDeleteBatch)
}

func (s *EngagementService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*engagement.Event, int, error) {
	if s.feed == nil {
		return nil, 0, goerrors.New("engagement feed query unavailable", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	filter := types.EngagementFilter{
		UserID:     queryUUID(ctx, "user_id"),
		BuildingID: queryUUID(ctx, "building_id"),
		EventTypes: queryStringSlice(ctx, "event_type"),
		EntityType: strings.TrimSpace(ctx.Query("entity_type")),
		Topic:      strings.TrimSpace(ctx.Query("topic")),
		Since:      queryTime(ctx, "since"),
		Until:      queryTime(ctx, "until"),
		Pagination: types.Pagination{
			Limit:  queryInt(ctx, "limit", 50),
			Offset: queryInt(ctx, "offset", 0),
		},
	}
	page, err := s.feed.Query(ctx.UserContext(), filter)
	if err != nil {
		return nil, 0, err
	}
	events := make([]*engagement.Event, 0, len(page.Records))
	for _, record := range page.Records {
		events = append(events, engagement.FromEngagementRecord(record))
	}
	return events, page.Total, nil
}

func (s *EngagementService) Show(crud.Context, string, []repository.SelectCriteria) (*engagement.Event, error) {
	return nil, notSupported(crud.OpRead)
}

func (s *EngagementService) emit(ctx context.Context, record types.EngagementRecord) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.Emit(ctx, record); err != nil && s.logger != nil {
		s.logger.Error("engagement emitter failed", err)
	}
}
