// Package briefcache persists generated home briefs keyed by (user, building).
// The store keeps no history: puts are idempotent overwrites and freshness is
// judged by the caller against the stored generation timestamp. An optional
// go-repository-cache decorator adds an in-memory read-through tier so hot
// dashboards skip the database entirely.
package briefcache

import (
	"context"
	"errors"

	"github.com/goliatone/go-homebrief/pkg/types"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryConfig wires dependencies for the Bun-backed brief cache.
type RepositoryConfig struct {
	DB         *bun.DB
	Repository repository.Repository[*Entry]
	Clock      types.Clock
	IDGen      types.IDGenerator
}

type briefStore interface {
	repository.Repository[*Entry]
}

// Repository implements types.BriefCache.
type Repository struct {
	briefStore
	clock types.Clock
	idGen types.IDGenerator
}

// NewRepository constructs the default brief cache repository.
func NewRepository(cfg RepositoryConfig, options ...RepositoryOption) (*Repository, error) {
	if cfg.Repository == nil && cfg.DB == nil {
		return nil, errors.New("briefcache: db or repository required")
	}
	repo := cfg.Repository
	if repo == nil {
		repo = repository.NewRepository(cfg.DB, repository.ModelHandlers[*Entry]{
			NewRecord: func() *Entry { return &Entry{} },
			GetID: func(entry *Entry) uuid.UUID {
				if entry == nil {
					return uuid.Nil
				}
				return entry.ID
			},
			SetID: func(entry *Entry, id uuid.UUID) {
				if entry != nil {
					entry.ID = id
				}
			},
		})
	}

	opts := applyRepositoryOptions(options)
	if opts.CacheEnabled {
		wrapped, err := wrapWithCache(repo, opts.CacheConfig)
		if err != nil {
			return nil, err
		}
		repo = wrapped
	}

	clock := cfg.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = types.UUIDGenerator{}
	}

	return &Repository{
		briefStore: repo,
		clock:      clock,
		idGen:      idGen,
	}, nil
}

func wrapWithCache(repo repository.Repository[*Entry], cfg *cache.Config) (repository.Repository[*Entry], error) {
	if _, ok := repo.(*repositorycache.CachedRepository[*Entry]); ok {
		return repo, nil
	}
	config := cache.DefaultConfig()
	if cfg != nil {
		config = *cfg
	}
	service, err := cache.NewCacheService(config)
	if err != nil {
		return nil, err
	}
	return repositorycache.New(repo, service, cache.NewDefaultKeySerializer()), nil
}

var (
	_ repository.Repository[*Entry] = (*Repository)(nil)
	_ types.BriefCache              = (*Repository)(nil)
)

// GetBrief returns the last stored brief for the key, or nil on a miss. Age
// is not evaluated here; the caller owns the freshness policy.
func (r *Repository) GetBrief(ctx context.Context, userID, buildingID uuid.UUID) (*types.HomeBrief, error) {
	if userID == uuid.Nil {
		return nil, types.ErrUserIDRequired
	}
	if buildingID == uuid.Nil {
		return nil, types.ErrBuildingIDRequired
	}
	entry, err := r.findExisting(ctx, userID, buildingID)
	switch {
	case err == nil:
		brief := toBrief(entry)
		return &brief, nil
	case repository.IsRecordNotFound(err):
		return nil, nil
	default:
		return nil, err
	}
}

// PutBrief stores the brief for the key, overwriting any previous value.
// Concurrent writers race benignly: last write wins, no merge.
func (r *Repository) PutBrief(ctx context.Context, userID, buildingID uuid.UUID, brief types.HomeBrief) error {
	if userID == uuid.Nil {
		return types.ErrUserIDRequired
	}
	if buildingID == uuid.Nil {
		return types.ErrBuildingIDRequired
	}
	now := r.clock.Now()
	payload := fromBrief(userID, buildingID, brief)

	existing, err := r.findExisting(ctx, userID, buildingID)
	switch {
	case err == nil && existing != nil:
		payload.ID = existing.ID
		payload.CreatedAt = existing.CreatedAt
		payload.UpdatedAt = now
		_, err = r.Update(ctx, payload)
		return err
	case repository.IsRecordNotFound(err):
		payload.ID = r.idGen.UUID()
		payload.CreatedAt = now
		payload.UpdatedAt = now
		_, err = r.Create(ctx, payload)
		return err
	default:
		return err
	}
}

func (r *Repository) findExisting(ctx context.Context, userID, buildingID uuid.UUID) (*Entry, error) {
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("user_id = ?", userID).
				Where("building_id = ?", buildingID).
				Limit(1)
		},
	}
	rows, _, err := r.List(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.NewRecordNotFound()
	}
	return rows[0], nil
}

func fromBrief(userID, buildingID uuid.UUID, brief types.HomeBrief) *Entry {
	ranking := make([]string, 0, len(brief.CardRanking))
	for _, category := range brief.CardRanking {
		ranking = append(ranking, string(category))
	}
	return &Entry{
		UserID:        userID,
		BuildingID:    buildingID,
		ContextLine1:  brief.Context.Line1,
		ContextLine2:  brief.Context.Line2,
		JoinersLast7d: brief.Momentum.JoinersLast7d,
		MomentumLine:  brief.Momentum.Line,
		CardRanking:   ranking,
		GeneratedAt:   brief.GeneratedAt,
	}
}

func toBrief(entry *Entry) types.HomeBrief {
	if entry == nil {
		return types.HomeBrief{}
	}
	return types.HomeBrief{
		Context: types.HomeContext{
			Line1: entry.ContextLine1,
			Line2: entry.ContextLine2,
		},
		Momentum: types.Momentum{
			JoinersLast7d: entry.JoinersLast7d,
			Line:          entry.MomentumLine,
		},
		CardRanking: normalizeRanking(entry.CardRanking),
		GeneratedAt: entry.GeneratedAt,
	}
}

// normalizeRanking guards the permutation invariant on the read path: a row
// written by an older or buggy build must never surface a ranking that drops
// or duplicates a category.
func normalizeRanking(stored []string) []types.CardCategory {
	known := types.DefaultCardOrder()
	if len(stored) != len(known) {
		return known
	}
	seen := make(map[types.CardCategory]bool, len(known))
	ranking := make([]types.CardCategory, 0, len(known))
	for _, raw := range stored {
		category := types.CardCategory(raw)
		valid := false
		for _, candidate := range known {
			if category == candidate {
				valid = true
				break
			}
		}
		if !valid || seen[category] {
			return known
		}
		seen[category] = true
		ranking = append(ranking, category)
	}
	return ranking
}
