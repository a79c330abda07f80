package signals

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-homebrief/pkg/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunSourceConfig wires the Bun-backed signal source. Table names default to
// the platform's conventional schema but can be overridden when the host maps
// the engine onto existing tables.
type BunSourceConfig struct {
	DB             *bun.DB
	PackagesTable  string
	EventsTable    string
	PostsTable     string
	BulletinTable  string
	ResidentsTable string
}

// BunSource reads building activity counts straight from the host database.
// It implements both ActivitySource and JoinerSource; the joiner path issues
// aggregate COUNT queries only and never selects resident rows.
type BunSource struct {
	db             *bun.DB
	packagesTable  string
	eventsTable    string
	postsTable     string
	bulletinTable  string
	residentsTable string
}

// NewBunSource constructs the default signal source.
func NewBunSource(cfg BunSourceConfig) (*BunSource, error) {
	if cfg.DB == nil {
		return nil, errors.New("signals: bun DB required")
	}
	return &BunSource{
		db:             cfg.DB,
		packagesTable:  coalesce(cfg.PackagesTable, "packages"),
		eventsTable:    coalesce(cfg.EventsTable, "building_events"),
		postsTable:     coalesce(cfg.PostsTable, "posts"),
		bulletinTable:  coalesce(cfg.BulletinTable, "bulletin_listings"),
		residentsTable: coalesce(cfg.ResidentsTable, "building_residents"),
	}, nil
}

var (
	_ types.ActivitySource = (*BunSource)(nil)
	_ types.JoinerSource   = (*BunSource)(nil)
)

// PendingPackages counts packages still awaiting pickup. No time window
// applies; a package stays a signal until its status changes.
func (s *BunSource) PendingPackages(ctx context.Context, buildingID uuid.UUID) (int, error) {
	return s.db.NewSelect().
		Table(s.packagesTable).
		Where("building_id = ?", buildingID).
		Where("status = ?", "pending").
		Count(ctx)
}

// EventsBetween counts events whose start falls inside [from, until).
func (s *BunSource) EventsBetween(ctx context.Context, buildingID uuid.UUID, from, until time.Time) (int, error) {
	return s.db.NewSelect().
		Table(s.eventsTable).
		Where("building_id = ?", buildingID).
		Where("starts_at >= ?", from).
		Where("starts_at < ?", until).
		Count(ctx)
}

// PostsSince counts community posts created at or after since.
func (s *BunSource) PostsSince(ctx context.Context, buildingID uuid.UUID, since time.Time) (int, error) {
	return s.db.NewSelect().
		Table(s.postsTable).
		Where("building_id = ?", buildingID).
		Where("created_at >= ?", since).
		Count(ctx)
}

// BulletinListingsSince counts bulletin listings created at or after since.
func (s *BunSource) BulletinListingsSince(ctx context.Context, buildingID uuid.UUID, since time.Time) (int, error) {
	return s.db.NewSelect().
		Table(s.bulletinTable).
		Where("building_id = ?", buildingID).
		Where("created_at >= ?", since).
		Count(ctx)
}

// JoinerCounts returns how many residents joined the building in the trailing
// 24 hour and 7 day windows.
func (s *BunSource) JoinerCounts(ctx context.Context, buildingID uuid.UUID, now time.Time) (types.JoinerCounts, error) {
	last24h, err := s.joinersSince(ctx, buildingID, now.Add(-24*time.Hour))
	if err != nil {
		return types.JoinerCounts{}, err
	}
	last7d, err := s.joinersSince(ctx, buildingID, now.Add(-7*24*time.Hour))
	if err != nil {
		return types.JoinerCounts{}, err
	}
	return types.JoinerCounts{Last24h: last24h, Last7d: last7d}, nil
}

func (s *BunSource) joinersSince(ctx context.Context, buildingID uuid.UUID, since time.Time) (int, error) {
	return s.db.NewSelect().
		Table(s.residentsTable).
		Where("building_id = ?", buildingID).
		Where("joined_at >= ?", since).
		Count(ctx)
}

func coalesce(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
