package signals

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func newTestSourceDB(t *testing.T) *bun.DB {
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})

	ddl := []string{
		`CREATE TABLE packages (id TEXT PRIMARY KEY, building_id TEXT NOT NULL, status TEXT NOT NULL, created_at TIMESTAMP)`,
		`CREATE TABLE building_events (id TEXT PRIMARY KEY, building_id TEXT NOT NULL, starts_at TIMESTAMP NOT NULL)`,
		`CREATE TABLE posts (id TEXT PRIMARY KEY, building_id TEXT NOT NULL, created_at TIMESTAMP NOT NULL)`,
		`CREATE TABLE bulletin_listings (id TEXT PRIMARY KEY, building_id TEXT NOT NULL, created_at TIMESTAMP NOT NULL)`,
		`CREATE TABLE building_residents (id TEXT PRIMARY KEY, building_id TEXT NOT NULL, joined_at TIMESTAMP NOT NULL)`,
	}
	for _, stmt := range ddl {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func TestBunSource_Counts(t *testing.T) {
	ctx := context.Background()
	db := newTestSourceDB(t)
	source, err := NewBunSource(BunSourceConfig{DB: db})
	require.NoError(t, err)

	buildingID := uuid.New()
	otherBuilding := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	exec := func(query string, args ...any) {
		_, err := db.Exec(query, args...)
		require.NoError(t, err)
	}

	exec(`INSERT INTO packages (id, building_id, status) VALUES (?, ?, 'pending')`, uuid.NewString(), buildingID)
	exec(`INSERT INTO packages (id, building_id, status) VALUES (?, ?, 'pending')`, uuid.NewString(), buildingID)
	exec(`INSERT INTO packages (id, building_id, status) VALUES (?, ?, 'picked_up')`, uuid.NewString(), buildingID)
	exec(`INSERT INTO packages (id, building_id, status) VALUES (?, ?, 'pending')`, uuid.NewString(), otherBuilding)

	exec(`INSERT INTO building_events (id, building_id, starts_at) VALUES (?, ?, ?)`, uuid.NewString(), buildingID, now.Add(2*time.Hour))
	exec(`INSERT INTO building_events (id, building_id, starts_at) VALUES (?, ?, ?)`, uuid.NewString(), buildingID, now.Add(48*time.Hour))

	exec(`INSERT INTO posts (id, building_id, created_at) VALUES (?, ?, ?)`, uuid.NewString(), buildingID, now.Add(-2*time.Hour))
	exec(`INSERT INTO posts (id, building_id, created_at) VALUES (?, ?, ?)`, uuid.NewString(), buildingID, now.Add(-48*time.Hour))

	exec(`INSERT INTO bulletin_listings (id, building_id, created_at) VALUES (?, ?, ?)`, uuid.NewString(), buildingID, now.Add(-24*time.Hour))

	exec(`INSERT INTO building_residents (id, building_id, joined_at) VALUES (?, ?, ?)`, uuid.NewString(), buildingID, now.Add(-2*time.Hour))
	exec(`INSERT INTO building_residents (id, building_id, joined_at) VALUES (?, ?, ?)`, uuid.NewString(), buildingID, now.Add(-3*24*time.Hour))
	exec(`INSERT INTO building_residents (id, building_id, joined_at) VALUES (?, ?, ?)`, uuid.NewString(), buildingID, now.Add(-10*24*time.Hour))

	pending, err := source.PendingPackages(ctx, buildingID)
	require.NoError(t, err)
	require.Equal(t, 2, pending)

	today, err := source.EventsBetween(ctx, buildingID, now, now.Add(24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, today)

	upcoming, err := source.EventsBetween(ctx, buildingID, now, now.Add(30*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 2, upcoming)

	posts, err := source.PostsSince(ctx, buildingID, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, posts)

	bulletins, err := source.BulletinListingsSince(ctx, buildingID, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, bulletins)

	joiners, err := source.JoinerCounts(ctx, buildingID, now)
	require.NoError(t, err)
	require.Equal(t, 1, joiners.Last24h)
	require.Equal(t, 2, joiners.Last7d)
}

func TestBunSource_TableOverrides(t *testing.T) {
	ctx := context.Background()
	db := newTestSourceDB(t)
	_, err := db.Exec(`CREATE TABLE legacy_parcels (id TEXT PRIMARY KEY, building_id TEXT NOT NULL, status TEXT NOT NULL)`)
	require.NoError(t, err)

	source, err := NewBunSource(BunSourceConfig{DB: db, PackagesTable: "legacy_parcels"})
	require.NoError(t, err)

	buildingID := uuid.New()
	_, err = db.Exec(`INSERT INTO legacy_parcels (id, building_id, status) VALUES (?, ?, 'pending')`, uuid.NewString(), buildingID)
	require.NoError(t, err)

	pending, err := source.PendingPackages(ctx, buildingID)
	require.NoError(t, err)
	require.Equal(t, 1, pending)
}

func TestBunSource_RequiresDB(t *testing.T) {
	_, err := NewBunSource(BunSourceConfig{})
	require.Error(t, err)
}
