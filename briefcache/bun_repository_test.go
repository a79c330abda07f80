package briefcache

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-homebrief/pkg/types"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func sampleBrief(generatedAt time.Time) types.HomeBrief {
	return types.HomeBrief{
		Context: types.HomeContext{
			Line1: "3 packages waiting.",
			Line2: "2 new residents joined this week.",
		},
		Momentum: types.Momentum{
			JoinersLast7d: 2,
			Line:          "2 new residents joined this week.",
		},
		CardRanking: []types.CardCategory{
			types.CardPackages,
			types.CardCommunity,
			types.CardEvents,
			types.CardBulletin,
		},
		GeneratedAt: generatedAt,
	}
}

func TestRepository_PutAndGet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	store, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	userID := uuid.New()
	buildingID := uuid.New()
	generatedAt := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.PutBrief(ctx, userID, buildingID, sampleBrief(generatedAt)))

	got, err := store.GetBrief(ctx, userID, buildingID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "3 packages waiting.", got.Context.Line1)
	require.Equal(t, "2 new residents joined this week.", got.Context.Line2)
	require.Equal(t, 2, got.Momentum.JoinersLast7d)
	require.Equal(t, []types.CardCategory{
		types.CardPackages,
		types.CardCommunity,
		types.CardEvents,
		types.CardBulletin,
	}, got.CardRanking)
	require.True(t, got.GeneratedAt.Equal(generatedAt))
}

func TestRepository_GetMissReturnsNil(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	store, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	got, err := store.GetBrief(ctx, uuid.New(), uuid.New())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRepository_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	store, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	userID := uuid.New()
	buildingID := uuid.New()
	first := sampleBrief(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, store.PutBrief(ctx, userID, buildingID, first))

	second := sampleBrief(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	second.Context.Line1 = "All quiet in the building today."
	second.CardRanking = types.DefaultCardOrder()
	require.NoError(t, store.PutBrief(ctx, userID, buildingID, second))

	got, err := store.GetBrief(ctx, userID, buildingID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "All quiet in the building today.", got.Context.Line1)
	require.True(t, got.GeneratedAt.Equal(second.GeneratedAt))

	count, err := db.NewSelect().Table("home_briefs").Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRepository_KeysAreScopedPerUserAndBuilding(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	store, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	userID := uuid.New()
	buildingA := uuid.New()
	buildingB := uuid.New()

	briefA := sampleBrief(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	briefA.Context.Line1 = "building A"
	require.NoError(t, store.PutBrief(ctx, userID, buildingA, briefA))

	briefB := sampleBrief(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	briefB.Context.Line1 = "building B"
	require.NoError(t, store.PutBrief(ctx, userID, buildingB, briefB))

	got, err := store.GetBrief(ctx, userID, buildingA)
	require.NoError(t, err)
	require.Equal(t, "building A", got.Context.Line1)

	got, err = store.GetBrief(ctx, userID, buildingB)
	require.NoError(t, err)
	require.Equal(t, "building B", got.Context.Line1)
}

func TestRepository_ValidatesIdentifiers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	applyDDL(t, db)

	store, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	_, err = store.GetBrief(ctx, uuid.Nil, uuid.New())
	require.ErrorIs(t, err, types.ErrUserIDRequired)
	err = store.PutBrief(ctx, uuid.New(), uuid.Nil, types.HomeBrief{})
	require.ErrorIs(t, err, types.ErrBuildingIDRequired)
}

func TestNormalizeRanking_GuardsPermutation(t *testing.T) {
	require.Equal(t, types.DefaultCardOrder(), normalizeRanking(nil))
	require.Equal(t, types.DefaultCardOrder(), normalizeRanking([]string{"packages", "events"}))
	require.Equal(t, types.DefaultCardOrder(), normalizeRanking([]string{"packages", "packages", "events", "community"}))
	require.Equal(t, types.DefaultCardOrder(), normalizeRanking([]string{"packages", "events", "community", "garage"}))

	stored := []string{"bulletin", "community", "events", "packages"}
	require.Equal(t, []types.CardCategory{
		types.CardBulletin,
		types.CardCommunity,
		types.CardEvents,
		types.CardPackages,
	}, normalizeRanking(stored))
}

func newTestDB(t *testing.T) *bun.DB {
	sqldb, err := sql.Open("sqlite3", ":memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})
	return db
}

func applyDDL(t *testing.T, db *bun.DB) {
	content, err := os.ReadFile("../data/sql/migrations/sqlite/00002_home_briefs.up.sql")
	require.NoError(t, err)
	for _, stmt := range splitStatements(string(content)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func splitStatements(sql string) []string {
	lines := strings.Split(sql, "\n")
	var builder strings.Builder
	var statements []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		builder.WriteString(line)
		if strings.HasSuffix(line, ";") {
			statements = append(statements, strings.TrimSuffix(builder.String(), ";"))
			builder.Reset()
		} else {
			builder.WriteString(" ")
		}
	}
	if builder.Len() > 0 {
		statements = append(statements, builder.String())
	}
	return statements
}
