package briefcache

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry models the home_briefs row. One row per (user, building); writes are
// last-write-wins overwrites with no history.
type Entry struct {
	bun.BaseModel `bun:"table:home_briefs"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	UserID        uuid.UUID `bun:"user_id,type:uuid"`
	BuildingID    uuid.UUID `bun:"building_id,type:uuid"`
	ContextLine1  string    `bun:"context_line1"`
	ContextLine2  string    `bun:"context_line2"`
	JoinersLast7d int       `bun:"joiners_last_7d"`
	MomentumLine  string    `bun:"momentum_line"`
	CardRanking   []string  `bun:"card_ranking,type:jsonb"`
	GeneratedAt   time.Time `bun:"generated_at"`
	CreatedAt     time.Time `bun:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at"`
}
