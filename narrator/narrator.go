// Package narrator turns aggregated activity signals into the short
// human-readable status lines shown at the top of the home dashboard. It is a
// pure rule engine: no I/O, all inputs explicit.
package narrator

import (
	"fmt"
	"math/rand/v2"

	"github.com/gertd/go-pluralize"
	"github.com/goliatone/go-homebrief/pkg/types"
)

// maxCandidates caps how many qualifying phrases make it into line one.
const maxCandidates = 2

// defaultQuietLines are the fallback sentences used when no signal qualifies.
// The pick is re-rolled on every call so repeat visits on a quiet day do not
// read as stale.
var defaultQuietLines = []string{
	"All quiet in the building today.",
	"A calm day in the building so far.",
	"Nothing new to report right now.",
	"No new activity today. Enjoy the quiet.",
}

// Config captures optional narrator behavior.
type Config struct {
	// QuietLines overrides the quiet-day sentence set. Fewer than two entries
	// falls back to the defaults.
	QuietLines []string
	// RandInt returns a value in [0, n); defaults to math/rand/v2. Injected so
	// tests can pin the quiet-day pick.
	RandInt func(n int) int
}

// Narrator renders home context lines from activity signals.
type Narrator struct {
	plural     *pluralize.Client
	quietLines []string
	randInt    func(n int) int
}

// New constructs a narrator from the supplied configuration.
func New(cfg Config) *Narrator {
	quiet := cfg.QuietLines
	if len(quiet) < 2 {
		quiet = defaultQuietLines
	}
	randInt := cfg.RandInt
	if randInt == nil {
		randInt = rand.IntN
	}
	return &Narrator{
		plural:     pluralize.NewClient(),
		quietLines: quiet,
		randInt:    randInt,
	}
}

// Narrate produces the context lines for the supplied signals. Line1 is never
// empty; Line2 is set if and only if residents joined within the last week,
// independent of the Line1 candidate selection.
func (n *Narrator) Narrate(signals types.ActivitySignals) types.HomeContext {
	return types.HomeContext{
		Line1: n.line1(signals),
		Line2: n.momentumLine(signals.JoinersLast7d),
	}
}

// Momentum renders the momentum widget payload for the supplied signals.
func (n *Narrator) Momentum(signals types.ActivitySignals) types.Momentum {
	return types.Momentum{
		JoinersLast7d: signals.JoinersLast7d,
		Line:          n.momentumLine(signals.JoinersLast7d),
	}
}

func (n *Narrator) line1(signals types.ActivitySignals) string {
	// Candidate phrases in fixed priority order; only positive counts qualify
	// and at most the first two survive.
	candidates := make([]string, 0, maxCandidates)
	if signals.EventsToday > 0 {
		candidates = append(candidates, n.counted("event", signals.EventsToday)+" today")
	}
	if signals.PackagesPending > 0 && len(candidates) < maxCandidates {
		candidates = append(candidates, n.counted("package", signals.PackagesPending)+" waiting")
	}
	if signals.PostsLast24h > 0 && len(candidates) < maxCandidates {
		candidates = append(candidates, fmt.Sprintf("%d new %s", signals.PostsLast24h, n.plural.Pluralize("post", signals.PostsLast24h, false)))
	}
	if signals.BulletinItemsLast7d > 0 && len(candidates) < maxCandidates {
		candidates = append(candidates, n.counted("bulletin listing", signals.BulletinItemsLast7d)+" this week")
	}

	switch len(candidates) {
	case 0:
		return n.quietLines[n.randInt(len(n.quietLines))]
	case 1:
		return candidates[0] + "."
	default:
		return candidates[0] + " · " + candidates[1]
	}
}

func (n *Narrator) momentumLine(joiners int) string {
	if joiners <= 0 {
		return ""
	}
	return fmt.Sprintf("%s joined this week.", n.counted("new resident", joiners))
}

// counted renders "1 event" / "3 events" style fragments.
func (n *Narrator) counted(noun string, count int) string {
	return n.plural.Pluralize(noun, count, true)
}
