// Package signals aggregates heterogeneous building activity into the small
// numeric signal set consumed by narration and card ranking. The aggregator
// fans out one fetch per signal, waits on all of them, and degrades any failed
// fetch to its zero value so a partial brief is always preferable to none.
package signals
