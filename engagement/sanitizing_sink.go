package engagement

import (
	"context"

	"github.com/goliatone/go-homebrief/pkg/types"
	"github.com/goliatone/go-masker"
)

// SanitizingSink masks engagement metadata before forwarding records to the
// wrapped sink. Wire it around the persistence repository so raw PII from UI
// payloads never reaches storage.
type SanitizingSink struct {
	Sink   types.EngagementSink
	Masker *masker.Masker
}

var _ types.EngagementSink = (*SanitizingSink)(nil)

// Log sanitizes the record and forwards it to the sink.
func (s *SanitizingSink) Log(ctx context.Context, record types.EngagementRecord) error {
	if s == nil || s.Sink == nil {
		return types.ErrMissingEngagementSink
	}
	return s.Sink.Log(ctx, SanitizeRecord(s.Masker, record))
}
