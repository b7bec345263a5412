package transport

import (
	"context"
	"log/slog"

	"github.com/pkordes/mealmate/internal/domain"
)

// Compile-time interface check.
var _ domain.MessageTransport = (*Log)(nil)

// Log writes each segment to a structured logger instead of delivering it.
// Used when no webhook is configured.
type Log struct {
	log          *slog.Logger
	segmentLimit int
}

// NewLog returns a logging transport with the given segment limit.
func NewLog(log *slog.Logger, segmentLimit int) *Log {
	return &Log{log: log, segmentLimit: segmentLimit}
}

// SegmentLimit reports the configured segment limit.
func (l *Log) SegmentLimit() int {
	return l.segmentLimit
}

// Send logs every segment at info level.
func (l *Log) Send(ctx context.Context, destination string, segments []string) error {
	for i, seg := range segments {
		l.log.InfoContext(ctx, "message segment",
			"to", destination,
			"part", i+1,
			"parts", len(segments),
			"text", seg,
		)
	}
	return nil
}
