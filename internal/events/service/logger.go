package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/BanhTheCake/getnokori/internal/events/domain"
)

// Logger is a simple Publisher that logs events.
// In production, replace with a queue or external sink.

type Logger struct{}

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) Publish(ctx context.Context, e domain.Event) error {
	log.Ctx(ctx).Info().
		Str("type", e.Type).
		Str("account_id", e.AccountID.String()).
		Fields(map[string]any{"meta": e.Meta}).
		Time("ts", e.Time).
		Msg("event")
	return nil
}
