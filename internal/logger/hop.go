package logger

import (
	"context"

	"go.uber.org/zap"
)

type hopKey struct{}

// HopInfo identifies the hop a log line belongs to
type HopInfo struct {
	BatchID string
	Role    string
	Action  string
}

func (h HopInfo) fields() []zap.Field {
	fields := []zap.Field{zap.String("batch_id", h.BatchID)}
	if h.Role != "" {
		fields = append(fields, zap.String("role", h.Role))
	}
	if h.Action != "" {
		fields = append(fields, zap.String("action", h.Action))
	}
	return fields
}

// WithHop returns a context whose loggers tag every line with the hop's batch and role
func WithHop(ctx context.Context, info HopInfo) context.Context {
	return context.WithValue(ctx, hopKey{}, info)
}

func hopFromContext(ctx context.Context) (HopInfo, bool) {
	info, ok := ctx.Value(hopKey{}).(HopInfo)
	return info, ok
}
