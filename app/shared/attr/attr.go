// Package attr holds the slog attribute helpers shared by every module.
package attr

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
)

type ctxKey string

// CorrelationIDKey stores the correlation ID on a context.
const CorrelationIDKey ctxKey = "correlation_id"

func String(key, value string) slog.Attr         { return slog.String(key, value) }
func Int(key string, value int) slog.Attr        { return slog.Int(key, value) }
func Bool(key string, value bool) slog.Attr      { return slog.Bool(key, value) }
func Any(key string, value any) slog.Attr        { return slog.Any(key, value) }
func Time(key string, value time.Time) slog.Attr { return slog.Time(key, value) }
func UUID(key string, value uuid.UUID) slog.Attr { return slog.String(key, value.String()) }

// Error logs err under the "error" key.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// WithCorrelationID stores id on ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationIDKey, id)
}

// ExtractCorrelationID reads the correlation ID stored on ctx.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	id, _ := ctx.Value(CorrelationIDKey).(string)
	return slog.String("correlation_id", id)
}

// CorrelationIDFromMsg reads the correlation ID set by the router middleware.
func CorrelationIDFromMsg(msg *message.Message) slog.Attr {
	return slog.String("correlation_id", middleware.MessageCorrelationID(msg))
}
