package logging

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/pkg/utils"
)

// Context keys for request correlation
type correlationContextKey int

const (
	correlationIDKey correlationContextKey = iota + 1000 // Offset from logger keys
)

// WithCorrelationID injects a correlation id into the context
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext extracts the correlation id, or "" when none is set
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// CorrelationMiddleware tags every request with a correlation id and wraps the
// context logger so each line carries it. Failed requests are logged.
func CorrelationMiddleware() mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		id := CorrelationIDFromContext(ctx)
		if id == "" {
			id = utils.GenerateCorrelationID(mediator.RequestName(request))
			ctx = WithCorrelationID(ctx, id)
		}

		logger := &correlatedLogger{inner: LoggerFromContext(ctx), id: id}
		ctx = WithLogger(ctx, logger)

		response, err := next(ctx, request)
		if err != nil {
			// a failed query changed nothing
			level := LevelWarn
			if mediator.IsQuery(request) {
				level = LevelDebug
			}
			logger.Log(level, fmt.Sprintf("%s failed: %v", mediator.RequestName(request), err), nil)
		}
		return response, err
	}
}

// correlatedLogger adds the correlation id to every line
type correlatedLogger struct {
	inner SimulationLogger
	id    string
}

func (l *correlatedLogger) Log(level, message string, metadata map[string]interface{}) {
	enriched := make(map[string]interface{}, len(metadata)+1)
	for k, v := range metadata {
		enriched[k] = v
	}
	enriched["correlation_id"] = l.id
	l.inner.Log(level, message, enriched)
}
