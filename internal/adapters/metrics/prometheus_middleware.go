package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
)

// PrometheusMiddleware creates a middleware that records command execution metrics
//
// This middleware wraps all command/query execution and records:
// - Execution duration (histogram)
// - Success/rejected/error counts (counter)
// - Rejection reason codes (counter)
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		commandName := mediator.RequestName(request)
		start := time.Now()

		response, err := next(ctx, request)

		status := "success"
		if err != nil {
			status = "error"
			if reason, ok := shared.ReasonOf(err); ok {
				status = "rejected"
				collector.RecordRejection(commandName, string(reason))
			}
		}
		collector.RecordCommandExecution(commandName, time.Since(start).Seconds(), status)

		return response, err
	}
}
