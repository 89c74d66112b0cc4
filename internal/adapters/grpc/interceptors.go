package grpc

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
)

// correlationHeader lets a client pick the correlation id of its request
const correlationHeader = "x-correlation-id"

// RateLimitInterceptor rejects requests beyond the token bucket with ResourceExhausted.
// A nil limiter disables limiting.
func RateLimitInterceptor(limiter *rate.Limiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if limiter != nil && !limiter.Allow() {
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for %s", info.FullMethod)
		}
		return handler(ctx, req)
	}
}

// ContextInterceptor attaches the daemon logger and the caller's correlation id
func ContextInterceptor(logger logging.SimulationLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if logger != nil {
			ctx = logging.WithLogger(ctx, logger)
		}
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(correlationHeader); len(ids) > 0 && ids[0] != "" {
				ctx = logging.WithCorrelationID(ctx, ids[0])
			}
		}

		start := time.Now()
		resp, err := handler(ctx, req)

		if code := status.Code(err); code != codes.OK && code != codes.FailedPrecondition {
			logging.LoggerFromContext(ctx).Log(logging.LevelWarn, "RPC failed", map[string]interface{}{
				"method":      info.FullMethod,
				"code":        code.String(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
		}
		return resp, err
	}
}
