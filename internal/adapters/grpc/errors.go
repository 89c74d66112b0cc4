package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/mythic-mines/internal/domain/shared"
	"github.com/andrescamacho/mythic-mines/internal/domain/workforce"
)

// reasonTrailer carries the rejection reason code next to a FailedPrecondition status
const reasonTrailer = "x-reject-reason"

func invalidArgument(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

// toStatus converts a handler error into a gRPC status error.
// Rejections keep their reason code in the response trailer.
func toStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var rejection *shared.RejectionError
	if errors.As(err, &rejection) {
		_ = grpc.SetTrailer(ctx, metadata.Pairs(reasonTrailer, string(rejection.Code)))
		return status.Error(codes.FailedPrecondition, rejection.Message)
	}

	var validation *shared.ValidationError
	if errors.As(err, &validation) {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	var notFound *workforce.ErrWorkerNotFound
	if errors.As(err, &notFound) {
		return status.Error(codes.NotFound, err.Error())
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}

	return status.Error(codes.Internal, err.Error())
}

// fromStatus rebuilds a domain rejection from a status error and its trailer
func fromStatus(err error, trailer metadata.MD) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if st.Code() == codes.FailedPrecondition {
		if reasons := trailer.Get(reasonTrailer); len(reasons) > 0 {
			return shared.NewRejectionError(shared.ReasonCode(reasons[0]), "%s", st.Message())
		}
	}
	return err
}
