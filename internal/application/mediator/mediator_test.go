package mediator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
)

type pingQuery struct{ Value string }

type pingHandler struct{}

func (h *pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q := request.(*pingQuery)
	if q.Value == "" {
		return nil, errors.New("empty ping")
	}
	return "pong:" + q.Value, nil
}

func TestMediator_DispatchesToRegisteredHandler(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](med, &pingHandler{}))

	response, err := med.Send(context.Background(), &pingQuery{Value: "a"})

	require.NoError(t, err)
	assert.Equal(t, "pong:a", response)
}

func TestMediator_RejectsDuplicateAndUnknown(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](med, &pingHandler{}))

	assert.Error(t, mediator.RegisterHandler[*pingQuery](med, &pingHandler{}))

	_, err := med.Send(context.Background(), "unregistered")
	assert.Error(t, err)

	_, err = med.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	med := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](med, &pingHandler{}))

	var order []string
	trace := func(name string) mediator.Middleware {
		return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			order = append(order, name+":before")
			response, err := next(ctx, request)
			order = append(order, name+":after")
			return response, err
		}
	}
	med.RegisterMiddleware(trace("outer"))
	med.RegisterMiddleware(trace("inner"))

	_, err := med.Send(context.Background(), &pingQuery{Value: "x"})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, order)
}

type advanceCommand struct{}

func TestRequestName(t *testing.T) {
	assert.Equal(t, "pingQuery", mediator.RequestName(&pingQuery{}))
	assert.Equal(t, "advanceCommand", mediator.RequestName(advanceCommand{}))
	assert.Equal(t, "Unknown", mediator.RequestName(nil))

	assert.True(t, mediator.IsQuery(&pingQuery{}))
	assert.False(t, mediator.IsQuery(&advanceCommand{}))
}
