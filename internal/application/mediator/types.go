package mediator

import (
	"context"
	"reflect"
	"strings"
)

// Request is a world command (AssignWorkerCommand, AdvanceTickCommand, ...)
// or a read-only query (GetStatusQuery, ...). Requests are plain structs sent
// by pointer; the pointed-to type selects the handler.
type Request interface{}

// Response is whatever the handler returns for its request type
type Response interface{}

// RequestHandler handles a specific request type
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc is a function that handles a request
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware wraps every Send. The daemon chains correlation ids, command
// logging and Prometheus command metrics this way.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// RequestName returns the bare type name of a request, e.g. "DispatchUnitCommand"
// for *commands.DispatchUnitCommand. It is the label used in logs, metrics and
// correlation ids.
func RequestName(request Request) string {
	t := reflect.TypeOf(request)
	if t == nil {
		return "Unknown"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IsQuery reports whether a request only reads world state
func IsQuery(request Request) bool {
	return strings.HasSuffix(RequestName(request), "Query")
}
