package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world/commands"
	"github.com/andrescamacho/mythic-mines/internal/application/world/queries"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
)

// DaemonClient talks to a running daemon over its unix socket
type DaemonClient struct {
	conn *grpc.ClientConn
}

// NewDaemonClient creates a new gRPC daemon client
// socketPath should be a Unix domain socket path (e.g., "/tmp/mythic-mines.sock")
func NewDaemonClient(socketPath string) (*DaemonClient, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return &DaemonClient{conn: conn}, nil
}

// Close closes the gRPC connection
func (c *DaemonClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Invoke sends request to the named method and decodes the reply into T.
// A correlation id in ctx is forwarded to the daemon.
func Invoke[T any](ctx context.Context, c *DaemonClient, method string, request mediator.Request) (*T, error) {
	in, err := toStruct(request)
	if err != nil {
		return nil, err
	}

	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, correlationHeader, id)
	}

	out := new(structpb.Struct)
	var trailer metadata.MD
	if err := c.conn.Invoke(ctx, fullMethod(method), in, out, grpc.Trailer(&trailer)); err != nil {
		return nil, fromStatus(err, trailer)
	}

	result := new(T)
	if err := fromStruct(out, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Status returns the world overview
func (c *DaemonClient) Status(ctx context.Context) (*queries.GetStatusResponse, error) {
	return Invoke[queries.GetStatusResponse](ctx, c, MethodStatus, &queries.GetStatusQuery{})
}

// Field returns one field
func (c *DaemonClient) Field(ctx context.Context, fieldID string) (*simulation.FieldView, error) {
	return Invoke[simulation.FieldView](ctx, c, MethodGetField, &queries.GetFieldQuery{FieldID: fieldID})
}

// Workers lists the worker roster
func (c *DaemonClient) Workers(ctx context.Context, onlyIdle bool) (*queries.ListWorkersResponse, error) {
	return Invoke[queries.ListWorkersResponse](ctx, c, MethodListWorkers, &queries.ListWorkersQuery{OnlyIdle: onlyIdle})
}

// Events lists recent journal events
func (c *DaemonClient) Events(ctx context.Context, limit int) (*queries.ListEventsResponse, error) {
	return Invoke[queries.ListEventsResponse](ctx, c, MethodListEvents, &queries.ListEventsQuery{Limit: limit})
}

// AssignWorker places a worker in a field slot
func (c *DaemonClient) AssignWorker(ctx context.Context, fieldID string, slot int, workerID string) (*commands.AssignWorkerResponse, error) {
	return Invoke[commands.AssignWorkerResponse](ctx, c, MethodAssignWorker, &commands.AssignWorkerCommand{
		FieldID:  fieldID,
		Slot:     slot,
		WorkerID: workerID,
	})
}

// RemoveWorker empties a field slot
func (c *DaemonClient) RemoveWorker(ctx context.Context, fieldID string, slot int) (*commands.RemoveWorkerResponse, error) {
	return Invoke[commands.RemoveWorkerResponse](ctx, c, MethodRemoveWorker, &commands.RemoveWorkerCommand{FieldID: fieldID, Slot: slot})
}

// Dispatch sends an idle transport unit to a field
func (c *DaemonClient) Dispatch(ctx context.Context, fieldID string) (*commands.DispatchUnitResponse, error) {
	return Invoke[commands.DispatchUnitResponse](ctx, c, MethodDispatchUnit, &commands.DispatchUnitCommand{FieldID: fieldID})
}

// Collect unloads every ready unit into the central store
func (c *DaemonClient) Collect(ctx context.Context) (*commands.CollectResponse, error) {
	return Invoke[commands.CollectResponse](ctx, c, MethodCollect, &commands.CollectCommand{})
}

// Advance runs count ticks immediately
func (c *DaemonClient) Advance(ctx context.Context, count int) (*commands.AdvanceTickResponse, error) {
	return Invoke[commands.AdvanceTickResponse](ctx, c, MethodAdvanceTick, &commands.AdvanceTickCommand{Count: count})
}

// Hire adds a worker to the roster
func (c *DaemonClient) Hire(ctx context.Context, name, job string, efficiency float64) (*commands.WorkerResponse, error) {
	return Invoke[commands.WorkerResponse](ctx, c, MethodHireWorker, &commands.HireWorkerCommand{
		Name:              name,
		JobClassification: job,
		Efficiency:        efficiency,
	})
}

// Dismiss removes a worker from the roster
func (c *DaemonClient) Dismiss(ctx context.Context, workerID string) (*commands.WorkerResponse, error) {
	return Invoke[commands.WorkerResponse](ctx, c, MethodDismissWorker, &commands.DismissWorkerCommand{WorkerID: workerID})
}

// UpdateCondition changes strike days or injury state of a worker
func (c *DaemonClient) UpdateCondition(ctx context.Context, cmd *commands.UpdateWorkerConditionCommand) (*commands.WorkerResponse, error) {
	return Invoke[commands.WorkerResponse](ctx, c, MethodUpdateWorkerCondition, cmd)
}

// SetLevel changes the progression level
func (c *DaemonClient) SetLevel(ctx context.Context, level int) (*commands.SetLevelResponse, error) {
	return Invoke[commands.SetLevelResponse](ctx, c, MethodSetLevel, &commands.SetLevelCommand{Level: level})
}

// Save persists the world to the database
func (c *DaemonClient) Save(ctx context.Context) (*commands.SaveStateResponse, error) {
	return Invoke[commands.SaveStateResponse](ctx, c, MethodSaveState, &commands.SaveStateCommand{})
}

// Load replaces the world with the last saved state
func (c *DaemonClient) Load(ctx context.Context) (*commands.LoadStateResponse, error) {
	return Invoke[commands.LoadStateResponse](ctx, c, MethodLoadState, &commands.LoadStateCommand{})
}

// Export writes a snapshot file on the daemon host
func (c *DaemonClient) Export(ctx context.Context, path string) (*commands.ExportSnapshotResponse, error) {
	return Invoke[commands.ExportSnapshotResponse](ctx, c, MethodExportSnapshot, &commands.ExportSnapshotCommand{Path: path})
}

// Import replaces the world with a snapshot file on the daemon host
func (c *DaemonClient) Import(ctx context.Context, path string) (*commands.LoadStateResponse, error) {
	return Invoke[commands.LoadStateResponse](ctx, c, MethodImportSnapshot, &commands.ImportSnapshotCommand{Path: path})
}
