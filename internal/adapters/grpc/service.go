package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/mythic-mines/internal/application/mediator"
	"github.com/andrescamacho/mythic-mines/internal/application/world/commands"
	"github.com/andrescamacho/mythic-mines/internal/application/world/queries"
)

// ServiceName is the fully qualified gRPC service name of the daemon
const ServiceName = "mythicmines.daemon.v1.MinesDaemon"

// Method names exposed by the daemon
const (
	MethodStatus                = "Status"
	MethodGetField              = "GetField"
	MethodListWorkers           = "ListWorkers"
	MethodListEvents            = "ListEvents"
	MethodAssignWorker          = "AssignWorker"
	MethodRemoveWorker          = "RemoveWorker"
	MethodDispatchUnit          = "DispatchUnit"
	MethodCollect               = "Collect"
	MethodAdvanceTick           = "AdvanceTick"
	MethodHireWorker            = "HireWorker"
	MethodDismissWorker         = "DismissWorker"
	MethodUpdateWorkerCondition = "UpdateWorkerCondition"
	MethodSetLevel              = "SetLevel"
	MethodSaveState             = "SaveState"
	MethodLoadState             = "LoadState"
	MethodExportSnapshot        = "ExportSnapshot"
	MethodImportSnapshot        = "ImportSnapshot"
)

// requestFactories maps every RPC onto the mediator request it carries.
// Payloads travel as structpb.Struct holding the JSON form of the request.
var requestFactories = map[string]func() mediator.Request{
	MethodStatus:                func() mediator.Request { return &queries.GetStatusQuery{} },
	MethodGetField:              func() mediator.Request { return &queries.GetFieldQuery{} },
	MethodListWorkers:           func() mediator.Request { return &queries.ListWorkersQuery{} },
	MethodListEvents:            func() mediator.Request { return &queries.ListEventsQuery{} },
	MethodAssignWorker:          func() mediator.Request { return &commands.AssignWorkerCommand{} },
	MethodRemoveWorker:          func() mediator.Request { return &commands.RemoveWorkerCommand{} },
	MethodDispatchUnit:          func() mediator.Request { return &commands.DispatchUnitCommand{} },
	MethodCollect:               func() mediator.Request { return &commands.CollectCommand{} },
	MethodAdvanceTick:           func() mediator.Request { return &commands.AdvanceTickCommand{} },
	MethodHireWorker:            func() mediator.Request { return &commands.HireWorkerCommand{} },
	MethodDismissWorker:         func() mediator.Request { return &commands.DismissWorkerCommand{} },
	MethodUpdateWorkerCondition: func() mediator.Request { return &commands.UpdateWorkerConditionCommand{} },
	MethodSetLevel:              func() mediator.Request { return &commands.SetLevelCommand{} },
	MethodSaveState:             func() mediator.Request { return &commands.SaveStateCommand{} },
	MethodLoadState:             func() mediator.Request { return &commands.LoadStateCommand{} },
	MethodExportSnapshot:        func() mediator.Request { return &commands.ExportSnapshotCommand{} },
	MethodImportSnapshot:        func() mediator.Request { return &commands.ImportSnapshotCommand{} },
}

// mediatorService is the server side of the service description
type mediatorService interface {
	dispatch(ctx context.Context, request mediator.Request) (*structpb.Struct, error)
}

// serviceDesc describes the daemon service without generated stubs
func serviceDesc() *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*mediatorService)(nil),
		Metadata:    "mythicmines/daemon/v1/daemon.proto",
	}
	for name, factory := range requestFactories {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: name,
			Handler:    unaryHandler(name, factory),
		})
	}
	return desc
}

func unaryHandler(name string, factory func() mediator.Request) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		handle := func(ctx context.Context, req interface{}) (interface{}, error) {
			request := factory()
			if err := fromStruct(req.(*structpb.Struct), request); err != nil {
				return nil, invalidArgument(err)
			}
			return srv.(mediatorService).dispatch(ctx, request)
		}

		if interceptor == nil {
			return handle(ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(name),
		}
		return interceptor(ctx, in, info, handle)
	}
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// toStruct converts any JSON-encodable value into a structpb.Struct
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	fields := map[string]interface{}{}
	if string(raw) != "null" {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("payload must be a JSON object: %w", err)
		}
	}
	return structpb.NewStruct(fields)
}

// fromStruct decodes a structpb.Struct into out
func fromStruct(in *structpb.Struct, out interface{}) error {
	if in == nil {
		return nil
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}
