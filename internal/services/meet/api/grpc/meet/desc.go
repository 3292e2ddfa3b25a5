package meet

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "meet.v1.MeetService"

const (
	createEventMethod = "/" + ServiceName + "/CreateEvent"
	getEventMethod    = "/" + ServiceName + "/GetEvent"
	listEventsMethod  = "/" + ServiceName + "/ListEvents"
	runStageMethod    = "/" + ServiceName + "/RunStage"
	getViewMethod     = "/" + ServiceName + "/GetView"
)

// MeetServiceServer is the server API for meet.v1.MeetService.
type MeetServiceServer interface {
	CreateEvent(context.Context, *CreateEventRequest) (*EventResponse, error)
	GetEvent(context.Context, *GetEventRequest) (*EventResponse, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
	RunStage(context.Context, *RunStageRequest) (*RunStageResponse, error)
	GetView(context.Context, *GetViewRequest) (*GetViewResponse, error)
}

// RegisterMeetServiceServer registers srv on s.
func RegisterMeetServiceServer(s grpc.ServiceRegistrar, srv MeetServiceServer) {
	s.RegisterService(&MeetServiceDesc, srv)
}

// MeetServiceDesc describes meet.v1.MeetService. Every method exchanges
// google.protobuf.Struct messages holding the JSON form of the request and
// response types of this package.
var MeetServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MeetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateEvent",
			Handler: unaryHandler(createEventMethod, func(srv MeetServiceServer, ctx context.Context, in *CreateEventRequest) (any, error) {
				return srv.CreateEvent(ctx, in)
			}),
		},
		{
			MethodName: "GetEvent",
			Handler: unaryHandler(getEventMethod, func(srv MeetServiceServer, ctx context.Context, in *GetEventRequest) (any, error) {
				return srv.GetEvent(ctx, in)
			}),
		},
		{
			MethodName: "ListEvents",
			Handler: unaryHandler(listEventsMethod, func(srv MeetServiceServer, ctx context.Context, in *ListEventsRequest) (any, error) {
				return srv.ListEvents(ctx, in)
			}),
		},
		{
			MethodName: "RunStage",
			Handler: unaryHandler(runStageMethod, func(srv MeetServiceServer, ctx context.Context, in *RunStageRequest) (any, error) {
				return srv.RunStage(ctx, in)
			}),
		},
		{
			MethodName: "GetView",
			Handler: unaryHandler(getViewMethod, func(srv MeetServiceServer, ctx context.Context, in *GetViewRequest) (any, error) {
				return srv.GetView(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "meet/v1/meet.proto",
}

// unaryHandler adapts a typed method to grpc.MethodDesc. The request Struct
// is decoded into Req before interceptors run so they see the typed request.
func unaryHandler[Req any](fullMethod string, call func(MeetServiceServer, context.Context, *Req) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		raw := new(structpb.Struct)
		if err := dec(raw); err != nil {
			return nil, err
		}
		in := new(Req)
		if err := fromStruct(raw, in); err != nil {
			return nil, invalidMessage(err)
		}
		handle := func(ctx context.Context, req any) (any, error) {
			out, err := call(srv.(MeetServiceServer), ctx, req.(*Req))
			if err != nil {
				return nil, err
			}
			return toStruct(out)
		}
		if interceptor == nil {
			return handle(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, handle)
	}
}
