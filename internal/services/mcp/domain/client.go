package domain

import (
	"context"

	"github.com/louisbranch/trackmeet/internal/platform/timeouts"
	meetapi "github.com/louisbranch/trackmeet/internal/services/meet/api/grpc/meet"
	"google.golang.org/grpc"
)

// grpcCallTimeout caps the time for a single meet call from a tool handler.
const grpcCallTimeout = timeouts.GRPCRequest

// MeetClient is the subset of the meet gRPC client the tools use.
type MeetClient interface {
	CreateEvent(ctx context.Context, in *meetapi.CreateEventRequest, opts ...grpc.CallOption) (*meetapi.EventResponse, error)
	GetEvent(ctx context.Context, in *meetapi.GetEventRequest, opts ...grpc.CallOption) (*meetapi.EventResponse, error)
	ListEvents(ctx context.Context, in *meetapi.ListEventsRequest, opts ...grpc.CallOption) (*meetapi.ListEventsResponse, error)
	RunStage(ctx context.Context, in *meetapi.RunStageRequest, opts ...grpc.CallOption) (*meetapi.RunStageResponse, error)
	GetView(ctx context.Context, in *meetapi.GetViewRequest, opts ...grpc.CallOption) (*meetapi.GetViewResponse, error)
}

var _ MeetClient = (*meetapi.Client)(nil)
