package meet

import (
	"context"

	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls meet.v1.MeetService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a meet client on an existing connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// CreateEvent creates one event.
func (c *Client) CreateEvent(ctx context.Context, in *CreateEventRequest, opts ...grpc.CallOption) (*EventResponse, error) {
	out := new(EventResponse)
	if err := c.invoke(ctx, createEventMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEvent returns one event snapshot.
func (c *Client) GetEvent(ctx context.Context, in *GetEventRequest, opts ...grpc.CallOption) (*EventResponse, error) {
	out := new(EventResponse)
	if err := c.invoke(ctx, getEventMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEvents returns a page of event summaries.
func (c *Client) ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	out := new(ListEventsResponse)
	if err := c.invoke(ctx, listEventsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RunStage runs one stage of an event.
func (c *Client) RunStage(ctx context.Context, in *RunStageRequest, opts ...grpc.CallOption) (*RunStageResponse, error) {
	out := new(RunStageResponse)
	if err := c.invoke(ctx, runStageMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetView renders one named view.
func (c *Client) GetView(ctx context.Context, in *GetViewRequest, opts ...grpc.CallOption) (*GetViewResponse, error) {
	out := new(GetViewResponse)
	if err := c.invoke(ctx, getViewMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// invoke sends in as a Struct and decodes the Struct reply into out. Status
// errors carrying a domain code come back as *apperrors.Error.
func (c *Client) invoke(ctx context.Context, method string, in any, out any, opts ...grpc.CallOption) error {
	request, err := toStruct(in)
	if err != nil {
		return err
	}
	reply := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, request, reply, opts...); err != nil {
		return apperrors.FromGRPCStatus(err)
	}
	return fromStruct(reply, out)
}
