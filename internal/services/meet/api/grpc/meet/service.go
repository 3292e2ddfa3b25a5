// Package meet exposes the meet.v1 gRPC API over the event engine.
package meet

import (
	"context"
	"log"
	"strings"

	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
	"github.com/louisbranch/trackmeet/internal/platform/grpc/pagination"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/engine"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/projection"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/stage"
	"github.com/louisbranch/trackmeet/internal/services/meet/roster"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// LocaleMetadataKey is the request metadata key selecting the locale of
// user-facing error messages.
const LocaleMetadataKey = "x-trackmeet-locale"

const (
	defaultListEventsPageSize = 10
	maxListEventsPageSize     = 50
)

// Service exposes meet.v1 gRPC operations.
type Service struct {
	engine *engine.Service
}

// NewService creates a meet service backed by the event engine.
func NewService(engineService *engine.Service) *Service {
	return &Service{engine: engineService}
}

// CreateEvent creates one event.
func (s *Service) CreateEvent(ctx context.Context, in *CreateEventRequest) (*EventResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "create event request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "event engine is not configured")
	}
	snapshot, err := s.engine.CreateEvent(ctx, engine.EventInput{
		ID:          in.EventID,
		Name:        in.Name,
		Category:    in.Category,
		Gender:      in.Gender,
		Venue:       in.Venue,
		ScheduledAt: in.ScheduledAt,
	})
	if err != nil {
		return nil, handleError(ctx, "create event", err)
	}
	return &EventResponse{Snapshot: snapshot}, nil
}

// GetEvent returns one event snapshot.
func (s *Service) GetEvent(ctx context.Context, in *GetEventRequest) (*EventResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get event request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "event engine is not configured")
	}
	snapshot, err := s.engine.GetEvent(ctx, in.EventID)
	if err != nil {
		return nil, handleError(ctx, "get event", err)
	}
	return &EventResponse{Snapshot: snapshot}, nil
}

// ListEvents returns a page of event summaries.
func (s *Service) ListEvents(ctx context.Context, in *ListEventsRequest) (*ListEventsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list events request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "event engine is not configured")
	}

	pageSize := pagination.ClampPageSize(in.PageSize, pagination.PageSizeConfig{
		Default: defaultListEventsPageSize,
		Max:     maxListEventsPageSize,
	})
	page, err := s.engine.ListEvents(ctx, pageSize, in.PageToken)
	if err != nil {
		return nil, handleError(ctx, "list events", err)
	}

	resp := &ListEventsResponse{
		Events:        make([]EventSummary, 0, len(page.Events)),
		NextPageToken: page.NextPageToken,
	}
	for _, summary := range page.Events {
		resp.Events = append(resp.Events, summaryToWire(summary))
	}
	return resp, nil
}

// RunStage runs one stage and returns the new snapshot.
func (s *Service) RunStage(ctx context.Context, in *RunStageRequest) (*RunStageResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "run stage request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "event engine is not configured")
	}
	key, err := stage.Parse(in.Stage)
	if err != nil {
		return nil, handleError(ctx, "run stage", err)
	}
	var outcome engine.Outcome
	if key == stage.Created {
		outcome, err = s.engine.ImportRoster(ctx, in.EventID, roster.Static(in.Input.Roster))
	} else {
		outcome, err = s.engine.RunStage(ctx, in.EventID, key, in.Input)
	}
	if err != nil {
		return nil, handleError(ctx, "run stage", err)
	}
	return &RunStageResponse{Snapshot: outcome.Snapshot, Warnings: outcome.Warnings}, nil
}

// GetView renders one named view of an event.
func (s *Service) GetView(ctx context.Context, in *GetViewRequest) (*GetViewResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get view request is required")
	}
	if s == nil || s.engine == nil {
		return nil, status.Error(codes.Internal, "event engine is not configured")
	}
	snapshot, err := s.engine.GetEvent(ctx, in.EventID)
	if err != nil {
		return nil, handleError(ctx, "get view", err)
	}
	locale := strings.TrimSpace(in.Locale)
	if locale == "" {
		locale = localeFromContext(ctx)
	}
	view, err := projection.Build(snapshot, in.View, locale)
	if err != nil {
		return nil, handleError(ctx, "get view", err)
	}
	return &GetViewResponse{View: view}, nil
}

func handleError(ctx context.Context, operation string, err error) error {
	if apperrors.CodeOf(err) == apperrors.CodeUnknown {
		log.Printf("%s: %v", operation, err)
	}
	return apperrors.HandleError(err, localeFromContext(ctx))
}

func localeFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return apperrors.DefaultLocale
	}
	for _, value := range md.Get(LocaleMetadataKey) {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return apperrors.DefaultLocale
}

func invalidMessage(err error) error {
	return status.Errorf(codes.InvalidArgument, "invalid request message: %v", err)
}

var _ MeetServiceServer = (*Service)(nil)
