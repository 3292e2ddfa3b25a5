package meet

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/trackmeet/internal/services/meet/domain/engine"
	model "github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/projection"
	"github.com/louisbranch/trackmeet/internal/services/meet/storage"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// CreateEventRequest creates an event on the dashboard stage.
type CreateEventRequest struct {
	EventID     string    `json:"event_id,omitempty"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Gender      string    `json:"gender,omitempty"`
	Venue       string    `json:"venue,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at,omitzero"`
}

// GetEventRequest identifies one event.
type GetEventRequest struct {
	EventID string `json:"event_id"`
}

// EventResponse carries a full event snapshot.
type EventResponse struct {
	Snapshot model.Snapshot `json:"snapshot"`
}

// ListEventsRequest pages through events.
type ListEventsRequest struct {
	PageSize  int32  `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// EventSummary is one listed event.
type EventSummary struct {
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Gender    string    `json:"gender,omitempty"`
	Stage     string    `json:"stage"`
	Locked    bool      `json:"locked"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListEventsResponse is one page of events.
type ListEventsResponse struct {
	Events        []EventSummary `json:"events"`
	NextPageToken string         `json:"next_page_token,omitempty"`
}

// RunStageRequest runs one stage of an event.
type RunStageRequest struct {
	EventID string       `json:"event_id"`
	Stage   string       `json:"stage"`
	Input   engine.Input `json:"input"`
}

// RunStageResponse carries the snapshot after the stage and any warnings.
type RunStageResponse struct {
	Snapshot model.Snapshot `json:"snapshot"`
	Warnings []string       `json:"warnings,omitempty"`
}

// GetViewRequest renders one named view of an event.
type GetViewRequest struct {
	EventID string `json:"event_id"`
	View    string `json:"view"`
	Locale  string `json:"locale,omitempty"`
}

// GetViewResponse carries a rendered view.
type GetViewResponse struct {
	View projection.View `json:"view"`
}

func summaryToWire(summary storage.EventSummary) EventSummary {
	return EventSummary{
		EventID:   summary.ID,
		Name:      summary.Name,
		Category:  string(summary.Category),
		Gender:    string(summary.Gender),
		Stage:     string(summary.Stage),
		Locked:    summary.Locked,
		Version:   summary.Version,
		UpdatedAt: summary.UpdatedAt,
	}
}

// toStruct encodes a message as a protobuf Struct through its JSON form.
func toStruct(value any) (*structpb.Struct, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return out, nil
}

// fromStruct decodes a protobuf Struct into target through its JSON form.
func fromStruct(in *structpb.Struct, target any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}
