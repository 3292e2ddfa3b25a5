package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	meetapi "github.com/louisbranch/trackmeet/internal/services/meet/api/grpc/meet"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// EventCreateInput represents the MCP tool input for creating an event.
type EventCreateInput struct {
	Name        string `json:"name" jsonschema:"event name, e.g. 100m"`
	Category    string `json:"category" jsonschema:"track, jump, throw, relay or combined"`
	Gender      string `json:"gender,omitempty" jsonschema:"men, women or mixed"`
	Venue       string `json:"venue,omitempty" jsonschema:"venue name"`
	ScheduledAt string `json:"scheduled_at,omitempty" jsonschema:"RFC3339 scheduled start"`
}

// EventCreateTool defines the MCP tool schema for creating an event.
func EventCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "meet_event_create",
		Description: "Creates an event on the dashboard stage. Load the roster next with meet_stage_run and stage created.",
	}
}

// EventCreateHandler executes an event create request.
func EventCreateHandler(client MeetClient) mcp.ToolHandlerFor[EventCreateInput, EventResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventCreateInput) (*mcp.CallToolResult, EventResult, error) {
		request := &meetapi.CreateEventRequest{
			Name:     input.Name,
			Category: input.Category,
			Gender:   input.Gender,
			Venue:    input.Venue,
		}
		if value := strings.TrimSpace(input.ScheduledAt); value != "" {
			scheduledAt, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return nil, EventResult{}, fmt.Errorf("scheduled_at must be RFC3339: %w", err)
			}
			request.ScheduledAt = scheduledAt
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		response, err := client.CreateEvent(runCtx, request)
		if err != nil {
			return nil, EventResult{}, fmt.Errorf("event create failed: %w", err)
		}
		if response == nil {
			return nil, EventResult{}, fmt.Errorf("event create response is missing")
		}
		return nil, eventResult(response.Snapshot), nil
	}
}

// EventGetInput represents the MCP tool input for reading an event.
type EventGetInput struct {
	EventID string `json:"event_id" jsonschema:"event identifier"`
}

// EventGetTool defines the MCP tool schema for reading an event.
func EventGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "meet_event_get",
		Description: "Returns an event with its stage progress, roster and final results.",
	}
}

// EventGetHandler executes an event read request.
func EventGetHandler(client MeetClient) mcp.ToolHandlerFor[EventGetInput, EventResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventGetInput) (*mcp.CallToolResult, EventResult, error) {
		if strings.TrimSpace(input.EventID) == "" {
			return nil, EventResult{}, fmt.Errorf("event_id is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		response, err := client.GetEvent(runCtx, &meetapi.GetEventRequest{EventID: input.EventID})
		if err != nil {
			return nil, EventResult{}, fmt.Errorf("event get failed: %w", err)
		}
		if response == nil {
			return nil, EventResult{}, fmt.Errorf("event get response is missing")
		}
		return nil, eventResult(response.Snapshot), nil
	}
}

// EventListInput represents the MCP tool input for listing events.
type EventListInput struct {
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum events to return (default 10, max 50)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"token from a previous page"`
}

// EventListEntry is one listed event.
type EventListEntry struct {
	ID        string `json:"id" jsonschema:"event identifier"`
	Name      string `json:"name" jsonschema:"event name"`
	Category  string `json:"category" jsonschema:"event category"`
	Gender    string `json:"gender,omitempty" jsonschema:"event gender"`
	Stage     string `json:"stage" jsonschema:"current stage"`
	Locked    bool   `json:"locked" jsonschema:"true once results are published"`
	Version   int64  `json:"version" jsonschema:"snapshot version"`
	UpdatedAt string `json:"updated_at" jsonschema:"RFC3339 timestamp of the last change"`
}

// EventListResult represents the MCP tool output for listing events.
type EventListResult struct {
	Events        []EventListEntry `json:"events,omitempty" jsonschema:"events ordered by identifier"`
	NextPageToken string           `json:"next_page_token,omitempty" jsonschema:"token for the next page, empty on the last page"`
}

// EventListTool defines the MCP tool schema for listing events.
func EventListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "meet_event_list",
		Description: "Lists events with their current stage. Pass next_page_token back as page_token to continue.",
	}
}

// EventListHandler executes an event list request.
func EventListHandler(client MeetClient) mcp.ToolHandlerFor[EventListInput, EventListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventListInput) (*mcp.CallToolResult, EventListResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		result, err := listEvents(runCtx, client, input)
		if err != nil {
			return nil, EventListResult{}, err
		}
		return nil, result, nil
	}
}

func listEvents(ctx context.Context, client MeetClient, input EventListInput) (EventListResult, error) {
	response, err := client.ListEvents(ctx, &meetapi.ListEventsRequest{
		PageSize:  int32(input.PageSize),
		PageToken: input.PageToken,
	})
	if err != nil {
		return EventListResult{}, fmt.Errorf("event list failed: %w", err)
	}
	if response == nil {
		return EventListResult{}, fmt.Errorf("event list response is missing")
	}

	result := EventListResult{NextPageToken: response.NextPageToken}
	for _, event := range response.Events {
		result.Events = append(result.Events, EventListEntry{
			ID:        event.EventID,
			Name:      event.Name,
			Category:  event.Category,
			Gender:    event.Gender,
			Stage:     event.Stage,
			Locked:    event.Locked,
			Version:   event.Version,
			UpdatedAt: formatTimestamp(event.UpdatedAt),
		})
	}
	return result, nil
}
