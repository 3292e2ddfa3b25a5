package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	eventResourcePrefix  = "meet://events"
	resourcePageSize     = 50
	viewResourceSegment  = "views"
	resourceJSONMIMEType = "application/json"
)

// EventListResource defines the readable event listing.
func EventListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "event_list",
		Title:       "Events",
		Description: "Readable listing of the first page of events with their current stage",
		MIMEType:    resourceJSONMIMEType,
		URI:         eventResourcePrefix,
	}
}

// EventListResourceHandler returns the event listing resource.
func EventListResourceHandler(client MeetClient) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if client == nil {
			return nil, fmt.Errorf("event list client is not configured")
		}
		uri := EventListResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		payload, err := listEvents(runCtx, client, EventListInput{PageSize: resourcePageSize})
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, payload)
	}
}

// EventViewResourceTemplate defines readable views of one event.
func EventViewResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "event_view",
		Title:       "Event view",
		Description: "Readable view of an event. URI format: meet://events/{event_id}/views/{view}",
		MIMEType:    resourceJSONMIMEType,
		URITemplate: eventResourcePrefix + "/{event_id}/views/{view}",
	}
}

// EventViewResourceHandler returns one rendered view as a resource.
func EventViewResourceHandler(client MeetClient) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if client == nil {
			return nil, fmt.Errorf("event view client is not configured")
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("use URI format meet://events/{event_id}/views/{view}")
		}
		uri := req.Params.URI
		eventID, view, err := parseViewURI(uri)
		if err != nil {
			return nil, fmt.Errorf("parse view URI: %w", err)
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		payload, err := getView(runCtx, client, ViewGetInput{EventID: eventID, View: view})
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, payload)
	}
}

// parseViewURI extracts the event ID and view name from
// meet://events/{event_id}/views/{view}.
func parseViewURI(uri string) (string, string, error) {
	prefix := eventResourcePrefix + "/"
	if !strings.HasPrefix(uri, prefix) {
		return "", "", fmt.Errorf("URI must start with %q", prefix)
	}
	if strings.ContainsAny(uri, "?#") {
		return "", "", fmt.Errorf("URI must not contain query parameters or fragments")
	}
	parts := strings.Split(strings.TrimPrefix(uri, prefix), "/")
	if len(parts) != 3 || parts[1] != viewResourceSegment {
		return "", "", fmt.Errorf("URI must match meet://events/{event_id}/views/{view}")
	}
	eventID := strings.TrimSpace(parts[0])
	view := strings.TrimSpace(parts[2])
	if eventID == "" || view == "" {
		return "", "", fmt.Errorf("event ID and view are required in URI")
	}
	return eventID, view, nil
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: resourceJSONMIMEType,
				Text:     string(data),
			},
		},
	}, nil
}
