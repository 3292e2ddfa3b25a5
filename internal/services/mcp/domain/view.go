package domain

import (
	"context"
	"fmt"
	"strings"

	meetapi "github.com/louisbranch/trackmeet/internal/services/meet/api/grpc/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/projection"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ViewGetInput represents the MCP tool input for rendering a view.
type ViewGetInput struct {
	EventID string `json:"event_id" jsonschema:"event identifier"`
	View    string `json:"view" jsonschema:"view name: board, call-room, track-sets, field-sheets, round1, heats, heat-results, final-start-list, final-results, announcement or verification"`
	Locale  string `json:"locale,omitempty" jsonschema:"BCP 47 locale for labels, default en-US"`
}

// StageRowResult is one line of the stage board.
type StageRowResult struct {
	Key       string `json:"key" jsonschema:"stage key"`
	Label     string `json:"label" jsonschema:"localized stage label"`
	Index     int    `json:"index" jsonschema:"position in the lifecycle, from 1"`
	Completed bool   `json:"completed" jsonschema:"stage has completed"`
	Current   bool   `json:"current" jsonschema:"stage is the current one"`
	Runnable  bool   `json:"runnable" jsonschema:"stage may run now"`
}

// BoardResult is the stage board of one event.
type BoardResult struct {
	Current      string           `json:"current" jsonschema:"current stage key"`
	CurrentLabel string           `json:"current_label" jsonschema:"localized current stage label"`
	Locked       bool             `json:"locked" jsonschema:"true once results are published"`
	Stages       []StageRowResult `json:"stages,omitempty" jsonschema:"every stage in lifecycle order"`
}

// RowResult is one competitor line on a sheet.
type RowResult struct {
	Rank        int    `json:"rank,omitempty" jsonschema:"rank"`
	Lane        int    `json:"lane,omitempty" jsonschema:"lane"`
	Bib         string `json:"bib" jsonschema:"bib number"`
	Name        string `json:"name" jsonschema:"displayed name"`
	Affiliation string `json:"affiliation,omitempty" jsonschema:"club or school"`
	Status      string `json:"status,omitempty" jsonschema:"call-room status"`
	Performance string `json:"performance,omitempty" jsonschema:"formatted performance"`
	Points      int    `json:"points,omitempty" jsonschema:"points"`
}

// SheetResult is one printable list.
type SheetResult struct {
	Title    string      `json:"title" jsonschema:"localized sheet title"`
	Group    int         `json:"group,omitempty" jsonschema:"set or heat number"`
	Attempts int         `json:"attempts,omitempty" jsonschema:"attempt columns on field sheets"`
	Rows     []RowResult `json:"rows,omitempty" jsonschema:"competitor lines"`
}

// VerificationResult is the sign-off summary of an event.
type VerificationResult struct {
	Category   string      `json:"category" jsonschema:"event category"`
	Gender     string      `json:"gender,omitempty" jsonschema:"event gender"`
	VerifiedBy string      `json:"verified_by,omitempty" jsonschema:"verifying official"`
	VerifiedAt string      `json:"verified_at,omitempty" jsonschema:"RFC3339 verification time"`
	LockedAt   string      `json:"locked_at,omitempty" jsonschema:"RFC3339 publication time"`
	Results    SheetResult `json:"results" jsonschema:"final results"`
	Medalists  SheetResult `json:"medalists" jsonschema:"medal positions"`
}

// ViewGetResult represents the MCP tool output for a rendered view.
type ViewGetResult struct {
	EventID      string              `json:"event_id" jsonschema:"event identifier"`
	View         string              `json:"view" jsonschema:"rendered view name"`
	Board        *BoardResult        `json:"board,omitempty" jsonschema:"stage board, for the board view"`
	Sheets       []SheetResult       `json:"sheets,omitempty" jsonschema:"sheets, for list views"`
	Verification *VerificationResult `json:"verification,omitempty" jsonschema:"sign-off summary, for the verification view"`
}

// ViewGetTool defines the MCP tool schema for rendering a view.
func ViewGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "meet_view_get",
		Description: "Renders a named read-only view of an event. Once published only the verification view is available.",
	}
}

// ViewGetHandler executes a view request.
func ViewGetHandler(client MeetClient) mcp.ToolHandlerFor[ViewGetInput, ViewGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ViewGetInput) (*mcp.CallToolResult, ViewGetResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		result, err := getView(runCtx, client, input)
		if err != nil {
			return nil, ViewGetResult{}, err
		}
		return nil, result, nil
	}
}

func getView(ctx context.Context, client MeetClient, input ViewGetInput) (ViewGetResult, error) {
	if strings.TrimSpace(input.EventID) == "" {
		return ViewGetResult{}, fmt.Errorf("event_id is required")
	}
	if strings.TrimSpace(input.View) == "" {
		return ViewGetResult{}, fmt.Errorf("view is required")
	}
	response, err := client.GetView(ctx, &meetapi.GetViewRequest{
		EventID: input.EventID,
		View:    input.View,
		Locale:  input.Locale,
	})
	if err != nil {
		return ViewGetResult{}, fmt.Errorf("view %s failed: %w", input.View, err)
	}
	if response == nil {
		return ViewGetResult{}, fmt.Errorf("view response is missing")
	}
	return viewResult(input.EventID, response.View), nil
}

func viewResult(eventID string, view projection.View) ViewGetResult {
	result := ViewGetResult{EventID: eventID, View: view.Name}
	if view.Board != nil {
		board := &BoardResult{
			Current:      string(view.Board.Current),
			CurrentLabel: view.Board.CurrentLabel,
			Locked:       view.Board.Locked,
		}
		for _, row := range view.Board.Stages {
			board.Stages = append(board.Stages, StageRowResult{
				Key:       string(row.Key),
				Label:     row.Label,
				Index:     row.Index,
				Completed: row.Completed,
				Current:   row.Current,
				Runnable:  row.Runnable,
			})
		}
		result.Board = board
	}
	for _, sheet := range view.Sheets {
		result.Sheets = append(result.Sheets, sheetResult(sheet))
	}
	if v := view.Verification; v != nil {
		result.Verification = &VerificationResult{
			Category:   v.Category,
			Gender:     v.Gender,
			VerifiedBy: v.VerifiedBy,
			VerifiedAt: formatTimestampPtr(v.VerifiedAt),
			LockedAt:   formatTimestampPtr(v.LockedAt),
			Results:    sheetResult(v.Results),
			Medalists:  sheetResult(v.Medalists),
		}
	}
	return result
}

func sheetResult(sheet projection.Sheet) SheetResult {
	out := SheetResult{Title: sheet.Title, Group: sheet.Group, Attempts: sheet.Attempts}
	for _, row := range sheet.Rows {
		out.Rows = append(out.Rows, RowResult(row))
	}
	return out
}
