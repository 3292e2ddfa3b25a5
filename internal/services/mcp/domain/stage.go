package domain

import (
	"context"
	"fmt"
	"strings"

	meetapi "github.com/louisbranch/trackmeet/internal/services/meet/api/grpc/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/engine"
	model "github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RosterEntryInput is one competitor supplied to the created stage.
type RosterEntryInput struct {
	ID          string `json:"id,omitempty" jsonschema:"competitor identifier, minted when empty"`
	Bib         string `json:"bib" jsonschema:"bib number"`
	Name        string `json:"name" jsonschema:"competitor name"`
	Affiliation string `json:"affiliation,omitempty" jsonschema:"club or school"`
}

// StageRunInput represents the MCP tool input for running a stage.
type StageRunInput struct {
	EventID         string             `json:"event_id" jsonschema:"event identifier"`
	Stage           string             `json:"stage" jsonschema:"stage key, e.g. created, callRoomCompleted, round1Scored"`
	Roster          []RosterEntryInput `json:"roster,omitempty" jsonschema:"competitors for the created stage"`
	Attendance      map[string]string  `json:"attendance,omitempty" jsonschema:"id or bib to PRESENT, ABSENT or DISQUALIFIED for callRoomCompleted"`
	GroupSize       int                `json:"group_size,omitempty" jsonschema:"track set size for trackSetsGenerated"`
	Attempts        int                `json:"attempts,omitempty" jsonschema:"attempts per competitor for fieldJumpSheetsGenerated"`
	Performances    map[string]string  `json:"performances,omitempty" jsonschema:"id or bib to performance text (e.g. 00:00:10:52, 6.45, DNF, DIS) for the scoring stages"`
	NameCorrections map[string]string  `json:"name_corrections,omitempty" jsonschema:"id or bib to corrected display name for nameCorrected"`
	VerifiedBy      string             `json:"verified_by,omitempty" jsonschema:"official signing off for verified"`
}

// StageRunResult represents the MCP tool output for running a stage.
type StageRunResult struct {
	Event    EventResult `json:"event" jsonschema:"event after the stage ran"`
	Warnings []string    `json:"warnings,omitempty" jsonschema:"recoverable data problems, such as unreadable performances"`
}

// StageRunTool defines the MCP tool schema for running a stage.
func StageRunTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "meet_stage_run",
		Description: "Runs one lifecycle stage of an event. A stage runs only after the previous one; " +
			"re-running a completed stage discards every later stage. Published events are locked.",
	}
}

// StageRunHandler executes a stage run request.
func StageRunHandler(client MeetClient) mcp.ToolHandlerFor[StageRunInput, StageRunResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StageRunInput) (*mcp.CallToolResult, StageRunResult, error) {
		if strings.TrimSpace(input.EventID) == "" {
			return nil, StageRunResult{}, fmt.Errorf("event_id is required")
		}
		if strings.TrimSpace(input.Stage) == "" {
			return nil, StageRunResult{}, fmt.Errorf("stage is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
		defer cancel()

		response, err := client.RunStage(runCtx, &meetapi.RunStageRequest{
			EventID: input.EventID,
			Stage:   input.Stage,
			Input:   stageInput(input),
		})
		if err != nil {
			return nil, StageRunResult{}, fmt.Errorf("stage %s failed: %w", input.Stage, err)
		}
		if response == nil {
			return nil, StageRunResult{}, fmt.Errorf("stage run response is missing")
		}
		return nil, StageRunResult{
			Event:    eventResult(response.Snapshot),
			Warnings: response.Warnings,
		}, nil
	}
}

func stageInput(input StageRunInput) engine.Input {
	out := engine.Input{
		Attendance:      input.Attendance,
		GroupSize:       input.GroupSize,
		Attempts:        input.Attempts,
		Performances:    input.Performances,
		NameCorrections: input.NameCorrections,
		VerifiedBy:      input.VerifiedBy,
	}
	for _, entry := range input.Roster {
		out.Roster = append(out.Roster, model.Competitor{
			ID:          entry.ID,
			Bib:         entry.Bib,
			Name:        entry.Name,
			Affiliation: entry.Affiliation,
		})
	}
	return out
}
