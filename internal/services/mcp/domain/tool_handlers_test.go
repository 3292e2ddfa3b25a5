package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
	meetapi "github.com/louisbranch/trackmeet/internal/services/meet/api/grpc/meet"
	model "github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/projection"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/stage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

type fakeMeetClient struct {
	createReq  *meetapi.CreateEventRequest
	getReq     *meetapi.GetEventRequest
	listReq    *meetapi.ListEventsRequest
	runReq     *meetapi.RunStageRequest
	viewReq    *meetapi.GetViewRequest
	eventResp  *meetapi.EventResponse
	listResp   *meetapi.ListEventsResponse
	runResp    *meetapi.RunStageResponse
	viewResp   *meetapi.GetViewResponse
	err        error
	sawTimeout bool
}

func (f *fakeMeetClient) record(ctx context.Context) {
	_, f.sawTimeout = ctx.Deadline()
}

func (f *fakeMeetClient) CreateEvent(ctx context.Context, in *meetapi.CreateEventRequest, _ ...grpc.CallOption) (*meetapi.EventResponse, error) {
	f.record(ctx)
	f.createReq = in
	return f.eventResp, f.err
}

func (f *fakeMeetClient) GetEvent(ctx context.Context, in *meetapi.GetEventRequest, _ ...grpc.CallOption) (*meetapi.EventResponse, error) {
	f.record(ctx)
	f.getReq = in
	return f.eventResp, f.err
}

func (f *fakeMeetClient) ListEvents(ctx context.Context, in *meetapi.ListEventsRequest, _ ...grpc.CallOption) (*meetapi.ListEventsResponse, error) {
	f.record(ctx)
	f.listReq = in
	return f.listResp, f.err
}

func (f *fakeMeetClient) RunStage(ctx context.Context, in *meetapi.RunStageRequest, _ ...grpc.CallOption) (*meetapi.RunStageResponse, error) {
	f.record(ctx)
	f.runReq = in
	return f.runResp, f.err
}

func (f *fakeMeetClient) GetView(ctx context.Context, in *meetapi.GetViewRequest, _ ...grpc.CallOption) (*meetapi.GetViewResponse, error) {
	f.record(ctx)
	f.viewReq = in
	return f.viewResp, f.err
}

var testUpdatedAt = time.Date(2026, 6, 14, 15, 30, 0, 0, time.UTC)

func testSnapshot() model.Snapshot {
	return model.Snapshot{
		Event: model.Event{
			ID:       "ev1",
			Name:     "100m",
			Category: model.CategoryTrack,
			Gender:   model.GenderWomen,
			StageFlags: stage.Flags{
				stage.Created:           true,
				stage.CallRoomGenerated: true,
			},
		},
		Roster: []model.Competitor{
			{ID: "c1", Bib: "101", Name: "Ada", DisplayName: "Ada L."},
			{ID: "c2", Bib: "102", Name: "Bea"},
		},
		Version:   3,
		UpdatedAt: testUpdatedAt,
	}
}

func TestEventCreateHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		snapshot := model.Snapshot{Event: model.Event{ID: "ev1", Name: "Long jump", Category: model.CategoryJump}, Version: 1}
		client := &fakeMeetClient{eventResp: &meetapi.EventResponse{Snapshot: snapshot}}
		_, result, err := EventCreateHandler(client)(context.Background(), nil, EventCreateInput{
			Name:        "Long jump",
			Category:    "jump",
			ScheduledAt: "2026-06-14T10:00:00Z",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.createReq.Category != "jump" {
			t.Fatalf("category = %q, want jump", client.createReq.Category)
		}
		if !client.createReq.ScheduledAt.Equal(time.Date(2026, 6, 14, 10, 0, 0, 0, time.UTC)) {
			t.Fatalf("scheduled_at = %v", client.createReq.ScheduledAt)
		}
		if result.ID != "ev1" || result.Stage != string(stage.Dashboard) {
			t.Fatalf("result = %+v", result)
		}
		if result.NextStage != string(stage.Created) {
			t.Fatalf("next stage = %q, want created", result.NextStage)
		}
		if !client.sawTimeout {
			t.Fatal("expected call deadline")
		}
	})

	t.Run("bad scheduled_at", func(t *testing.T) {
		client := &fakeMeetClient{}
		_, _, err := EventCreateHandler(client)(context.Background(), nil, EventCreateInput{Name: "X", Category: "track", ScheduledAt: "tomorrow"})
		if err == nil {
			t.Fatal("expected error")
		}
		if client.createReq != nil {
			t.Fatal("expected no call for invalid input")
		}
	})
}

func TestEventGetHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := &fakeMeetClient{eventResp: &meetapi.EventResponse{Snapshot: testSnapshot()}}
		_, result, err := EventGetHandler(client)(context.Background(), nil, EventGetInput{EventID: "ev1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Stage != string(stage.CallRoomGenerated) {
			t.Fatalf("stage = %q", result.Stage)
		}
		if result.NextStage != string(stage.CallRoomCompleted) {
			t.Fatalf("next stage = %q", result.NextStage)
		}
		if len(result.CompletedStages) != 2 {
			t.Fatalf("completed stages = %v", result.CompletedStages)
		}
		if len(result.Roster) != 2 || result.Roster[0].Name != "Ada L." {
			t.Fatalf("roster = %+v", result.Roster)
		}
		if result.UpdatedAt != "2026-06-14T15:30:00Z" {
			t.Fatalf("updated_at = %q", result.UpdatedAt)
		}
		if result.Version != 3 {
			t.Fatalf("version = %d", result.Version)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		client := &fakeMeetClient{}
		if _, _, err := EventGetHandler(client)(context.Background(), nil, EventGetInput{}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("domain error keeps code", func(t *testing.T) {
		client := &fakeMeetClient{err: apperrors.New(apperrors.CodeNotFound, "event not found")}
		_, _, err := EventGetHandler(client)(context.Background(), nil, EventGetInput{EventID: "nope"})
		if !apperrors.HasCode(err, apperrors.CodeNotFound) {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
	})

	t.Run("nil response", func(t *testing.T) {
		client := &fakeMeetClient{}
		if _, _, err := EventGetHandler(client)(context.Background(), nil, EventGetInput{EventID: "ev1"}); err == nil {
			t.Fatal("expected error for missing response")
		}
	})
}

func TestEventListHandler(t *testing.T) {
	client := &fakeMeetClient{listResp: &meetapi.ListEventsResponse{
		Events: []meetapi.EventSummary{
			{EventID: "ev1", Name: "100m", Category: "track", Stage: "created", Version: 2, UpdatedAt: testUpdatedAt},
		},
		NextPageToken: "ev1",
	}}
	_, result, err := EventListHandler(client)(context.Background(), nil, EventListInput{PageSize: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.listReq.PageSize != 1 {
		t.Fatalf("page size = %d", client.listReq.PageSize)
	}
	if len(result.Events) != 1 || result.Events[0].ID != "ev1" {
		t.Fatalf("events = %+v", result.Events)
	}
	if result.NextPageToken != "ev1" {
		t.Fatalf("next token = %q", result.NextPageToken)
	}

	client = &fakeMeetClient{err: fmt.Errorf("connection refused")}
	if _, _, err := EventListHandler(client)(context.Background(), nil, EventListInput{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestStageRunHandler(t *testing.T) {
	t.Run("maps input", func(t *testing.T) {
		snapshot := testSnapshot()
		client := &fakeMeetClient{runResp: &meetapi.RunStageResponse{Snapshot: snapshot, Warnings: []string{"c2: unreadable"}}}
		_, result, err := StageRunHandler(client)(context.Background(), nil, StageRunInput{
			EventID:      "ev1",
			Stage:        "round1Scored",
			Roster:       []RosterEntryInput{{Bib: "101", Name: "Ada"}},
			Performances: map[string]string{"101": "00:00:11:20"},
			GroupSize:    6,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.runReq.Stage != "round1Scored" || client.runReq.Input.GroupSize != 6 {
			t.Fatalf("request = %+v", client.runReq)
		}
		if len(client.runReq.Input.Roster) != 1 || client.runReq.Input.Roster[0].Bib != "101" {
			t.Fatalf("roster = %+v", client.runReq.Input.Roster)
		}
		if client.runReq.Input.Performances["101"] != "00:00:11:20" {
			t.Fatalf("performances = %v", client.runReq.Input.Performances)
		}
		if len(result.Warnings) != 1 || result.Event.ID != "ev1" {
			t.Fatalf("result = %+v", result)
		}
	})

	t.Run("requires stage", func(t *testing.T) {
		client := &fakeMeetClient{}
		if _, _, err := StageRunHandler(client)(context.Background(), nil, StageRunInput{EventID: "ev1"}); err == nil {
			t.Fatal("expected error")
		}
		if client.runReq != nil {
			t.Fatal("expected no call")
		}
	})

	t.Run("out of sequence", func(t *testing.T) {
		client := &fakeMeetClient{err: apperrors.New(apperrors.CodeStageOutOfSequence, "stage out of sequence")}
		_, _, err := StageRunHandler(client)(context.Background(), nil, StageRunInput{EventID: "ev1", Stage: "published"})
		if !apperrors.HasCode(err, apperrors.CodeStageOutOfSequence) {
			t.Fatalf("expected out of sequence, got %v", err)
		}
	})
}

func TestViewGetHandler(t *testing.T) {
	lockedAt := testUpdatedAt
	client := &fakeMeetClient{viewResp: &meetapi.GetViewResponse{View: projection.View{
		Name: projection.ViewVerification,
		Verification: &projection.VerificationView{
			EventID:  "ev1",
			Category: "track",
			LockedAt: &lockedAt,
			Results: projection.Sheet{Title: "Final results", Rows: []projection.Row{
				{Rank: 1, Bib: "101", Name: "Ada", Performance: "00:00:11:20", Points: 5},
			}},
		},
	}}}
	_, result, err := ViewGetHandler(client)(context.Background(), nil, ViewGetInput{EventID: "ev1", View: "verification", Locale: "fr-FR"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.viewReq.Locale != "fr-FR" {
		t.Fatalf("locale = %q", client.viewReq.Locale)
	}
	if result.Verification == nil || result.Verification.LockedAt != "2026-06-14T15:30:00Z" {
		t.Fatalf("verification = %+v", result.Verification)
	}
	if rows := result.Verification.Results.Rows; len(rows) != 1 || rows[0].Points != 5 {
		t.Fatalf("rows = %+v", rows)
	}

	client = &fakeMeetClient{err: apperrors.New(apperrors.CodeEventLocked, "locked")}
	_, _, err = ViewGetHandler(client)(context.Background(), nil, ViewGetInput{EventID: "ev1", View: "board"})
	if !apperrors.HasCode(err, apperrors.CodeEventLocked) {
		t.Fatalf("expected locked, got %v", err)
	}
}

func TestViewResultBoard(t *testing.T) {
	view := projection.View{Name: projection.ViewBoard, Board: &projection.StageBoard{
		Current: stage.Created,
		Stages:  []projection.StageRow{{Key: stage.Created, Label: "Created", Index: 1, Completed: true, Current: true}},
	}}
	result := viewResult("ev1", view)
	if result.Board == nil || result.Board.Current != "created" || len(result.Board.Stages) != 1 {
		t.Fatalf("board = %+v", result.Board)
	}
	if result.Sheets != nil || result.Verification != nil {
		t.Fatal("expected only the board")
	}
}

func TestParseViewURI(t *testing.T) {
	tests := []struct {
		uri     string
		eventID string
		view    string
		wantErr bool
	}{
		{uri: "meet://events/ev1/views/board", eventID: "ev1", view: "board"},
		{uri: "meet://events/ev1/views/final-results", eventID: "ev1", view: "final-results"},
		{uri: "meet://events/ev1", wantErr: true},
		{uri: "meet://events/ev1/sheets/board", wantErr: true},
		{uri: "meet://events//views/board", wantErr: true},
		{uri: "meet://events/ev1/views/board?x=1", wantErr: true},
		{uri: "campaign://ev1/views/board", wantErr: true},
	}
	for _, tc := range tests {
		eventID, view, err := parseViewURI(tc.uri)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseViewURI(%q): expected error", tc.uri)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseViewURI(%q): %v", tc.uri, err)
		}
		if eventID != tc.eventID || view != tc.view {
			t.Fatalf("parseViewURI(%q) = %q, %q", tc.uri, eventID, view)
		}
	}
}

func TestEventListResourceHandler(t *testing.T) {
	client := &fakeMeetClient{listResp: &meetapi.ListEventsResponse{
		Events: []meetapi.EventSummary{{EventID: "ev1", Name: "100m", Category: "track", Stage: "created"}},
	}}
	result, err := EventListResourceHandler(client)(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "meet://events"}})
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if client.listReq.PageSize != resourcePageSize {
		t.Fatalf("page size = %d", client.listReq.PageSize)
	}
	if len(result.Contents) != 1 || result.Contents[0].MIMEType != "application/json" {
		t.Fatalf("contents = %+v", result.Contents)
	}
	var payload EventListResult
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload.Events) != 1 || payload.Events[0].ID != "ev1" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestEventViewResourceHandler(t *testing.T) {
	client := &fakeMeetClient{viewResp: &meetapi.GetViewResponse{View: projection.View{
		Name:   projection.ViewCallRoom,
		Sheets: []projection.Sheet{{Title: "Call room", Rows: []projection.Row{{Bib: "101", Name: "Ada"}}}},
	}}}
	uri := "meet://events/ev1/views/call-room"
	result, err := EventViewResourceHandler(client)(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if client.viewReq.EventID != "ev1" || client.viewReq.View != "call-room" {
		t.Fatalf("request = %+v", client.viewReq)
	}
	if result.Contents[0].URI != uri {
		t.Fatalf("uri = %q", result.Contents[0].URI)
	}

	_, err = EventViewResourceHandler(client)(context.Background(), &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: "meet://events/ev1"}})
	if err == nil {
		t.Fatal("expected error for malformed URI")
	}

	if _, err := EventViewResourceHandler(nil)(context.Background(), nil); err == nil {
		t.Fatal("expected error for missing client")
	}
}

func TestHandlersWrapErrors(t *testing.T) {
	cause := errors.New("boom")
	client := &fakeMeetClient{err: cause}
	_, _, err := ViewGetHandler(client)(context.Background(), nil, ViewGetInput{EventID: "ev1", View: "board"})
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
