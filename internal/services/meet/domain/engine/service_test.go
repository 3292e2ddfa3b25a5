package engine

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/stage"
	"github.com/louisbranch/trackmeet/internal/services/meet/roster"
	"github.com/louisbranch/trackmeet/internal/services/meet/storage"
)

func newTestService(store storage.EventStore) *Service {
	svc := NewService(store, 0)
	svc.clock = func() time.Time { return testNow }
	svc.newID = testEnv().NewID
	return svc
}

func TestCreateEventValidatesInput(t *testing.T) {
	svc := newTestService(newFakeEventStore())

	if _, err := svc.CreateEvent(context.Background(), EventInput{Category: "track"}); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("missing name: %v", err)
	}
	if _, err := svc.CreateEvent(context.Background(), EventInput{Name: "Hurdles", Category: "swim"}); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("unknown category: %v", err)
	}
	if _, err := svc.CreateEvent(context.Background(), EventInput{Name: "Hurdles", Category: "track", Gender: "robots"}); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("unknown gender: %v", err)
	}
}

func TestCreateEventStoresDashboardSnapshot(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)

	created, err := svc.CreateEvent(context.Background(), EventInput{Name: " Long Jump ", Category: "JUMP", Gender: "women"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if created.Event.ID != "minted-1" || created.Event.Name != "Long Jump" || created.Event.Category != meet.CategoryJump {
		t.Fatalf("created = %+v", created.Event)
	}
	if created.Version != 1 || created.Event.StageFlags.CurrentKey() != stage.Dashboard {
		t.Fatalf("version=%d stage=%s", created.Version, created.Event.StageFlags.CurrentKey())
	}

	if _, err := svc.CreateEvent(context.Background(), EventInput{ID: "minted-1", Name: "Again", Category: "jump"}); !apperrors.HasCode(err, apperrors.CodeEventAlreadyExists) {
		t.Fatalf("duplicate create: %v", err)
	}
}

func TestGetEventNotFound(t *testing.T) {
	svc := newTestService(newFakeEventStore())
	if _, err := svc.GetEvent(context.Background(), "missing"); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}

func TestServiceRunStagePersistsNextVersion(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)
	created, err := svc.CreateEvent(context.Background(), EventInput{ID: "evt-1", Name: "100m", Category: "track"})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	outcome, err := svc.ImportRoster(context.Background(), created.Event.ID, roster.Static(entrants(5)))
	if err != nil {
		t.Fatalf("import roster: %v", err)
	}
	if outcome.Snapshot.Version != 2 {
		t.Fatalf("version = %d, want 2", outcome.Snapshot.Version)
	}

	stored, err := svc.GetEvent(context.Background(), "evt-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if len(stored.Roster) != 5 || !stored.Event.StageFlags.Completed(stage.Created) {
		t.Fatalf("stored = roster %d flags %v", len(stored.Roster), stored.Event.StageFlags)
	}
}

func TestServiceRunStageFailureLeavesStoreUnchanged(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)
	if _, err := svc.CreateEvent(context.Background(), EventInput{ID: "evt-1", Name: "100m", Category: "track"}); err != nil {
		t.Fatalf("create event: %v", err)
	}

	_, err := svc.RunStage(context.Background(), "evt-1", stage.TrackSetsGenerated, Input{})
	if !apperrors.HasCode(err, apperrors.CodeStageOutOfSequence) {
		t.Fatalf("error = %v, want STAGE_OUT_OF_SEQUENCE", err)
	}
	if store.saves != 0 {
		t.Fatalf("saves = %d, want 0", store.saves)
	}
}

func TestServiceRunStageVersionConflict(t *testing.T) {
	store := newFakeEventStore()
	svc := newTestService(store)
	if _, err := svc.CreateEvent(context.Background(), EventInput{ID: "evt-1", Name: "100m", Category: "track"}); err != nil {
		t.Fatalf("create event: %v", err)
	}
	store.saveErr = storage.ErrVersionConflict

	_, err := svc.RunStage(context.Background(), "evt-1", stage.Created, Input{Roster: entrants(2)})
	if !apperrors.HasCode(err, apperrors.CodeVersionConflict) {
		t.Fatalf("error = %v, want VERSION_CONFLICT", err)
	}
}

func TestImportRosterReportsSourceErrors(t *testing.T) {
	svc := newTestService(newFakeEventStore())
	if _, err := svc.ImportRoster(context.Background(), "evt-1", nil); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("nil source: %v", err)
	}
	if _, err := svc.ImportRoster(context.Background(), "evt-1", roster.FileSource{}); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("failing source: %v", err)
	}
}

func TestListEvents(t *testing.T) {
	svc := newTestService(newFakeEventStore())
	for _, eventID := range []string{"b", "a", "c"} {
		if _, err := svc.CreateEvent(context.Background(), EventInput{ID: eventID, Name: "Event " + eventID, Category: "relay"}); err != nil {
			t.Fatalf("create %s: %v", eventID, err)
		}
	}
	page, err := svc.ListEvents(context.Background(), 2, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Events) != 2 || page.Events[0].ID != "a" || page.NextPageToken != "b" {
		t.Fatalf("page = %+v", page)
	}
}

type fakeEventStore struct {
	records map[string]meet.Snapshot
	saves   int
	saveErr error
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{records: make(map[string]meet.Snapshot)}
}

func (f *fakeEventStore) Create(_ context.Context, snapshot meet.Snapshot) error {
	if _, exists := f.records[snapshot.Event.ID]; exists {
		return storage.ErrAlreadyExists
	}
	f.records[snapshot.Event.ID] = snapshot.Clone()
	return nil
}

func (f *fakeEventStore) Load(_ context.Context, eventID string) (meet.Snapshot, error) {
	snapshot, ok := f.records[eventID]
	if !ok {
		return meet.Snapshot{}, storage.ErrNotFound
	}
	return snapshot.Clone(), nil
}

func (f *fakeEventStore) Save(_ context.Context, eventID string, snapshot meet.Snapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	stored, ok := f.records[eventID]
	if !ok {
		return storage.ErrNotFound
	}
	if snapshot.Version != stored.Version+1 {
		return storage.ErrVersionConflict
	}
	f.saves++
	f.records[eventID] = snapshot.Clone()
	return nil
}

func (f *fakeEventStore) List(_ context.Context, pageSize int, pageToken string) (storage.EventPage, error) {
	if pageSize <= 0 {
		return storage.EventPage{}, errors.New("page size must be greater than zero")
	}
	ids := make([]string, 0, len(f.records))
	for eventID := range f.records {
		ids = append(ids, eventID)
	}
	sort.Strings(ids)

	start := 0
	if pageToken != "" {
		start = sort.Search(len(ids), func(i int) bool {
			return ids[i] > pageToken
		})
	}
	page := storage.EventPage{}
	for i := start; i < len(ids) && len(page.Events) < pageSize; i++ {
		page.Events = append(page.Events, storage.Summarize(f.records[ids[i]]))
	}
	if start+pageSize < len(ids) {
		page.NextPageToken = page.Events[len(page.Events)-1].ID
	}
	return page, nil
}
