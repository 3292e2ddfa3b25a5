package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
	"github.com/louisbranch/trackmeet/internal/platform/id"
	platformotel "github.com/louisbranch/trackmeet/internal/platform/otel"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/stage"
	"github.com/louisbranch/trackmeet/internal/services/meet/roster"
	"github.com/louisbranch/trackmeet/internal/services/meet/storage"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
)

// EventInput describes a new event.
type EventInput struct {
	ID          string
	Name        string
	Category    string
	Gender      string
	Venue       string
	ScheduledAt time.Time
}

// Service loads, advances and stores events.
type Service struct {
	store     storage.EventStore
	clock     func() time.Time
	newID     func() (string, error)
	groupSize int
}

// NewService creates an engine service backed by event storage. A groupSize
// of zero uses the standard eight lanes.
func NewService(store storage.EventStore, groupSize int) *Service {
	return &Service{
		store:     store,
		clock:     time.Now,
		newID:     id.NewID,
		groupSize: groupSize,
	}
}

func (s *Service) env() Env {
	return Env{Now: s.clock, NewID: s.newID, GroupSize: s.groupSize}
}

// CreateEvent stores a new event on the dashboard stage.
func (s *Service) CreateEvent(ctx context.Context, in EventInput) (meet.Snapshot, error) {
	if s == nil || s.store == nil {
		return meet.Snapshot{}, fmt.Errorf("event store is not configured")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return meet.Snapshot{}, invalidInput("event name is required")
	}
	category, ok := meet.ParseCategory(in.Category)
	if !ok {
		return meet.Snapshot{}, invalidInput(fmt.Sprintf("unknown category %q", in.Category))
	}
	var gender meet.Gender
	if strings.TrimSpace(in.Gender) != "" {
		gender, ok = meet.ParseGender(in.Gender)
		if !ok {
			return meet.Snapshot{}, invalidInput(fmt.Sprintf("unknown gender %q", in.Gender))
		}
	}
	eventID := strings.TrimSpace(in.ID)
	if eventID == "" {
		minted, err := s.env().newID()
		if err != nil {
			return meet.Snapshot{}, fmt.Errorf("mint event id: %w", err)
		}
		eventID = minted
	}

	now := s.env().now()
	snapshot := meet.Snapshot{
		Event: meet.Event{
			ID:          eventID,
			Name:        name,
			Category:    category,
			Gender:      gender,
			Venue:       strings.TrimSpace(in.Venue),
			ScheduledAt: in.ScheduledAt.UTC(),
			StageFlags:  stage.Flags{},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, snapshot); err != nil {
		return meet.Snapshot{}, storeError(err, eventID)
	}
	log.Printf("event %s: created (%s)", eventID, category)
	return snapshot, nil
}

// GetEvent returns the stored snapshot of one event.
func (s *Service) GetEvent(ctx context.Context, eventID string) (meet.Snapshot, error) {
	if s == nil || s.store == nil {
		return meet.Snapshot{}, fmt.Errorf("event store is not configured")
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return meet.Snapshot{}, invalidInput("event id is required")
	}
	snapshot, err := s.store.Load(ctx, eventID)
	if err != nil {
		return meet.Snapshot{}, storeError(err, eventID)
	}
	return snapshot, nil
}

// ListEvents returns one page of event summaries.
func (s *Service) ListEvents(ctx context.Context, pageSize int, pageToken string) (storage.EventPage, error) {
	if s == nil || s.store == nil {
		return storage.EventPage{}, fmt.Errorf("event store is not configured")
	}
	page, err := s.store.List(ctx, pageSize, pageToken)
	if err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	return page, nil
}

// RunStage loads an event, runs key and stores the result as the next
// version. The stored event is unchanged when any step fails.
func (s *Service) RunStage(ctx context.Context, eventID string, key stage.Key, in Input) (Outcome, error) {
	if s == nil || s.store == nil {
		return Outcome{}, fmt.Errorf("event store is not configured")
	}
	ctx, span := platformotel.Tracer().Start(ctx, "engine.RunStage")
	defer span.End()
	span.SetAttributes(
		attribute.String("trackmeet.event_id", eventID),
		attribute.String("trackmeet.stage", string(key)),
	)

	outcome, err := s.runStage(ctx, eventID, key, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, string(apperrors.CodeOf(err)))
		return Outcome{}, err
	}
	span.SetAttributes(attribute.Int64("trackmeet.version", outcome.Snapshot.Version))
	return outcome, nil
}

func (s *Service) runStage(ctx context.Context, eventID string, key stage.Key, in Input) (Outcome, error) {
	current, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return Outcome{}, err
	}
	outcome, err := RunStage(current, key, in, s.env())
	if err != nil {
		return Outcome{}, err
	}
	outcome.Snapshot.Version = current.Version + 1
	if err := s.store.Save(ctx, current.Event.ID, outcome.Snapshot); err != nil {
		return Outcome{}, storeError(err, current.Event.ID)
	}
	for _, warning := range outcome.Warnings {
		log.Printf("event %s: stage %s: %s", current.Event.ID, key, warning)
	}
	log.Printf("event %s: stage %s completed (version %d)", current.Event.ID, key, outcome.Snapshot.Version)
	return outcome, nil
}

// ImportRoster loads competitors from source and runs the created stage.
func (s *Service) ImportRoster(ctx context.Context, eventID string, source roster.Source) (Outcome, error) {
	if source == nil {
		return Outcome{}, invalidInput("roster source is required")
	}
	competitors, err := source.Load(ctx)
	if err != nil {
		return Outcome{}, apperrors.Wrap(apperrors.CodeInvalidInput, "load roster", map[string]string{
			"Reason": err.Error(),
		}, err)
	}
	return s.RunStage(ctx, eventID, stage.Created, Input{Roster: competitors})
}

func storeError(err error, eventID string) error {
	metadata := map[string]string{"EventID": eventID}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, "event "+eventID+" not found", metadata, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return apperrors.Wrap(apperrors.CodeEventAlreadyExists, "event "+eventID+" already exists", metadata, err)
	case errors.Is(err, storage.ErrVersionConflict):
		return apperrors.Wrap(apperrors.CodeVersionConflict, "event "+eventID+" changed concurrently", metadata, err)
	default:
		return fmt.Errorf("event %s: %w", eventID, err)
	}
}
