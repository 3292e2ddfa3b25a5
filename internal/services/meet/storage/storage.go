// Package storage defines persistence contracts for meet event state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/stage"
)

var (
	// ErrNotFound indicates a requested event is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates an event with the same ID is already stored.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrVersionConflict indicates the stored event moved on since it was loaded.
	ErrVersionConflict = errors.New("version conflict")
)

// EventSummary is the listing row of one stored event.
type EventSummary struct {
	ID        string
	Name      string
	Category  meet.Category
	Gender    meet.Gender
	Stage     stage.Key
	Locked    bool
	Version   int64
	UpdatedAt time.Time
}

// EventPage stores one page of event summaries.
type EventPage struct {
	Events        []EventSummary
	NextPageToken string
}

// EventStore persists whole event snapshots.
//
// Save only accepts a snapshot whose Version is exactly one above the stored
// version and otherwise returns ErrVersionConflict, leaving the stored
// snapshot unchanged.
type EventStore interface {
	Create(ctx context.Context, snapshot meet.Snapshot) error
	Load(ctx context.Context, eventID string) (meet.Snapshot, error)
	Save(ctx context.Context, eventID string, snapshot meet.Snapshot) error
	List(ctx context.Context, pageSize int, pageToken string) (EventPage, error)
}

// Summarize builds the listing row for a snapshot.
func Summarize(snapshot meet.Snapshot) EventSummary {
	return EventSummary{
		ID:        snapshot.Event.ID,
		Name:      snapshot.Event.Name,
		Category:  snapshot.Event.Category,
		Gender:    snapshot.Event.Gender,
		Stage:     snapshot.Event.StageFlags.CurrentKey(),
		Locked:    snapshot.Event.Locked(),
		Version:   snapshot.Version,
		UpdatedAt: snapshot.UpdatedAt,
	}
}
