// Package sqlite provides a SQLite-backed meet storage implementation.
//
// Each event is one row holding the JSON-encoded snapshot plus the columns
// needed for listing and the optimistic version check.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/trackmeet/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/stage"
	"github.com/louisbranch/trackmeet/internal/services/meet/storage"
	"github.com/louisbranch/trackmeet/internal/services/meet/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists meet events in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite meet store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Create inserts a new event snapshot.
func (s *Store) Create(ctx context.Context, snapshot meet.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	eventID := strings.TrimSpace(snapshot.Event.ID)
	if eventID == "" {
		return fmt.Errorf("event id is required")
	}
	if strings.TrimSpace(snapshot.Event.Name) == "" {
		return fmt.Errorf("event name is required")
	}
	createdAt, updatedAt := timestamps(snapshot)
	snapshot.CreatedAt = createdAt
	snapshot.UpdatedAt = updatedAt
	document, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", eventID, err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO events (
		   id,
		   name,
		   category,
		   gender,
		   current_stage,
		   locked,
		   version,
		   document,
		   created_at,
		   updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		eventID,
		snapshot.Event.Name,
		string(snapshot.Event.Category),
		string(snapshot.Event.Gender),
		string(snapshot.Event.StageFlags.CurrentKey()),
		boolToInt(snapshot.Event.Locked()),
		snapshot.Version,
		string(document),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		if isEventUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Load returns the stored snapshot for eventID.
func (s *Store) Load(ctx context.Context, eventID string) (meet.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return meet.Snapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return meet.Snapshot{}, fmt.Errorf("storage is not configured")
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return meet.Snapshot{}, fmt.Errorf("event id is required")
	}

	var document string
	var version int64
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT document, version FROM events WHERE id = ?`,
		eventID,
	).Scan(&document, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return meet.Snapshot{}, storage.ErrNotFound
		}
		return meet.Snapshot{}, fmt.Errorf("load event: %w", err)
	}

	var snapshot meet.Snapshot
	if err := json.Unmarshal([]byte(document), &snapshot); err != nil {
		return meet.Snapshot{}, fmt.Errorf("decode event %s: %w", eventID, err)
	}
	if snapshot.Event.StageFlags == nil {
		snapshot.Event.StageFlags = stage.Flags{}
	}
	snapshot.Version = version
	return snapshot, nil
}

// Save replaces the stored snapshot when its version is the next one.
func (s *Store) Save(ctx context.Context, eventID string, snapshot meet.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return fmt.Errorf("event id is required")
	}
	if snapshot.Event.ID != eventID {
		return fmt.Errorf("snapshot event id %q does not match %q", snapshot.Event.ID, eventID)
	}
	if snapshot.UpdatedAt.IsZero() {
		snapshot.UpdatedAt = time.Now().UTC()
	}
	document, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", eventID, err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save event: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var stored int64
	if err := tx.QueryRowContext(ctx, `SELECT version FROM events WHERE id = ?`, eventID).Scan(&stored); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("read event version: %w", err)
	}
	if snapshot.Version != stored+1 {
		return storage.ErrVersionConflict
	}

	result, err := tx.ExecContext(
		ctx,
		`UPDATE events
		    SET name = ?,
		        category = ?,
		        gender = ?,
		        current_stage = ?,
		        locked = ?,
		        version = ?,
		        document = ?,
		        updated_at = ?
		  WHERE id = ? AND version = ?`,
		snapshot.Event.Name,
		string(snapshot.Event.Category),
		string(snapshot.Event.Gender),
		string(snapshot.Event.StageFlags.CurrentKey()),
		boolToInt(snapshot.Event.Locked()),
		snapshot.Version,
		string(document),
		toMillis(snapshot.UpdatedAt),
		eventID,
		stored,
	)
	if err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	if affected != 1 {
		return storage.ErrVersionConflict
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save event: %w", err)
	}
	return nil
}

// List returns one page of event summaries ordered by ID.
func (s *Store) List(ctx context.Context, pageSize int, pageToken string) (storage.EventPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.EventPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.EventPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		return storage.EventPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	page := storage.EventPage{
		Events: make([]storage.EventSummary, 0, pageSize),
	}

	var (
		rows *sql.Rows
		err  error
	)
	if pageToken == "" {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT id, name, category, gender, current_stage, locked, version, updated_at
			   FROM events
			  ORDER BY id ASC
			  LIMIT ?`,
			pageSize+1,
		)
	} else {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT id, name, category, gender, current_stage, locked, version, updated_at
			   FROM events
			  WHERE id > ?
			  ORDER BY id ASC
			  LIMIT ?`,
			pageToken,
			pageSize+1,
		)
	}
	if err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var summary storage.EventSummary
		var category, gender, currentStage string
		var locked int
		var updatedAt int64
		if err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&category,
			&gender,
			&currentStage,
			&locked,
			&summary.Version,
			&updatedAt,
		); err != nil {
			return storage.EventPage{}, fmt.Errorf("list events: %w", err)
		}
		summary.Category = meet.Category(category)
		summary.Gender = meet.Gender(gender)
		summary.Stage = stage.Key(currentStage)
		summary.Locked = locked != 0
		summary.UpdatedAt = fromMillis(updatedAt)
		page.Events = append(page.Events, summary)
	}
	if err := rows.Err(); err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	if len(page.Events) > pageSize {
		page.NextPageToken = page.Events[pageSize-1].ID
		page.Events = page.Events[:pageSize]
	}

	return page, nil
}

func timestamps(snapshot meet.Snapshot) (time.Time, time.Time) {
	createdAt := snapshot.CreatedAt.UTC()
	updatedAt := snapshot.UpdatedAt.UTC()
	if createdAt.IsZero() && updatedAt.IsZero() {
		createdAt = time.Now().UTC()
		updatedAt = createdAt
	} else {
		if createdAt.IsZero() {
			createdAt = updatedAt
		}
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}
	}
	return createdAt, updatedAt
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func isEventUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "events.id")
}

var _ storage.EventStore = (*Store)(nil)
