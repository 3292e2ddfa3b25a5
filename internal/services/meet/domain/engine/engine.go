// Package engine advances events through their stage lifecycle.
//
// RunStage is pure: it validates the transition, runs the stage handler on a
// deep copy of the snapshot, and returns the new snapshot. Service wraps it
// with storage.
package engine

import (
	"fmt"
	"time"

	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
	"github.com/louisbranch/trackmeet/internal/platform/id"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/seeding"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/stage"
)

// Input carries the operator-supplied data a stage consumes. Maps keyed by
// competitor accept either the competitor ID or the bib.
type Input struct {
	// Roster is the competitor list for the created stage.
	Roster []meet.Competitor `json:"roster,omitempty" yaml:"roster,omitempty"`
	// Attendance maps competitors to PRESENT, ABSENT or DISQUALIFIED.
	Attendance map[string]string `json:"attendance,omitempty" yaml:"attendance,omitempty"`
	// GroupSize overrides the track set size.
	GroupSize int `json:"group_size,omitempty" yaml:"group_size,omitempty"`
	// Attempts overrides the number of attempts on field sheets.
	Attempts int `json:"attempts,omitempty" yaml:"attempts,omitempty"`
	// Performances holds raw result text for the scoring stages.
	Performances map[string]string `json:"performances,omitempty" yaml:"performances,omitempty"`
	// NameCorrections maps competitors to their corrected display name.
	NameCorrections map[string]string `json:"name_corrections,omitempty" yaml:"name_corrections,omitempty"`
	// VerifiedBy names the official signing off the results.
	VerifiedBy string `json:"verified_by,omitempty" yaml:"verified_by,omitempty"`
}

// Env holds the side inputs of a stage run.
type Env struct {
	Now       func() time.Time
	NewID     func() (string, error)
	GroupSize int
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}

func (e Env) newID() (string, error) {
	if e.NewID == nil {
		return id.NewID()
	}
	return e.NewID()
}

func (e Env) groupSize() int {
	if e.GroupSize > 0 {
		return e.GroupSize
	}
	return seeding.DefaultGroupSize
}

// Outcome is the result of a successful stage run.
type Outcome struct {
	Snapshot meet.Snapshot
	// Warnings describe recoverable data problems, such as performance text
	// that could not be read and was ranked last.
	Warnings []string
}

type handler struct {
	run   func(next *meet.Snapshot, in Input, env Env) ([]string, error)
	clear func(next *meet.Snapshot)
}

var handlers = map[stage.Key]handler{
	stage.Created:                    {run: runCreated},
	stage.CallRoomGenerated:          {run: runCallRoomGenerated, clear: clearCallRoom},
	stage.CallRoomCompleted:          {run: runCallRoomCompleted, clear: clearAttendance},
	stage.TrackSetsGenerated:         {run: runTrackSetsGenerated, clear: clearTrackSets},
	stage.FieldJumpSheetsGenerated:   {run: runFieldSheetsGenerated, clear: clearFieldSheets},
	stage.Round1Scored:               {run: runRound1Scored, clear: clearRound1},
	stage.HeatsGenerated:             {run: runHeatsGenerated, clear: clearHeats},
	stage.HeatsScored:                {run: runHeatsScored, clear: clearHeatResults},
	stage.PreFinalGenerated:          {run: runPreFinalGenerated, clear: clearFinalStartList},
	stage.FinalScored:                {run: runFinalScored, clear: clearFinalResults},
	stage.FinalAnnouncementGenerated: {run: runAnnouncementGenerated, clear: clearAnnouncement},
	stage.NameCorrected:              {run: runNameCorrected, clear: clearNameCorrections},
	stage.Verified:                   {run: runVerified, clear: clearVerification},
	stage.Published:                  {run: runPublished, clear: clearPublication},
}

// RunStage runs key against current and returns the resulting snapshot.
//
// Running a completed stage again replaces its data and discards every later
// stage. On error the returned Outcome is empty and current is untouched.
func RunStage(current meet.Snapshot, key stage.Key, in Input, env Env) (Outcome, error) {
	flags, err := stage.Advance(current.Event.StageFlags, key)
	if err != nil {
		return Outcome{}, err
	}
	h, ok := handlers[key]
	if !ok {
		return Outcome{}, apperrors.WithMetadata(apperrors.CodeStageUnknown, fmt.Sprintf("no handler for stage %s", key), map[string]string{
			"Stage": string(key),
		})
	}

	next := current.Clone()
	for _, stale := range append([]stage.Key{key}, stage.Later(key)...) {
		if clear := handlers[stale].clear; clear != nil {
			clear(&next)
		}
	}
	warnings, err := h.run(&next, in, env)
	if err != nil {
		return Outcome{}, err
	}
	next.Event.StageFlags = flags
	next.UpdatedAt = env.now()
	return Outcome{Snapshot: next, Warnings: warnings}, nil
}

func invalidInput(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidInput, reason, map[string]string{
		"Reason": reason,
	})
}

func emptyRoster(key stage.Key, message string) error {
	return apperrors.WithMetadata(apperrors.CodeEmptyRoster, message, map[string]string{
		"Stage": string(key),
	})
}
