// Package stage defines the fixed lifecycle an athletics event moves through.
//
// An event starts on the dashboard (stage 0, no flags) and completes the 14
// stages below strictly in order. Completing published locks the event: from
// then on only the read-only verification view is reachable.
package stage

import (
	"strings"

	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
)

// Key identifies one stage of the event lifecycle.
type Key string

const (
	Dashboard                  Key = "dashboard"
	Created                    Key = "created"
	CallRoomGenerated          Key = "callRoomGenerated"
	CallRoomCompleted          Key = "callRoomCompleted"
	TrackSetsGenerated         Key = "trackSetsGenerated"
	FieldJumpSheetsGenerated   Key = "fieldJumpSheetsGenerated"
	Round1Scored               Key = "round1Scored"
	HeatsGenerated             Key = "heatsGenerated"
	HeatsScored                Key = "heatsScored"
	PreFinalGenerated          Key = "preFinalGenerated"
	FinalScored                Key = "finalScored"
	FinalAnnouncementGenerated Key = "finalAnnouncementGenerated"
	NameCorrected              Key = "nameCorrected"
	Verified                   Key = "verified"
	Published                  Key = "published"
)

var order = []Key{
	Created,
	CallRoomGenerated,
	CallRoomCompleted,
	TrackSetsGenerated,
	FieldJumpSheetsGenerated,
	Round1Scored,
	HeatsGenerated,
	HeatsScored,
	PreFinalGenerated,
	FinalScored,
	FinalAnnouncementGenerated,
	NameCorrected,
	Verified,
	Published,
}

// Count is the number of lifecycle stages after the dashboard.
const Count = 14

// Keys returns the lifecycle stages in order.
func Keys() []Key {
	out := make([]Key, len(order))
	copy(out, order)
	return out
}

// Index returns the 1-based position of k, 0 for the dashboard and -1 for
// unknown keys.
func (k Key) Index() int {
	if k == Dashboard {
		return 0
	}
	for i, candidate := range order {
		if candidate == k {
			return i + 1
		}
	}
	return -1
}

// At returns the stage at a 1-based index, or Dashboard for 0.
func At(index int) (Key, bool) {
	if index == 0 {
		return Dashboard, true
	}
	if index < 1 || index > len(order) {
		return "", false
	}
	return order[index-1], true
}

// Parse resolves a stage key, accepting any letter case.
func Parse(value string) (Key, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range order {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", apperrors.WithMetadata(apperrors.CodeStageUnknown, "unknown stage "+trimmed, map[string]string{
		"Stage": trimmed,
	})
}
