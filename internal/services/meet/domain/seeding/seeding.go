// Package seeding splits a roster into balanced competition groups and
// assigns starting lanes.
package seeding

import (
	"fmt"

	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
)

// DefaultGroupSize is the number of lanes on a standard track.
const DefaultGroupSize = 8

// laneSequence fills central lanes first.
var laneSequence = [8]int{3, 4, 2, 5, 6, 1, 7, 8}

// AssignLane maps a zero-based position within a group to a lane.
func AssignLane(position int) int {
	index := position % len(laneSequence)
	if index < 0 {
		index += len(laneSequence)
	}
	return laneSequence[index]
}

// Partition splits the PRESENT competitors of roster into groups of at most
// groupSize. Group sizes differ by at most one, the larger groups come first,
// and membership follows roster order.
func Partition(roster []meet.Competitor, groupSize int) ([]meet.HeatGroup, error) {
	if groupSize <= 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidInput, fmt.Sprintf("group size %d must be positive", groupSize), map[string]string{
			"Reason": "group size must be positive",
		})
	}
	present := meet.PresentCompetitors(roster)
	count := len(present)
	if count == 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeEmptyRoster, "no present competitors to seed", map[string]string{
			"Stage": "trackSetsGenerated",
		})
	}

	numGroups := (count + groupSize - 1) / groupSize
	base := count / numGroups
	remainder := count % numGroups

	groups := make([]meet.HeatGroup, 0, numGroups)
	next := 0
	for g := 0; g < numGroups; g++ {
		size := base
		if g < remainder {
			size++
		}
		entries := meet.CloneCompetitors(present[next : next+size])
		for position := range entries {
			entries[position].Lane = AssignLane(position)
		}
		groups = append(groups, meet.HeatGroup{Number: g + 1, Entries: entries})
		next += size
	}
	return groups, nil
}
