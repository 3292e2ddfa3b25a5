// Package heat builds the two second-round heats from a ranked cut.
package heat

import (
	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/seeding"
)

// TopK is the number of ranked competitors that advance to the heats.
const TopK = 16

// Build splits the first TopK entries of a rank-ordered list by rank parity:
// 1st, 3rd, 5th... to heat 1 and 2nd, 4th, 6th... to heat 2. Relative order is
// kept and lanes are assigned within each heat.
func Build(ranked []meet.Competitor) ([]meet.HeatGroup, error) {
	if len(ranked) == 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeEmptyRoster, "no ranked competitors to build heats", map[string]string{
			"Stage": "heatsGenerated",
		})
	}
	cut := ranked
	if len(cut) > TopK {
		cut = cut[:TopK]
	}

	heats := []meet.HeatGroup{
		{Number: 1, Entries: make([]meet.Competitor, 0, (len(cut)+1)/2)},
		{Number: 2, Entries: make([]meet.Competitor, 0, len(cut)/2)},
	}
	for i, competitor := range cut {
		target := &heats[i%2]
		competitor.Lane = seeding.AssignLane(len(target.Entries))
		target.Entries = append(target.Entries, competitor)
	}
	return heats, nil
}
