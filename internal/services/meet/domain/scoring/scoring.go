// Package scoring awards championship medal points.
package scoring

import "github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"

// Points returns the medal points for a final rank: 5, 3 and 1 for the podium,
// nothing otherwise.
func Points(rank int) int {
	switch rank {
	case 1:
		return 5
	case 2:
		return 3
	case 3:
		return 1
	default:
		return 0
	}
}

// Apply returns copies of the final-ranked competitors with Points set.
func Apply(ranked []meet.Competitor) []meet.Competitor {
	out := meet.CloneCompetitors(ranked)
	for i := range out {
		out[i].Points = Points(out[i].Rank)
	}
	return out
}
