// Package ranking orders competitors by performance.
package ranking

import (
	"cmp"
	"slices"

	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/performance"
)

// Result is a ranked competitor list.
type Result struct {
	// Entries holds copies of the input competitors in rank order with Rank
	// set to 1..N.
	Entries []meet.Competitor
	// Malformed lists IDs of competitors whose performance text could not be
	// read; they were ranked after every measured result.
	Malformed []string
}

type entry struct {
	competitor meet.Competitor
	perf       performance.Performance
}

// Rank orders competitors for the given category.
//
// Time-based categories rank ascending, all others descending. Malformed
// performances follow every measured one, then DNF entries, then DIS entries.
// Ties keep input order and still receive distinct ranks.
func Rank(competitors []meet.Competitor, category meet.Category) Result {
	var numeric, malformed, dnf, dis []entry
	var malformedIDs []string
	for _, competitor := range competitors {
		perf, _ := performance.Parse(competitor.Performance, category)
		e := entry{competitor: competitor, perf: perf}
		switch perf.Kind {
		case performance.KindTime, performance.KindDistance:
			numeric = append(numeric, e)
		case performance.KindNonFinish:
			if perf.Status == performance.DNF {
				dnf = append(dnf, e)
			} else {
				dis = append(dis, e)
			}
		default:
			malformed = append(malformed, e)
			malformedIDs = append(malformedIDs, competitor.ID)
		}
	}

	timeBased := category.TimeBased()
	slices.SortStableFunc(numeric, func(a, b entry) int {
		if timeBased {
			return cmp.Compare(a.perf.Millis, b.perf.Millis)
		}
		return cmp.Compare(b.perf.Distance, a.perf.Distance)
	})

	ordered := make([]meet.Competitor, 0, len(competitors))
	for _, group := range [][]entry{numeric, malformed, dnf, dis} {
		for _, e := range group {
			c := e.competitor
			if e.perf.Kind == performance.KindNonFinish {
				c.Performance = string(e.perf.Status)
			}
			c.Rank = len(ordered) + 1
			ordered = append(ordered, c)
		}
	}
	return Result{Entries: ordered, Malformed: malformedIDs}
}

// Finishers returns the ranked entries that are not DNF or DIS, in order.
// Malformed performances stay in the cut at their worst-numeric rank.
func Finishers(ranked []meet.Competitor, category meet.Category) []meet.Competitor {
	out := make([]meet.Competitor, 0, len(ranked))
	for _, competitor := range ranked {
		perf, _ := performance.Parse(competitor.Performance, category)
		if !perf.Finished() {
			continue
		}
		out = append(out, competitor)
	}
	return out
}
