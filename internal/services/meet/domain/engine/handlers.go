package engine

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/louisbranch/trackmeet/internal/services/meet/domain/heat"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/ranking"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/scoring"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/seeding"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/stage"
)

const (
	// DefaultAttempts is the attempt count printed on field sheets.
	DefaultAttempts = 3
	// FinalSize is the number of heat finishers that reach the final.
	FinalSize = 8
	// MedalPositions is the number of ranks announced after the final.
	MedalPositions = 3
)

func runCreated(next *meet.Snapshot, in Input, env Env) ([]string, error) {
	if len(in.Roster) == 0 {
		return nil, emptyRoster(stage.Created, "roster has no competitors")
	}
	ids := make(map[string]bool, len(in.Roster))
	bibs := make(map[string]bool, len(in.Roster))
	roster := make([]meet.Competitor, 0, len(in.Roster))
	for i, entry := range in.Roster {
		competitor := meet.Competitor{
			ID:          strings.TrimSpace(entry.ID),
			Bib:         strings.TrimSpace(entry.Bib),
			Name:        strings.TrimSpace(entry.Name),
			Affiliation: strings.TrimSpace(entry.Affiliation),
		}
		if competitor.Name == "" {
			return nil, invalidInput(fmt.Sprintf("roster entry %d has no name", i+1))
		}
		if competitor.ID == "" {
			minted, err := env.newID()
			if err != nil {
				return nil, fmt.Errorf("mint competitor id: %w", err)
			}
			competitor.ID = minted
		}
		if ids[competitor.ID] {
			return nil, invalidInput(fmt.Sprintf("duplicate competitor id %s", competitor.ID))
		}
		ids[competitor.ID] = true
		if competitor.Bib != "" {
			if bibs[competitor.Bib] {
				return nil, invalidInput(fmt.Sprintf("duplicate bib %s", competitor.Bib))
			}
			bibs[competitor.Bib] = true
		}
		roster = append(roster, competitor)
	}
	// Stage inputs key competitors by id or bib, so no id may name another
	// competitor's bib.
	bibOwner := make(map[string]int, len(roster))
	for i, competitor := range roster {
		if competitor.Bib != "" {
			bibOwner[competitor.Bib] = i
		}
	}
	for i, competitor := range roster {
		if owner, ok := bibOwner[competitor.ID]; ok && owner != i {
			return nil, invalidInput(fmt.Sprintf("competitor id %s is also the bib of another competitor", competitor.ID))
		}
	}
	next.Roster = roster
	return nil, nil
}

func runCallRoomGenerated(next *meet.Snapshot, _ Input, _ Env) ([]string, error) {
	if len(next.Roster) == 0 {
		return nil, emptyRoster(stage.CallRoomGenerated, "roster has no competitors")
	}
	sheet := meet.CloneCompetitors(next.Roster)
	slices.SortStableFunc(sheet, func(a, b meet.Competitor) int {
		return compareBibs(a.Bib, b.Bib)
	})
	next.CallRoom = sheet
	return nil, nil
}

func clearCallRoom(next *meet.Snapshot) {
	next.CallRoom = nil
}

func runCallRoomCompleted(next *meet.Snapshot, in Input, _ Env) ([]string, error) {
	if err := checkKeys(in.Attendance, next.Roster); err != nil {
		return nil, err
	}
	statuses := make(map[string]meet.Status, len(next.Roster))
	present := 0
	for i := range next.Roster {
		competitor := &next.Roster[i]
		status := meet.StatusAbsent
		if value, ok := lookup(in.Attendance, *competitor); ok {
			parsed, ok := meet.ParseStatus(value)
			if !ok {
				return nil, invalidInput(fmt.Sprintf("unknown attendance %q for competitor %s", value, competitor.ID))
			}
			status = parsed
		}
		competitor.Status = status
		statuses[competitor.ID] = status
		if status == meet.StatusPresent {
			present++
		}
	}
	if present == 0 {
		return nil, emptyRoster(stage.CallRoomCompleted, "no competitor answered the call room")
	}
	for i := range next.CallRoom {
		next.CallRoom[i].Status = statuses[next.CallRoom[i].ID]
	}
	return nil, nil
}

func clearAttendance(next *meet.Snapshot) {
	for i := range next.Roster {
		next.Roster[i].Status = meet.StatusUnset
	}
	for i := range next.CallRoom {
		next.CallRoom[i].Status = meet.StatusUnset
	}
}

func runTrackSetsGenerated(next *meet.Snapshot, in Input, env Env) ([]string, error) {
	size := in.GroupSize
	if size == 0 {
		size = env.groupSize()
	}
	groups, err := seeding.Partition(next.Roster, size)
	if err != nil {
		return nil, err
	}
	next.TrackSets = groups
	return nil, nil
}

func clearTrackSets(next *meet.Snapshot) {
	next.TrackSets = nil
}

func runFieldSheetsGenerated(next *meet.Snapshot, in Input, _ Env) ([]string, error) {
	if !next.Event.Category.FieldEvent() {
		next.FieldSheets = nil
		return nil, nil
	}
	attempts := in.Attempts
	if attempts == 0 {
		attempts = DefaultAttempts
	}
	if attempts < 0 {
		return nil, invalidInput(fmt.Sprintf("attempt count %d must be positive", attempts))
	}
	sheets := make([]meet.FieldSheet, 0, len(next.TrackSets))
	for _, group := range next.TrackSets {
		sheets = append(sheets, meet.FieldSheet{
			Group:    group.Number,
			Attempts: attempts,
			Entries:  meet.CloneCompetitors(group.Entries),
		})
	}
	next.FieldSheets = sheets
	return nil, nil
}

func clearFieldSheets(next *meet.Snapshot) {
	next.FieldSheets = nil
}

func runRound1Scored(next *meet.Snapshot, in Input, _ Env) ([]string, error) {
	entrants := make([]meet.Competitor, 0, len(next.Roster))
	for _, competitor := range next.Roster {
		if competitor.Status == meet.StatusPresent || competitor.Status == meet.StatusDisqualified {
			entrants = append(entrants, competitor)
		}
	}
	if len(entrants) == 0 {
		return nil, emptyRoster(stage.Round1Scored, "no competitors to score")
	}
	result, warnings, err := score(entrants, in.Performances, next.Event.Category)
	if err != nil {
		return nil, err
	}
	next.Round1Results = result
	return warnings, nil
}

func clearRound1(next *meet.Snapshot) {
	next.Round1Results = nil
}

func runHeatsGenerated(next *meet.Snapshot, _ Input, _ Env) ([]string, error) {
	finishers := ranking.Finishers(next.Round1Results, next.Event.Category)
	for i := range finishers {
		finishers[i].Performance = ""
	}
	heats, err := heat.Build(finishers)
	if err != nil {
		return nil, err
	}
	next.Heats = heats
	return nil, nil
}

func clearHeats(next *meet.Snapshot) {
	next.Heats = nil
}

func runHeatsScored(next *meet.Snapshot, in Input, _ Env) ([]string, error) {
	var entrants []meet.Competitor
	for _, group := range next.Heats {
		entrants = append(entrants, group.Entries...)
	}
	if len(entrants) == 0 {
		return nil, emptyRoster(stage.HeatsScored, "no heat entrants to score")
	}
	result, warnings, err := score(entrants, in.Performances, next.Event.Category)
	if err != nil {
		return nil, err
	}
	next.HeatResults = result
	return warnings, nil
}

func clearHeatResults(next *meet.Snapshot) {
	next.HeatResults = nil
}

func runPreFinalGenerated(next *meet.Snapshot, _ Input, _ Env) ([]string, error) {
	finishers := ranking.Finishers(next.HeatResults, next.Event.Category)
	if len(finishers) == 0 {
		return nil, emptyRoster(stage.PreFinalGenerated, "no heat finishers for the final")
	}
	if len(finishers) > FinalSize {
		finishers = finishers[:FinalSize]
	}
	for i := range finishers {
		finishers[i].Performance = ""
		finishers[i].Rank = 0
		finishers[i].Lane = seeding.AssignLane(i)
	}
	next.FinalStartList = finishers
	return nil, nil
}

func clearFinalStartList(next *meet.Snapshot) {
	next.FinalStartList = nil
}

func runFinalScored(next *meet.Snapshot, in Input, _ Env) ([]string, error) {
	if len(next.FinalStartList) == 0 {
		return nil, emptyRoster(stage.FinalScored, "final start list is empty")
	}
	result, warnings, err := score(next.FinalStartList, in.Performances, next.Event.Category)
	if err != nil {
		return nil, err
	}
	next.FinalResults = scoring.Apply(result)

	index := next.RosterIndex()
	for _, finalist := range next.FinalResults {
		position, ok := index[finalist.ID]
		if !ok {
			continue
		}
		next.Roster[position].Performance = finalist.Performance
		next.Roster[position].Rank = finalist.Rank
		next.Roster[position].Points = finalist.Points
	}
	return warnings, nil
}

func clearFinalResults(next *meet.Snapshot) {
	next.FinalResults = nil
	for i := range next.Roster {
		next.Roster[i].Performance = ""
		next.Roster[i].Rank = 0
		next.Roster[i].Points = 0
	}
}

func runAnnouncementGenerated(next *meet.Snapshot, _ Input, env Env) ([]string, error) {
	if len(next.FinalResults) == 0 {
		return nil, emptyRoster(stage.FinalAnnouncementGenerated, "no final results to announce")
	}
	medalists := make([]meet.Competitor, 0, MedalPositions)
	for _, finalist := range next.FinalResults {
		if finalist.Rank >= 1 && finalist.Rank <= MedalPositions {
			medalists = append(medalists, finalist)
		}
	}
	next.Announcement = &meet.Announcement{
		Medalists:   medalists,
		GeneratedAt: env.now(),
	}
	return nil, nil
}

func clearAnnouncement(next *meet.Snapshot) {
	next.Announcement = nil
}

func runNameCorrected(next *meet.Snapshot, in Input, _ Env) ([]string, error) {
	if err := checkKeys(in.NameCorrections, next.Roster); err != nil {
		return nil, err
	}
	corrections := make(map[string]string, len(in.NameCorrections))
	for _, competitor := range next.Roster {
		if name, ok := lookup(in.NameCorrections, competitor); ok {
			corrections[competitor.ID] = strings.TrimSpace(name)
		}
	}
	next.EachCompetitor(func(c *meet.Competitor) {
		if name, ok := corrections[c.ID]; ok {
			c.DisplayName = name
		}
	})
	return nil, nil
}

func clearNameCorrections(next *meet.Snapshot) {
	next.EachCompetitor(func(c *meet.Competitor) {
		c.DisplayName = ""
	})
}

func runVerified(next *meet.Snapshot, in Input, env Env) ([]string, error) {
	if len(next.FinalResults) == 0 {
		return nil, emptyRoster(stage.Verified, "no final results to verify")
	}
	verifier := strings.TrimSpace(in.VerifiedBy)
	if verifier == "" {
		return nil, invalidInput("verifier name is required")
	}
	verifiedAt := env.now()
	next.Event.VerifiedBy = verifier
	next.Event.VerifiedAt = &verifiedAt
	return nil, nil
}

func clearVerification(next *meet.Snapshot) {
	next.Event.VerifiedBy = ""
	next.Event.VerifiedAt = nil
}

func runPublished(next *meet.Snapshot, _ Input, env Env) ([]string, error) {
	lockedAt := env.now()
	next.Event.LockedAt = &lockedAt
	return nil, nil
}

func clearPublication(next *meet.Snapshot) {
	next.Event.LockedAt = nil
}

// score records performances for entrants and ranks them. Entrants without a
// performance are ranked as malformed; disqualified competitors are forced to
// DIS.
func score(entrants []meet.Competitor, performances map[string]string, category meet.Category) ([]meet.Competitor, []string, error) {
	if err := checkKeys(performances, entrants); err != nil {
		return nil, nil, err
	}
	scored := meet.CloneCompetitors(entrants)
	for i := range scored {
		competitor := &scored[i]
		text, _ := lookup(performances, *competitor)
		competitor.Performance = strings.TrimSpace(text)
		competitor.Rank = 0
		competitor.Points = 0
		competitor.Lane = 0
		if competitor.Status == meet.StatusDisqualified {
			competitor.Performance = "DIS"
		}
	}
	result := ranking.Rank(scored, category)
	var warnings []string
	for _, competitorID := range result.Malformed {
		warnings = append(warnings, fmt.Sprintf("competitor %s: performance could not be read and was ranked last", competitorID))
	}
	return result.Entries, warnings, nil
}

// lookup finds the value recorded for c by ID, falling back to its bib.
func lookup(values map[string]string, c meet.Competitor) (string, bool) {
	if value, ok := values[c.ID]; ok {
		return value, true
	}
	if c.Bib != "" {
		if value, ok := values[c.Bib]; ok {
			return value, true
		}
	}
	return "", false
}

// checkKeys rejects map keys that name no competitor in scope.
func checkKeys(values map[string]string, scope []meet.Competitor) error {
	if len(values) == 0 {
		return nil
	}
	known := make(map[string]bool, 2*len(scope))
	for _, competitor := range scope {
		known[competitor.ID] = true
		if competitor.Bib != "" {
			known[competitor.Bib] = true
		}
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if !known[key] {
			return invalidInput(fmt.Sprintf("competitor %s is not part of this stage", key))
		}
	}
	return nil
}

// compareBibs orders numeric bibs numerically, ahead of any other bib text.
func compareBibs(a, b string) int {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return cmp.Compare(an, bn)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
