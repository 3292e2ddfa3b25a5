package meet

// CloneCompetitors copies a competitor list. Nil stays nil.
func CloneCompetitors(in []Competitor) []Competitor {
	if in == nil {
		return nil
	}
	out := make([]Competitor, len(in))
	copy(out, in)
	return out
}

// CloneGroups deep-copies heat groups.
func CloneGroups(in []HeatGroup) []HeatGroup {
	if in == nil {
		return nil
	}
	out := make([]HeatGroup, len(in))
	for i, group := range in {
		out[i] = HeatGroup{Number: group.Number, Entries: CloneCompetitors(group.Entries)}
	}
	return out
}

func cloneSheets(in []FieldSheet) []FieldSheet {
	if in == nil {
		return nil
	}
	out := make([]FieldSheet, len(in))
	for i, sheet := range in {
		out[i] = FieldSheet{Group: sheet.Group, Attempts: sheet.Attempts, Entries: CloneCompetitors(sheet.Entries)}
	}
	return out
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Event.StageFlags = s.Event.StageFlags.Clone()
	if s.Event.LockedAt != nil {
		lockedAt := *s.Event.LockedAt
		out.Event.LockedAt = &lockedAt
	}
	if s.Event.VerifiedAt != nil {
		verifiedAt := *s.Event.VerifiedAt
		out.Event.VerifiedAt = &verifiedAt
	}
	out.Roster = CloneCompetitors(s.Roster)
	out.CallRoom = CloneCompetitors(s.CallRoom)
	out.TrackSets = CloneGroups(s.TrackSets)
	out.FieldSheets = cloneSheets(s.FieldSheets)
	out.Round1Results = CloneCompetitors(s.Round1Results)
	out.Heats = CloneGroups(s.Heats)
	out.HeatResults = CloneCompetitors(s.HeatResults)
	out.FinalStartList = CloneCompetitors(s.FinalStartList)
	out.FinalResults = CloneCompetitors(s.FinalResults)
	if s.Announcement != nil {
		announcement := Announcement{
			Medalists:   CloneCompetitors(s.Announcement.Medalists),
			GeneratedAt: s.Announcement.GeneratedAt,
		}
		out.Announcement = &announcement
	}
	return out
}

// RosterIndex maps competitor IDs to their roster position.
func (s Snapshot) RosterIndex() map[string]int {
	index := make(map[string]int, len(s.Roster))
	for i, competitor := range s.Roster {
		index[competitor.ID] = i
	}
	return index
}

// PresentCompetitors returns PRESENT roster entries in roster order.
func PresentCompetitors(roster []Competitor) []Competitor {
	out := make([]Competitor, 0, len(roster))
	for _, competitor := range roster {
		if competitor.Present() {
			out = append(out, competitor)
		}
	}
	return out
}

// EachCompetitor calls fn with a pointer to every competitor copy held by s:
// the roster and every derived list. fn may modify the entry in place.
func (s *Snapshot) EachCompetitor(fn func(*Competitor)) {
	lists := [][]Competitor{s.Roster, s.CallRoom, s.Round1Results, s.HeatResults, s.FinalStartList, s.FinalResults}
	for _, group := range s.TrackSets {
		lists = append(lists, group.Entries)
	}
	for _, sheet := range s.FieldSheets {
		lists = append(lists, sheet.Entries)
	}
	for _, group := range s.Heats {
		lists = append(lists, group.Entries)
	}
	if s.Announcement != nil {
		lists = append(lists, s.Announcement.Medalists)
	}
	for _, list := range lists {
		for i := range list {
			fn(&list[i])
		}
	}
}
