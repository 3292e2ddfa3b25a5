// Package meet holds the athletics event data model shared by the
// progression engine components.
//
// # Snapshot
//
// A Snapshot is the full state of one event: the Event record, its roster and
// every array derived by a stage. Stage handlers never mutate a snapshot they
// receive; they work on Clone and return the copy, so no slice is shared
// between stage views.
//
// # Competitors
//
// Identity fields (ID, Bib, Name, Affiliation) are fixed when the roster is
// created. Status, Performance, Rank, Points and Lane change as stages run.
// Name corrections land in DisplayName and never overwrite Name.
package meet
