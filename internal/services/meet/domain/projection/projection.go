// Package projection builds the read-only views of an event: the stage board,
// the printable sheets and the verification summary.
//
// Once an event is published only the verification view is served.
package projection

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
	"github.com/louisbranch/trackmeet/internal/platform/i18n/catalog"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/performance"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/stage"
	"golang.org/x/text/message"
)

// View names accepted by Build.
const (
	ViewBoard          = "board"
	ViewCallRoom       = "call-room"
	ViewTrackSets      = "track-sets"
	ViewFieldSheets    = "field-sheets"
	ViewRound1         = "round1"
	ViewHeats          = "heats"
	ViewHeatResults    = "heat-results"
	ViewFinalStartList = "final-start-list"
	ViewFinalResults   = "final-results"
	ViewAnnouncement   = "announcement"
	ViewVerification   = "verification"
)

// Names returns every view name in display order.
func Names() []string {
	return []string{
		ViewBoard,
		ViewCallRoom,
		ViewTrackSets,
		ViewFieldSheets,
		ViewRound1,
		ViewHeats,
		ViewHeatResults,
		ViewFinalStartList,
		ViewFinalResults,
		ViewAnnouncement,
		ViewVerification,
	}
}

// StageRow is one line of the stage board.
type StageRow struct {
	Key       stage.Key `json:"key"`
	Label     string    `json:"label"`
	Index     int       `json:"index"`
	Completed bool      `json:"completed"`
	Current   bool      `json:"current"`
	Runnable  bool      `json:"runnable"`
}

// StageBoard shows the progress of one event.
type StageBoard struct {
	EventID      string     `json:"event_id"`
	EventName    string     `json:"event_name"`
	Current      stage.Key  `json:"current"`
	CurrentLabel string     `json:"current_label"`
	Locked       bool       `json:"locked"`
	Stages       []StageRow `json:"stages"`
}

// Row is one competitor line on a sheet.
type Row struct {
	Rank        int    `json:"rank,omitempty"`
	Lane        int    `json:"lane,omitempty"`
	Bib         string `json:"bib"`
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
	Status      string `json:"status,omitempty"`
	Performance string `json:"performance,omitempty"`
	Points      int    `json:"points,omitempty"`
}

// Sheet is one printable list of competitors.
type Sheet struct {
	Title    string `json:"title"`
	Group    int    `json:"group,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
	Rows     []Row  `json:"rows"`
}

// VerificationView summarizes final results for sign-off.
type VerificationView struct {
	EventID    string     `json:"event_id"`
	EventName  string     `json:"event_name"`
	Category   string     `json:"category"`
	Gender     string     `json:"gender,omitempty"`
	VerifiedBy string     `json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	LockedAt   *time.Time `json:"locked_at,omitempty"`
	Results    Sheet      `json:"results"`
	Medalists  Sheet      `json:"medalists"`
}

// View is the payload of one named view.
type View struct {
	Name         string            `json:"name"`
	Board        *StageBoard       `json:"board,omitempty"`
	Sheets       []Sheet           `json:"sheets,omitempty"`
	Verification *VerificationView `json:"verification,omitempty"`
}

// Build renders the named view of s in locale.
func Build(s meet.Snapshot, name string, locale string) (View, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	printer := catalog.Default().Printer(locale)
	if s.Event.Locked() && name != ViewVerification {
		return View{}, apperrors.WithMetadata(apperrors.CodeEventLocked, fmt.Sprintf("view %s is closed once results are published", name), map[string]string{
			"View": name,
		})
	}

	view := View{Name: name}
	switch name {
	case ViewBoard:
		board := Board(s, printer)
		view.Board = &board
	case ViewCallRoom:
		view.Sheets = []Sheet{listSheet(printer.Sprintf("view.call-room"), s.CallRoom, s.Event.Category)}
	case ViewTrackSets:
		view.Sheets = groupSheets(printer, "view.track-set", s.TrackSets, s.Event.Category)
	case ViewFieldSheets:
		view.Sheets = FieldSheets(s, printer)
	case ViewRound1:
		view.Sheets = []Sheet{listSheet(printer.Sprintf("view.round1"), s.Round1Results, s.Event.Category)}
	case ViewHeats:
		view.Sheets = groupSheets(printer, "view.heat", s.Heats, s.Event.Category)
	case ViewHeatResults:
		view.Sheets = []Sheet{listSheet(printer.Sprintf("view.heat-results"), s.HeatResults, s.Event.Category)}
	case ViewFinalStartList:
		view.Sheets = []Sheet{listSheet(printer.Sprintf("view.final-start-list"), s.FinalStartList, s.Event.Category)}
	case ViewFinalResults:
		view.Sheets = []Sheet{listSheet(printer.Sprintf("view.final-results"), s.FinalResults, s.Event.Category)}
	case ViewAnnouncement:
		var medalists []meet.Competitor
		if s.Announcement != nil {
			medalists = s.Announcement.Medalists
		}
		view.Sheets = []Sheet{listSheet(printer.Sprintf("view.announcement"), medalists, s.Event.Category)}
	case ViewVerification:
		verification := Verification(s, printer)
		view.Verification = &verification
	default:
		return View{}, apperrors.WithMetadata(apperrors.CodeInvalidInput, fmt.Sprintf("unknown view %q", name), map[string]string{
			"Reason": fmt.Sprintf("unknown view %q", name),
		})
	}
	return view, nil
}

// Board builds the stage board with labels from printer.
func Board(s meet.Snapshot, printer *message.Printer) StageBoard {
	flags := s.Event.StageFlags
	current := flags.Current()
	locked := flags.Locked()
	board := StageBoard{
		EventID:      s.Event.ID,
		EventName:    s.Event.Name,
		Current:      flags.CurrentKey(),
		CurrentLabel: stageLabel(printer, flags.CurrentKey()),
		Locked:       locked,
		Stages:       make([]StageRow, 0, stage.Count),
	}
	for _, key := range stage.Keys() {
		index := key.Index()
		board.Stages = append(board.Stages, StageRow{
			Key:       key,
			Label:     stageLabel(printer, key),
			Index:     index,
			Completed: flags.Completed(key),
			Current:   index == current,
			Runnable:  !locked && index <= current+1,
		})
	}
	return board
}

// FieldSheets builds one attempt sheet per field group.
func FieldSheets(s meet.Snapshot, printer *message.Printer) []Sheet {
	sheets := make([]Sheet, 0, len(s.FieldSheets))
	for _, fieldSheet := range s.FieldSheets {
		sheet := listSheet(printer.Sprintf("view.field-sheet", fieldSheet.Group), fieldSheet.Entries, s.Event.Category)
		sheet.Group = fieldSheet.Group
		sheet.Attempts = fieldSheet.Attempts
		sheets = append(sheets, sheet)
	}
	return sheets
}

// Verification builds the sign-off summary. It is the only view of a locked
// event.
func Verification(s meet.Snapshot, printer *message.Printer) VerificationView {
	var medalists []meet.Competitor
	if s.Announcement != nil {
		medalists = s.Announcement.Medalists
	}
	return VerificationView{
		EventID:    s.Event.ID,
		EventName:  s.Event.Name,
		Category:   string(s.Event.Category),
		Gender:     string(s.Event.Gender),
		VerifiedBy: s.Event.VerifiedBy,
		VerifiedAt: s.Event.VerifiedAt,
		LockedAt:   s.Event.LockedAt,
		Results:    listSheet(printer.Sprintf("view.final-results"), s.FinalResults, s.Event.Category),
		Medalists:  listSheet(printer.Sprintf("view.announcement"), medalists, s.Event.Category),
	}
}

func stageLabel(printer *message.Printer, key stage.Key) string {
	return printer.Sprintf("stage." + string(key))
}

func groupSheets(printer *message.Printer, titleKey string, groups []meet.HeatGroup, category meet.Category) []Sheet {
	sheets := make([]Sheet, 0, len(groups))
	for _, group := range groups {
		sheet := listSheet(printer.Sprintf(titleKey, group.Number), group.Entries, category)
		sheet.Group = group.Number
		sheets = append(sheets, sheet)
	}
	return sheets
}

func listSheet(title string, competitors []meet.Competitor, category meet.Category) Sheet {
	rows := make([]Row, 0, len(competitors))
	for _, competitor := range competitors {
		rows = append(rows, Row{
			Rank:        competitor.Rank,
			Lane:        competitor.Lane,
			Bib:         competitor.Bib,
			Name:        competitor.Label(),
			Affiliation: competitor.Affiliation,
			Status:      string(competitor.Status),
			Performance: formatPerformance(competitor.Performance, category),
			Points:      competitor.Points,
		})
	}
	return Sheet{Title: title, Rows: rows}
}

// formatPerformance normalizes recorded text; unreadable text is shown as
// entered.
func formatPerformance(text string, category meet.Category) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	parsed, err := performance.Parse(text, category)
	if err != nil {
		return text
	}
	return performance.Format(parsed)
}
