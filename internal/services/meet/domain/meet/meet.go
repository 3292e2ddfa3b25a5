package meet

import (
	"strings"
	"time"

	"github.com/louisbranch/trackmeet/internal/services/meet/domain/stage"
)

// Category classifies how an event is contested and measured.
type Category string

const (
	CategoryTrack    Category = "track"
	CategoryJump     Category = "jump"
	CategoryThrow    Category = "throw"
	CategoryRelay    Category = "relay"
	CategoryCombined Category = "combined"
)

// ParseCategory resolves a category label.
func ParseCategory(value string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(value))) {
	case CategoryTrack:
		return CategoryTrack, true
	case CategoryJump:
		return CategoryJump, true
	case CategoryThrow:
		return CategoryThrow, true
	case CategoryRelay:
		return CategoryRelay, true
	case CategoryCombined:
		return CategoryCombined, true
	default:
		return "", false
	}
}

// TimeBased reports whether lower measured values rank better.
func (c Category) TimeBased() bool {
	return c == CategoryTrack || c == CategoryRelay
}

// FieldEvent reports whether competitors take measured attempts on a sheet.
func (c Category) FieldEvent() bool {
	return c == CategoryJump || c == CategoryThrow || c == CategoryCombined
}

// Gender is the event's gender classification.
type Gender string

const (
	GenderMen   Gender = "men"
	GenderWomen Gender = "women"
	GenderMixed Gender = "mixed"
)

// ParseGender resolves a gender classification label.
func ParseGender(value string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "men", "male", "m", "boys":
		return GenderMen, true
	case "women", "female", "w", "f", "girls":
		return GenderWomen, true
	case "mixed", "x":
		return GenderMixed, true
	default:
		return "", false
	}
}

// Status is a competitor's call-room attendance.
type Status string

const (
	StatusUnset        Status = ""
	StatusPresent      Status = "PRESENT"
	StatusAbsent       Status = "ABSENT"
	StatusDisqualified Status = "DISQUALIFIED"
)

// ParseStatus resolves an attendance label.
func ParseStatus(value string) (Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "PRESENT", "P":
		return StatusPresent, true
	case "ABSENT", "A", "DNS":
		return StatusAbsent, true
	case "DISQUALIFIED", "DQ":
		return StatusDisqualified, true
	default:
		return StatusUnset, false
	}
}

// Competitor is one roster entry of an event.
type Competitor struct {
	ID          string `json:"id"`
	Bib         string `json:"bib"`
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Status      Status `json:"status,omitempty"`
	Performance string `json:"performance,omitempty"`
	Rank        int    `json:"rank,omitempty"`
	Points      int    `json:"points,omitempty"`
	Lane        int    `json:"lane,omitempty"`
}

// Label returns the corrected name when present.
func (c Competitor) Label() string {
	if strings.TrimSpace(c.DisplayName) != "" {
		return c.DisplayName
	}
	return c.Name
}

// Present reports whether the competitor answered the call room.
func (c Competitor) Present() bool {
	return c.Status == StatusPresent
}

// HeatGroup is an ordered group of competitors contesting one trial.
type HeatGroup struct {
	Number  int          `json:"number"`
	Entries []Competitor `json:"entries"`
}

// FieldSheet is the attempt sheet for one group of a field event.
type FieldSheet struct {
	Group    int          `json:"group"`
	Attempts int          `json:"attempts"`
	Entries  []Competitor `json:"entries"`
}

// Announcement lists the medal positions of the final.
type Announcement struct {
	Medalists   []Competitor `json:"medalists"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// Event is one competition event of the championship.
type Event struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	Gender      Gender      `json:"gender,omitempty"`
	Venue       string      `json:"venue,omitempty"`
	ScheduledAt time.Time   `json:"scheduled_at,omitzero"`
	StageFlags  stage.Flags `json:"stage_flags"`
	LockedAt    *time.Time  `json:"locked_at,omitempty"`
	VerifiedBy  string      `json:"verified_by,omitempty"`
	VerifiedAt  *time.Time  `json:"verified_at,omitempty"`
}

// Locked reports whether the event results are published.
func (e Event) Locked() bool {
	return e.StageFlags.Locked()
}

// Snapshot is the complete state of one event.
type Snapshot struct {
	Event          Event         `json:"event"`
	Roster         []Competitor  `json:"roster"`
	CallRoom       []Competitor  `json:"call_room,omitempty"`
	TrackSets      []HeatGroup   `json:"track_sets,omitempty"`
	FieldSheets    []FieldSheet  `json:"field_sheets,omitempty"`
	Round1Results  []Competitor  `json:"round1_results,omitempty"`
	Heats          []HeatGroup   `json:"heats,omitempty"`
	HeatResults    []Competitor  `json:"heat_results,omitempty"`
	FinalStartList []Competitor  `json:"final_start_list,omitempty"`
	FinalResults   []Competitor  `json:"final_results,omitempty"`
	Announcement   *Announcement `json:"announcement,omitempty"`
	Version        int64         `json:"version"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
