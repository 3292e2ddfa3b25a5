package domain

import (
	"time"

	model "github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/stage"
)

// CompetitorResult is one competitor line in a tool result.
type CompetitorResult struct {
	ID          string `json:"id" jsonschema:"competitor identifier"`
	Bib         string `json:"bib" jsonschema:"bib number"`
	Name        string `json:"name" jsonschema:"name as displayed, including corrections"`
	Affiliation string `json:"affiliation,omitempty" jsonschema:"club or school"`
	Status      string `json:"status,omitempty" jsonschema:"call-room status (PRESENT, ABSENT, DISQUALIFIED)"`
	Performance string `json:"performance,omitempty" jsonschema:"recorded performance text"`
	Rank        int    `json:"rank,omitempty" jsonschema:"rank in the latest scored list"`
	Points      int    `json:"points,omitempty" jsonschema:"points earned in the final"`
	Lane        int    `json:"lane,omitempty" jsonschema:"assigned lane"`
}

// EventResult summarizes one event snapshot.
type EventResult struct {
	ID              string             `json:"id" jsonschema:"event identifier"`
	Name            string             `json:"name" jsonschema:"event name"`
	Category        string             `json:"category" jsonschema:"track, jump, throw, relay or combined"`
	Gender          string             `json:"gender,omitempty" jsonschema:"men, women or mixed"`
	Venue           string             `json:"venue,omitempty" jsonschema:"venue name"`
	ScheduledAt     string             `json:"scheduled_at,omitempty" jsonschema:"RFC3339 scheduled start"`
	Stage           string             `json:"stage" jsonschema:"highest stage completed without gaps"`
	NextStage       string             `json:"next_stage,omitempty" jsonschema:"stage that can run next"`
	CompletedStages []string           `json:"completed_stages,omitempty" jsonschema:"every completed stage in lifecycle order"`
	Locked          bool               `json:"locked" jsonschema:"true once results are published"`
	Version         int64              `json:"version" jsonschema:"snapshot version"`
	VerifiedBy      string             `json:"verified_by,omitempty" jsonschema:"official who verified the results"`
	Roster          []CompetitorResult `json:"roster,omitempty" jsonschema:"registered competitors"`
	FinalResults    []CompetitorResult `json:"final_results,omitempty" jsonschema:"ranked final results, when scored"`
	UpdatedAt       string             `json:"updated_at" jsonschema:"RFC3339 timestamp of the last change"`
}

func eventResult(s model.Snapshot) EventResult {
	flags := s.Event.StageFlags
	result := EventResult{
		ID:           s.Event.ID,
		Name:         s.Event.Name,
		Category:     string(s.Event.Category),
		Gender:       string(s.Event.Gender),
		Venue:        s.Event.Venue,
		ScheduledAt:  formatTimestamp(s.Event.ScheduledAt),
		Stage:        string(flags.CurrentKey()),
		Locked:       flags.Locked(),
		Version:      s.Version,
		VerifiedBy:   s.Event.VerifiedBy,
		Roster:       competitorResults(s.Roster),
		FinalResults: competitorResults(s.FinalResults),
		UpdatedAt:    formatTimestamp(s.UpdatedAt),
	}
	if next, ok := flags.Next(); ok && !result.Locked {
		result.NextStage = string(next)
	}
	for _, key := range stage.Keys() {
		if flags.Completed(key) {
			result.CompletedStages = append(result.CompletedStages, string(key))
		}
	}
	return result
}

func competitorResults(in []model.Competitor) []CompetitorResult {
	if len(in) == 0 {
		return nil
	}
	out := make([]CompetitorResult, 0, len(in))
	for _, competitor := range in {
		out = append(out, CompetitorResult{
			ID:          competitor.ID,
			Bib:         competitor.Bib,
			Name:        competitor.Label(),
			Affiliation: competitor.Affiliation,
			Status:      string(competitor.Status),
			Performance: competitor.Performance,
			Rank:        competitor.Rank,
			Points:      competitor.Points,
			Lane:        competitor.Lane,
		})
	}
	return out
}

// formatTimestamp returns an RFC3339 timestamp or empty string.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimestampPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTimestamp(*t)
}
