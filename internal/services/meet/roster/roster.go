// Package roster loads competitor rosters for the created stage.
package roster

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
	"gopkg.in/yaml.v3"
)

// Source supplies the initial competitor list of an event.
type Source interface {
	Load(ctx context.Context) ([]meet.Competitor, error)
}

// Static is a roster already in memory, such as an inline request payload.
type Static []meet.Competitor

// Load returns a copy of the static roster.
func (s Static) Load(ctx context.Context) ([]meet.Competitor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return meet.CloneCompetitors(s), nil
}

// FileSource reads a YAML roster file.
//
//	competitors:
//	  - bib: "101"
//	    name: Ada Runner
//	    affiliation: North Club
type FileSource struct {
	Path string
}

type document struct {
	Competitors []entry `yaml:"competitors"`
}

type entry struct {
	ID          string `yaml:"id"`
	Bib         string `yaml:"bib"`
	Name        string `yaml:"name"`
	Affiliation string `yaml:"affiliation"`
}

// Load reads and parses the roster file.
func (f FileSource) Load(ctx context.Context) ([]meet.Competitor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimSpace(f.Path)
	if path == "" {
		return nil, fmt.Errorf("roster path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	competitors, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	return competitors, nil
}

// Parse decodes a YAML roster document.
func Parse(data []byte) ([]meet.Competitor, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	out := make([]meet.Competitor, 0, len(doc.Competitors))
	for _, e := range doc.Competitors {
		out = append(out, meet.Competitor{
			ID:          strings.TrimSpace(e.ID),
			Bib:         strings.TrimSpace(e.Bib),
			Name:        strings.TrimSpace(e.Name),
			Affiliation: strings.TrimSpace(e.Affiliation),
		})
	}
	return out, nil
}

var (
	_ Source = Static(nil)
	_ Source = FileSource{}
)
