package roster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/louisbranch/trackmeet/internal/services/meet/domain/meet"
)

const sample = `competitors:
  - bib: "101"
    name: " Ada Runner "
    affiliation: North Club
  - id: fixed-id
    bib: 7
    name: Bo Sprint
`

func TestParse(t *testing.T) {
	competitors, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(competitors) != 2 {
		t.Fatalf("competitors = %d, want 2", len(competitors))
	}
	if competitors[0].Name != "Ada Runner" || competitors[0].Bib != "101" || competitors[0].Affiliation != "North Club" {
		t.Fatalf("first competitor = %+v", competitors[0])
	}
	if competitors[1].ID != "fixed-id" || competitors[1].Bib != "7" {
		t.Fatalf("second competitor = %+v", competitors[1])
	}
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("competitors: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFileSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	competitors, err := FileSource{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(competitors) != 2 {
		t.Fatalf("competitors = %d, want 2", len(competitors))
	}
}

func TestFileSourceErrors(t *testing.T) {
	if _, err := (FileSource{}).Load(context.Background()); err == nil {
		t.Fatal("expected missing path error")
	}
	if _, err := (FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")}).Load(context.Background()); err == nil {
		t.Fatal("expected read error")
	}
}

func TestStaticLoadCopies(t *testing.T) {
	static := Static{{ID: "a", Name: "Ada"}}
	competitors, err := static.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	competitors[0].Name = "changed"
	if static[0].Name != "Ada" {
		t.Fatal("Load returned the backing slice")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := static.Load(ctx); err == nil {
		t.Fatal("expected canceled context error")
	}
}

func TestStaticSatisfiesSource(t *testing.T) {
	var source Source = Static([]meet.Competitor{})
	if _, err := source.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
}
