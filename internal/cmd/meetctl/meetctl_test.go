package meetctl

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
	server "github.com/louisbranch/trackmeet/internal/services/meet/app"
	"gopkg.in/yaml.v3"
)

func startMeetServer(t *testing.T) string {
	t.Helper()
	t.Setenv("TRACKMEET_MEET_DB_PATH", filepath.Join(t.TempDir(), "meet.db"))
	t.Setenv("TRACKMEET_MEET_GROUP_SIZE", "8")

	srv, err := server.NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new meet server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-serveDone:
		case <-time.After(5 * time.Second):
			t.Fatal("meet server did not stop")
		}
	})
	return srv.Addr()
}

func execute(t *testing.T, cfg Config, args ...string) (map[string]any, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(cfg, dialMeet)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return nil, err
	}
	doc := map[string]any{}
	if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("decode output of %v: %v\n%s", args, err, out.String())
	}
	return doc, nil
}

func mustExecute(t *testing.T, cfg Config, args ...string) map[string]any {
	t.Helper()
	doc, err := execute(t, cfg, args...)
	if err != nil {
		t.Fatalf("meetctl %s: %v", strings.Join(args, " "), err)
	}
	return doc
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestEventLifecycleCommands(t *testing.T) {
	cfg := Config{Addr: startMeetServer(t), Locale: "en-US", Timeout: 5 * time.Second}

	created := mustExecute(t, cfg, "event", "create", "--id", "w100", "--name", "Women 100m", "--category", "track", "--gender", "women")
	event, _ := created["event"].(map[string]any)
	if event["id"] != "w100" || event["name"] != "Women 100m" {
		t.Fatalf("created event = %v", created)
	}

	rosterPath := writeFile(t, "roster.yaml", `competitors:
  - bib: "101"
    name: Ada Runner
  - bib: "102"
    name: Bea Sprinter
`)
	ran := mustExecute(t, cfg, "stage", "run", "w100", "created", "--roster", rosterPath)
	snapshot, _ := ran["snapshot"].(map[string]any)
	roster, _ := snapshot["roster"].([]any)
	if len(roster) != 2 {
		t.Fatalf("roster after created = %v", snapshot["roster"])
	}

	mustExecute(t, cfg, "stage", "run", "w100", "callRoomGenerated")

	inputPath := writeFile(t, "attendance.yaml", `attendance:
  "101": PRESENT
  "102": PRESENT
`)
	ran = mustExecute(t, cfg, "stage", "run", "w100", "callRoomCompleted", "-f", inputPath, "--attendance", "102=ABSENT")
	snapshot, _ = ran["snapshot"].(map[string]any)
	statuses := map[string]any{}
	for _, entry := range snapshot["roster"].([]any) {
		competitor := entry.(map[string]any)
		statuses[competitor["bib"].(string)] = competitor["status"]
	}
	if statuses["101"] != "PRESENT" || statuses["102"] != "ABSENT" {
		t.Fatalf("statuses = %v", statuses)
	}

	board := mustExecute(t, cfg, "view", "w100", "board")
	boardView, _ := board["board"].(map[string]any)
	if boardView["current"] != "callRoomCompleted" {
		t.Fatalf("board = %v", board)
	}

	listed := mustExecute(t, cfg, "event", "list", "--page-size", "5")
	events, _ := listed["events"].([]any)
	if len(events) != 1 {
		t.Fatalf("listed = %v", listed)
	}

	shown := mustExecute(t, cfg, "event", "show", "w100")
	if version, _ := shown["version"].(int); version != 4 {
		t.Fatalf("version = %v, want 4", shown["version"])
	}

	_, err := execute(t, cfg, "stage", "run", "w100", "published")
	if !apperrors.HasCode(err, apperrors.CodeStageOutOfSequence) {
		t.Fatalf("expected out of sequence, got %v", err)
	}

	_, err = execute(t, cfg, "event", "show", "missing")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStageRunRejectsUnknownStage(t *testing.T) {
	connect := func(context.Context, Config) (meetClient, func() error, error) {
		t.Fatal("unexpected connect")
		return nil, nil, nil
	}
	cmd := newRootCmd(Config{}, connect)
	cmd.SetArgs([]string{"stage", "run", "w100", "warmup"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	if !apperrors.HasCode(err, apperrors.CodeStageUnknown) {
		t.Fatalf("expected unknown stage, got %v", err)
	}
}

func TestConnectErrorIsReturned(t *testing.T) {
	want := errors.New("no route to meet")
	connect := func(context.Context, Config) (meetClient, func() error, error) {
		return nil, nil, want
	}
	cmd := newRootCmd(Config{}, connect)
	cmd.SetArgs([]string{"event", "show", "w100"})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.Execute(); !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestEventCreateRequiresFlags(t *testing.T) {
	cmd := newRootCmd(Config{}, dialMeet)
	cmd.SetArgs([]string{"event", "create", "--name", "100m"})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing --category")
	}
}

func TestStageFlagsBuild(t *testing.T) {
	inputPath := writeFile(t, "input.yaml", `group_size: 6
performances:
  "101": "00:00:10:52"
  "102": DNF
verified_by: Chief Judge
`)
	flags := stageFlags{
		inputPath:    inputPath,
		performances: map[string]string{"102": "00:00:11:03"},
		attempts:     4,
	}
	input, err := flags.build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if input.GroupSize != 6 || input.Attempts != 4 {
		t.Fatalf("sizes = %d/%d", input.GroupSize, input.Attempts)
	}
	if input.Performances["101"] != "00:00:10:52" || input.Performances["102"] != "00:00:11:03" {
		t.Fatalf("performances = %v", input.Performances)
	}
	if input.VerifiedBy != "Chief Judge" {
		t.Fatalf("verified by = %q", input.VerifiedBy)
	}

	if _, err := (stageFlags{inputPath: filepath.Join(t.TempDir(), "missing.yaml")}).build(context.Background()); err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestStageListPrintsLifecycle(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(Config{}, dialMeet)
	cmd.SetArgs([]string{"stage", "list"})
	cmd.SetOut(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("stage list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 14 {
		t.Fatalf("lines = %d, want 14", len(lines))
	}
	if !strings.HasSuffix(lines[0], "created") || !strings.HasSuffix(lines[13], "published") {
		t.Fatalf("unexpected order: %q ... %q", lines[0], lines[13])
	}
}

func TestWriteYAMLUsesJSONNames(t *testing.T) {
	var out bytes.Buffer
	value := struct {
		EventID string `json:"event_id"`
		Skipped string `json:"skipped,omitempty"`
	}{EventID: "w100"}
	if err := writeYAML(&out, value); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "event_id: w100" {
		t.Fatalf("output = %q", got)
	}
}

func TestParseConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("TRACKMEET_MEET_ADDR", "")
	t.Setenv("TRACKMEET_LOCALE", "")
	t.Setenv("TRACKMEET_MEETCTL_TIMEOUT", "")

	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "localhost:8090" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.Locale != "en-US" || cfg.Timeout != 5*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	t.Setenv("TRACKMEET_MEET_ADDR", "meet.internal:9000")
	t.Setenv("TRACKMEET_LOCALE", "fr-FR")
	cfg, err = ParseConfig()
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Addr != "meet.internal:9000" || cfg.Locale != "fr-FR" {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
}
