package meetctl

import (
	"context"
	"fmt"
	"os"
	"strings"

	meetapi "github.com/louisbranch/trackmeet/internal/services/meet/api/grpc/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/engine"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/stage"
	"github.com/louisbranch/trackmeet/internal/services/meet/roster"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) stageCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "stage",
		Short: "Run lifecycle stages",
	}
	c.AddCommand(a.stageRunCmd(), stageListCmd())
	return c
}

type stageFlags struct {
	inputPath       string
	rosterPath      string
	attendance      map[string]string
	performances    map[string]string
	nameCorrections map[string]string
	groupSize       int
	attempts        int
	verifiedBy      string
}

func (a *app) stageRunCmd() *cobra.Command {
	var flags stageFlags

	cmd := &cobra.Command{
		Use:   "run EVENT_ID STAGE",
		Short: "Run one stage of an event",
		Long: "Run one stage of an event. Stage data comes from --input (a YAML file with roster,\n" +
			"attendance, group_size, attempts, performances, name_corrections and verified_by)\n" +
			"and from the flags, which take precedence.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := stage.Parse(args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			input, err := flags.build(ctx)
			if err != nil {
				return err
			}
			return a.call(cmd, func(ctx context.Context, client meetClient) (any, error) {
				return client.RunStage(ctx, &meetapi.RunStageRequest{
					EventID: args[0],
					Stage:   string(key),
					Input:   input,
				})
			})
		},
	}

	cmd.Flags().StringVarP(&flags.inputPath, "input", "f", "", "YAML file with stage input")
	cmd.Flags().StringVar(&flags.rosterPath, "roster", "", "YAML roster file for the created stage")
	cmd.Flags().StringToStringVar(&flags.attendance, "attendance", nil, "competitor=status pairs, e.g. 101=PRESENT")
	cmd.Flags().StringToStringVar(&flags.performances, "performance", nil, "competitor=performance pairs, e.g. 101=00:00:10:52")
	cmd.Flags().StringToStringVar(&flags.nameCorrections, "name", nil, "competitor=display name pairs")
	cmd.Flags().IntVar(&flags.groupSize, "group-size", 0, "track set size")
	cmd.Flags().IntVar(&flags.attempts, "attempts", 0, "attempts per competitor on field sheets")
	cmd.Flags().StringVar(&flags.verifiedBy, "verified-by", "", "official signing off the results")
	return cmd
}

// build merges the input file, the roster file and the flags.
func (f stageFlags) build(ctx context.Context) (engine.Input, error) {
	var input engine.Input
	if path := strings.TrimSpace(f.inputPath); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return engine.Input{}, fmt.Errorf("read stage input: %w", err)
		}
		if err := yaml.Unmarshal(data, &input); err != nil {
			return engine.Input{}, fmt.Errorf("parse stage input %s: %w", path, err)
		}
	}
	if strings.TrimSpace(f.rosterPath) != "" {
		competitors, err := roster.FileSource{Path: f.rosterPath}.Load(ctx)
		if err != nil {
			return engine.Input{}, err
		}
		input.Roster = competitors
	}
	input.Attendance = mergePairs(input.Attendance, f.attendance)
	input.Performances = mergePairs(input.Performances, f.performances)
	input.NameCorrections = mergePairs(input.NameCorrections, f.nameCorrections)
	if f.groupSize != 0 {
		input.GroupSize = f.groupSize
	}
	if f.attempts != 0 {
		input.Attempts = f.attempts
	}
	if f.verifiedBy != "" {
		input.VerifiedBy = f.verifiedBy
	}
	return input, nil
}

func mergePairs(base, overrides map[string]string) map[string]string {
	if len(overrides) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]string, len(overrides))
	}
	for key, value := range overrides {
		base[key] = value
	}
	return base
}

func stageListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the lifecycle stages in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, key := range stage.Keys() {
				if _, err := fmt.Fprintf(out, "%2d  %s\n", key.Index(), key); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
