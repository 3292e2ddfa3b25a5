// Package meetctl implements the operator command line for the meet service.
package meetctl

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	entrypoint "github.com/louisbranch/trackmeet/internal/platform/cmd"
	"github.com/louisbranch/trackmeet/internal/platform/discovery"
	platformgrpc "github.com/louisbranch/trackmeet/internal/platform/grpc"
	"github.com/louisbranch/trackmeet/internal/platform/timeouts"
	meetapi "github.com/louisbranch/trackmeet/internal/services/meet/api/grpc/meet"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

// Config holds meetctl defaults loaded from the environment.
type Config struct {
	Addr    string        `env:"TRACKMEET_MEET_ADDR"`
	Locale  string        `env:"TRACKMEET_LOCALE"          envDefault:"en-US"`
	Timeout time.Duration `env:"TRACKMEET_MEETCTL_TIMEOUT" envDefault:"5s"`
}

// ParseConfig loads Config from the environment. Flags on the root command
// override it.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Addr = discovery.OrDefaultGRPCAddr(cfg.Addr, discovery.ServiceMeet)
	return cfg, nil
}

type meetClient interface {
	CreateEvent(ctx context.Context, in *meetapi.CreateEventRequest, opts ...grpc.CallOption) (*meetapi.EventResponse, error)
	GetEvent(ctx context.Context, in *meetapi.GetEventRequest, opts ...grpc.CallOption) (*meetapi.EventResponse, error)
	ListEvents(ctx context.Context, in *meetapi.ListEventsRequest, opts ...grpc.CallOption) (*meetapi.ListEventsResponse, error)
	RunStage(ctx context.Context, in *meetapi.RunStageRequest, opts ...grpc.CallOption) (*meetapi.RunStageResponse, error)
	GetView(ctx context.Context, in *meetapi.GetViewRequest, opts ...grpc.CallOption) (*meetapi.GetViewResponse, error)
}

// connectFunc opens a meet client. The returned func releases it.
type connectFunc func(ctx context.Context, cfg Config) (meetClient, func() error, error)

func dialMeet(ctx context.Context, cfg Config) (meetClient, func() error, error) {
	conn, err := platformgrpc.DialWithHealth(ctx, nil, platformgrpc.Target{
		Addr:          cfg.Addr,
		HealthService: meetapi.ServiceName,
		Timeout:       timeouts.GRPCDial,
	}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to meet server: %w", err)
	}
	return meetapi.NewClient(conn), conn.Close, nil
}

// Run executes meetctl with args, writing results to out.
func Run(ctx context.Context, cfg Config, args []string, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMeetCtl, func(ctx context.Context) error {
		cmd := newRootCmd(cfg, dialMeet)
		cmd.SetArgs(args)
		cmd.SetOut(out)
		return cmd.ExecuteContext(ctx)
	})
}

type app struct {
	cfg     Config
	connect connectFunc
}

func newRootCmd(cfg Config, connect connectFunc) *cobra.Command {
	a := &app{cfg: cfg, connect: connect}

	cmd := &cobra.Command{
		Use:           "meetctl",
		Short:         "Operate athletics events on a meet server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&a.cfg.Addr, "addr", cfg.Addr, "meet server address")
	cmd.PersistentFlags().StringVar(&a.cfg.Locale, "locale", cfg.Locale, "locale for view labels and error messages")
	cmd.PersistentFlags().DurationVar(&a.cfg.Timeout, "timeout", cfg.Timeout, "timeout for each meet call")

	cmd.AddCommand(a.eventCmd(), a.stageCmd(), a.viewCmd())
	return cmd
}

// call connects, runs fn with a bounded context and releases the client.
func (a *app) call(cmd *cobra.Command, fn func(ctx context.Context, client meetClient) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client, release, err := a.connect(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			log.Printf("close meet connection: %v", err)
		}
	}()

	timeout := a.cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.GRPCRequest
	}
	callCtx, cancel := context.WithTimeout(withLocale(ctx, a.cfg.Locale), timeout)
	defer cancel()

	result, err := fn(callCtx, client)
	if err != nil {
		return err
	}
	return writeYAML(cmd.OutOrStdout(), result)
}
