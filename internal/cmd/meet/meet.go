// Package meet parses meet service flags and launches the service.
package meet

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/trackmeet/internal/platform/cmd"
	server "github.com/louisbranch/trackmeet/internal/services/meet/app"
)

// Config holds meet command configuration.
type Config struct {
	Port int `env:"TRACKMEET_MEET_PORT" envDefault:"8090"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The meet gRPC server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the meet gRPC API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMeet, func(ctx context.Context) error {
		return server.Run(ctx, cfg.Port)
	})
}
