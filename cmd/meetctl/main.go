// Package main runs the meetctl operator command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	meetctlcmd "github.com/louisbranch/trackmeet/internal/cmd/meetctl"
	"github.com/louisbranch/trackmeet/internal/platform/config"
	apperrors "github.com/louisbranch/trackmeet/internal/platform/errors"
)

func main() {
	cfg, err := meetctlcmd.ParseConfig()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = meetctlcmd.Run(ctx, cfg, os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		config.Exitf("Error: %s", apperrors.LocalizedMessage(err))
	}
}
