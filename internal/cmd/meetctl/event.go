package meetctl

import (
	"context"
	"fmt"
	"time"

	meetapi "github.com/louisbranch/trackmeet/internal/services/meet/api/grpc/meet"
	"github.com/spf13/cobra"
)

func (a *app) eventCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "event",
		Short: "Create and inspect events",
	}
	c.AddCommand(a.eventCreateCmd(), a.eventShowCmd(), a.eventListCmd())
	return c
}

func (a *app) eventCreateCmd() *cobra.Command {
	var (
		request     meetapi.CreateEventRequest
		scheduledAt string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event on the dashboard stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if scheduledAt != "" {
				parsed, err := time.Parse(time.RFC3339, scheduledAt)
				if err != nil {
					return fmt.Errorf("--scheduled-at must be RFC3339: %w", err)
				}
				request.ScheduledAt = parsed
			}
			return a.call(cmd, func(ctx context.Context, client meetClient) (any, error) {
				response, err := client.CreateEvent(ctx, &request)
				if err != nil {
					return nil, err
				}
				return response.Snapshot, nil
			})
		},
	}

	cmd.Flags().StringVar(&request.EventID, "id", "", "event identifier (generated when empty)")
	cmd.Flags().StringVar(&request.Name, "name", "", "event name, e.g. 100m")
	cmd.Flags().StringVar(&request.Category, "category", "", "track, jump, throw, relay or combined")
	cmd.Flags().StringVar(&request.Gender, "gender", "", "men, women or mixed")
	cmd.Flags().StringVar(&request.Venue, "venue", "", "venue name")
	cmd.Flags().StringVar(&scheduledAt, "scheduled-at", "", "RFC3339 scheduled start")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (a *app) eventShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show EVENT_ID",
		Aliases: []string{"get"},
		Short:   "Print the full snapshot of an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, func(ctx context.Context, client meetClient) (any, error) {
				response, err := client.GetEvent(ctx, &meetapi.GetEventRequest{EventID: args[0]})
				if err != nil {
					return nil, err
				}
				return response.Snapshot, nil
			})
		},
	}
}

func (a *app) eventListCmd() *cobra.Command {
	var request meetapi.ListEventsRequest

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events with their current stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.call(cmd, func(ctx context.Context, client meetClient) (any, error) {
				return client.ListEvents(ctx, &request)
			})
		},
	}

	cmd.Flags().Int32Var(&request.PageSize, "page-size", 0, "events per page (server default when 0)")
	cmd.Flags().StringVar(&request.PageToken, "page-token", "", "token from a previous page")
	return cmd
}
