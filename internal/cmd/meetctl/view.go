package meetctl

import (
	"context"
	"strings"

	meetapi "github.com/louisbranch/trackmeet/internal/services/meet/api/grpc/meet"
	"github.com/louisbranch/trackmeet/internal/services/meet/domain/projection"
	"github.com/spf13/cobra"
)

func (a *app) viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "view EVENT_ID VIEW",
		Short:     "Render a read-only view of an event",
		Long:      "Render a read-only view of an event. Views: " + strings.Join(projection.Names(), ", ") + ".",
		Args:      cobra.ExactArgs(2),
		ValidArgs: projection.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, func(ctx context.Context, client meetClient) (any, error) {
				response, err := client.GetView(ctx, &meetapi.GetViewRequest{
					EventID: args[0],
					View:    args[1],
					Locale:  a.cfg.Locale,
				})
				if err != nil {
					return nil, err
				}
				return response.View, nil
			})
		},
	}
}
