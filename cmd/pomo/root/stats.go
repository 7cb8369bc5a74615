package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pomofriends/internal/tui"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show focus stats and streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderStats(svc.Stats()))
			return nil
		},
	}

	return cmd
}
