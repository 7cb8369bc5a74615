package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pomofriends/internal/tui"
	"pomofriends/internal/ui"
)

func newAchievementsCmd() *cobra.Command {
	var sync bool

	cmd := &cobra.Command{
		Use:     "achievements",
		Aliases: []string{"board"},
		Short:   "Show the achievement board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if sync {
				for _, def := range svc.Sync(ctx) {
					fmt.Fprintln(cmd.OutOrStdout(),
						ui.Gold.Render(ui.IconTrophy+" unlocked: "+def.Icon+" "+def.Name))
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderBoard(svc))
			return nil
		},
	}

	cmd.Flags().BoolVar(&sync, "sync", false, "re-evaluate all rules against history first")
	return cmd
}
