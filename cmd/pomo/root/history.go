package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pomofriends/internal/storage"
	"pomofriends/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			records := svc.History().All()
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("no sessions yet"))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconCalendar, "History"))
			start := 0
			if limit > 0 && len(records) > limit {
				start = len(records) - limit
			}
			// Newest last, like a log.
			for _, r := range records[start:] {
				fmt.Fprintln(cmd.OutOrStdout(), formatRecord(r))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many sessions (0 for all)")
	return cmd
}

func formatRecord(r storage.SessionRecord) string {
	icon := ui.IconTomato
	if r.Kind == storage.KindFlow {
		icon = ui.IconFlow
	}
	state := ui.Good.Render("completed")
	if !r.Completed {
		state = ui.Bad.Render("interrupted")
	}
	return fmt.Sprintf("  %s %s  %s  %s",
		icon,
		ui.Muted.Render(r.Timestamp.Format("2006-01-02 15:04")),
		ui.FormatDuration(r.DurationMinutes),
		state)
}
