package root

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"pomofriends/internal/engine"
	"pomofriends/internal/tui"
)

func newTimerCmd() *cobra.Command {
	var flow bool
	var batch int

	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Open the interactive timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t := svc.Timer()
			if flow {
				t.SwitchMode(engine.ModeFlow)
			}
			if cmd.Flags().Changed("batch") {
				if batch < engine.MinBatchSize || batch > engine.MaxBatchSize {
					return errors.New("batch must be between 1 and 8")
				}
				t.SetBatchSize(batch)
			}

			return tui.Run(ctx, svc)
		},
	}

	cmd.Flags().BoolVar(&flow, "flow", false, "start in flow mode (count up, no fixed end)")
	cmd.Flags().IntVarP(&batch, "batch", "b", engine.MinBatchSize, "tomatoes per countdown batch (1-8)")
	return cmd
}
