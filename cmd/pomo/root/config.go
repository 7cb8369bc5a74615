package root

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pomofriends/internal/engine"
	"pomofriends/internal/storage"
	"pomofriends/internal/ui"
)

// Editable settings slots, keyed by CLI name.
var configSlots = map[string]string{
	"batch":    storage.SettingBatchSize,
	"sync-url": storage.SettingSyncURL,
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Show or change settings (batch, sync-url)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			db, cleanup, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			settings := storage.NewSettingsRepo(db)

			if len(args) == 0 {
				for _, name := range []string{"batch", "sync-url"} {
					key := configSlots[name]
					v, ok, err := settings.Get(ctx, key)
					if err != nil {
						return err
					}
					if !ok {
						v = ui.Muted.Render("(unset)")
					}
					fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue(name, v))
				}
				return nil
			}

			key, ok := configSlots[args[0]]
			if !ok {
				return fmt.Errorf("unknown setting %q", args[0])
			}
			if len(args) == 1 {
				v, ok, err := settings.Get(ctx, key)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(unset)"))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			}

			value := args[1]
			if key == storage.SettingBatchSize {
				n, err := strconv.Atoi(value)
				if err != nil || n < engine.MinBatchSize || n > engine.MaxBatchSize {
					return fmt.Errorf("batch must be a number between %d and %d", engine.MinBatchSize, engine.MaxBatchSize)
				}
			}
			if err := settings.Set(ctx, key, value); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" saved"))
			return nil
		},
	}

	return cmd
}
