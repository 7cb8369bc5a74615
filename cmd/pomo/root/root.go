package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pomofriends/internal/logger"
	"pomofriends/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "pomo",
	Short:         "Pomofriends — tomato timer with streaks and achievements",
	Long:          "Pomofriends is a local-first focus timer: countdown batches or open-ended flow sessions, with a session ledger, streaks and an achievement board.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	var debug bool
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger.SetDebug(debug)
	}

	rootCmd.AddCommand(
		newTimerCmd(),
		newStatsCmd(),
		newAchievementsCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newClearCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
