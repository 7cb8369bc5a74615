package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the global logger instance. Quiet (warn and up) unless debug
// is enabled, so the TUI stays clean.
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Level:           log.WarnLevel,
	Prefix:          "pomo",
})

// SetDebug switches the global log level.
func SetDebug(debug bool) {
	if debug {
		Logger.SetLevel(log.DebugLevel)
		Logger.SetReportCaller(true)
		return
	}
	Logger.SetLevel(log.WarnLevel)
	Logger.SetReportCaller(false)
}
