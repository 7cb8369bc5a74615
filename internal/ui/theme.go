package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Pomofriends theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconTomato   = "🍅"
	IconFlow     = "🌊"
	IconRest     = "☕"
	IconShield   = "🛡️"
	IconTrophy   = "🏆"
	IconFire     = "🔥"
	IconChart    = "📊"
	IconInfo     = "ℹ️"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconBroken   = "💔"
	IconSparkle  = "✨"
	IconDone     = "✅"
	IconCalendar = "📅"
)

var (
	cPrimary = lipgloss.Color("203") // tomato red
	cAccent  = lipgloss.Color("39")  // flow blue
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel   = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	BigTime = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)

	BadgeUnlocked = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("UNLOCKED")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// FormatClock renders seconds as MM:SS.
func FormatClock(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

// FormatDuration renders minutes as "Xh Ym" or "Ym".
func FormatDuration(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// RarityStyle maps a rarity label to a style.
func RarityStyle(rarity string) lipgloss.Style {
	switch rarity {
	case "LEGENDARY":
		return Gold
	case "EPIC":
		return Bad
	case "RARE":
		return H2
	case "ADVANCED":
		return Good
	default:
		return Muted
	}
}

// StatusText renders a timer status with color.
func StatusText(status string) string {
	switch status {
	case "RUNNING":
		return Good.Render("running")
	case "PAUSED":
		return Warn.Render("paused")
	case "RESTING":
		return H2.Render("resting")
	case "STREAK_PROTECTION":
		return Warn.Render("streak protection")
	default:
		return Muted.Render("idle")
	}
}
