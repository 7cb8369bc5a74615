package tui

import (
	"fmt"
	"strings"

	"pomofriends/internal/engine"
	"pomofriends/internal/storage"
	"pomofriends/internal/ui"
)

func (m timerModel) statsView() string {
	s := m.svc.Stats()
	return ui.Panel.Render(RenderStats(s) + "\n" + ui.Dim.Render("tab views · q quit"))
}

func (m timerModel) achievementsView() string {
	return ui.Panel.Render(RenderBoard(m.svc) + "\n" + ui.Dim.Render("tab views · q quit"))
}

// RenderStats formats a stats summary. Shared by the TUI and the stats
// command.
func RenderStats(s engine.StatsSummary) string {
	var b strings.Builder
	b.WriteString(ui.Heading(ui.IconChart, "Stats") + "\n\n")
	b.WriteString(ui.LabelValue("Today", fmt.Sprintf("%d completed · %d interrupted · %s focused",
		s.TodayCompleted, s.TodayInterrupted, ui.FormatDuration(s.TodayFocusMinutes))) + "\n")
	b.WriteString(ui.LabelValue("This week", fmt.Sprintf("%d completed", s.WeekCompleted)) + "\n")
	b.WriteString(ui.LabelValue("This month", fmt.Sprintf("%d completed", s.MonthCompleted)) + "\n")
	b.WriteString(ui.LabelValue("All time", fmt.Sprintf("%d completed · %s focused",
		s.TotalCompleted, ui.FormatDuration(s.TotalFocusMinutes))) + "\n\n")
	b.WriteString(ui.LabelValue(ui.IconFire+" Session streak", fmt.Sprintf("%d", s.SessionStreak)) + "\n")
	b.WriteString(ui.LabelValue(ui.IconCalendar+" Day streak", fmt.Sprintf("%d", s.DayStreak)) + "\n")
	b.WriteString(ui.LabelValue("Energy left today", fmt.Sprintf("%d", s.QuotaRemaining)))
	return b.String()
}

// RenderBoard formats the achievement board grouped by category, with
// unlock state and progress bars for locked entries.
func RenderBoard(svc *engine.Service) string {
	ach := svc.Achievements()
	history := svc.History().All()

	var b strings.Builder
	b.WriteString(ui.Heading(ui.IconTrophy, "Achievements"))

	var lastCategory engine.AchievementCategory
	unlocked := 0
	defs := ach.Catalog()
	for _, def := range defs {
		if def.Category != lastCategory {
			b.WriteString("\n\n" + ui.H2.Render(categoryTitle(def.Category)) + "\n")
			lastCategory = def.Category
		}
		b.WriteString(renderAchievement(ach, def, history) + "\n")
		if ach.IsUnlocked(def.ID) {
			unlocked++
		}
	}
	b.WriteString("\n" + ui.Muted.Render(fmt.Sprintf("%d/%d unlocked", unlocked, len(defs))))
	return b.String()
}

func renderAchievement(ach *engine.Achievements, def engine.AchievementDef, history []storage.SessionRecord) string {
	rarity := ui.RarityStyle(def.Rarity()).Render(def.Rarity())
	if ach.IsUnlocked(def.ID) {
		return fmt.Sprintf("  %s %s %s %s  %s",
			def.Icon, ui.Gold.Render(def.Name), ui.BadgeUnlocked, rarity, ui.Muted.Render(def.Description))
	}
	p := ach.ProgressFor(def, history)
	return fmt.Sprintf("  %s %s %s  %s %s",
		def.Icon, ui.Muted.Render(def.Name), rarity,
		progressBar(p), ui.Dim.Render(fmt.Sprintf("%d/%d", p.Current, p.Total)))
}

func progressBar(p engine.Progress) string {
	const width = 10
	filled := 0
	if p.Total > 0 {
		filled = p.Current * width / p.Total
	}
	if filled > width {
		filled = width
	}
	return ui.Dim.Render("[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]")
}

func categoryTitle(c engine.AchievementCategory) string {
	switch c {
	case engine.CategoryQuantity:
		return "Quantity"
	case engine.CategoryContinuity:
		return "Continuity"
	case engine.CategoryHabit:
		return "Habit"
	case engine.CategoryGrowth:
		return "Growth"
	case engine.CategoryFun:
		return "Fun"
	default:
		return string(c)
	}
}
