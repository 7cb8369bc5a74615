package engine

import (
	"time"

	"pomofriends/internal/storage"
)

type AchievementCategory string

const (
	CategoryQuantity   AchievementCategory = "QUANTITY"
	CategoryContinuity AchievementCategory = "CONTINUITY"
	CategoryHabit      AchievementCategory = "HABIT"
	CategoryGrowth     AchievementCategory = "GROWTH"
	CategoryFun        AchievementCategory = "FUN"
)

// Progress is a display-only side channel; it never affects unlock state.
type Progress struct {
	Current int
	Total   int
}

// AchievementDef is one declarative rule: a condition over the full
// history plus a progress function for display. A condition that holds
// must keep holding as history grows; that is what makes incremental
// unlocking safe.
type AchievementDef struct {
	ID          string
	Category    AchievementCategory
	Tier        int // 1 (red) .. 7 (purple)
	Icon        string
	Name        string
	Description string
	Condition   func(history []storage.SessionRecord, now time.Time) bool
	Progress    func(history []storage.SessionRecord, now time.Time) Progress
}

// Rarity derives a display label from the tier ordinal.
func (d AchievementDef) Rarity() string {
	switch {
	case d.Tier >= 7:
		return "LEGENDARY"
	case d.Tier >= 5:
		return "EPIC"
	case d.Tier >= 4:
		return "RARE"
	case d.Tier >= 2:
		return "ADVANCED"
	default:
		return "COMMON"
	}
}

// Catalog returns the full achievement catalog. Read-only at runtime.
func Catalog() []AchievementDef {
	return []AchievementDef{
		// Quantity: lifetime completed tomatoes.
		quantityRule("QTY_1", 1, "🌱", "First Sprout", "Complete your first tomato", 1),
		quantityRule("QTY_10", 1, "🧺", "Small Harvest", "Complete 10 tomatoes", 10),
		quantityRule("QTY_50", 2, "🍃", "Steady Grower", "Complete 50 tomatoes", 50),
		quantityRule("QTY_100", 4, "🍅", "Tomato Keeper", "Complete 100 tomatoes", 100),
		quantityRule("QTY_500", 5, "👑", "Garden Royalty", "Complete 500 tomatoes", 500),
		quantityRule("QTY_1000", 6, "🏆", "Grand Cultivator", "Complete 1000 tomatoes", 1000),
		quantityRule("QTY_5000", 7, "🌌", "Beyond Seasons", "Complete 5000 tomatoes", 5000),

		// Continuity: unbroken same-day runs.
		sessionStreakRule("CONT_SESSION_2", 2, "🔥", "Warming Up", "2 tomatoes in a row without a break in the chain", 2),
		sessionStreakRule("CONT_SESSION_4", 3, "⚡", "In the Zone", "4 tomatoes in a row today", 4),
		sessionStreakRule("CONT_SESSION_8", 5, "🎯", "Unstoppable", "8 tomatoes in a row today", 8),

		// Continuity: consecutive days.
		dayStreakRule("CONT_DAY_3", 1, "🌰", "Taking Root", "Focus 3 days in a row", 3),
		dayStreakRule("CONT_DAY_7", 3, "🌳", "One Full Week", "Focus 7 days in a row", 7),
		dayStreakRule("CONT_DAY_14", 4, "🎖️", "Fortnight Focus", "Focus 14 days in a row", 14),
		dayStreakRule("CONT_DAY_30", 5, "📅", "Monthly Ritual", "Focus 30 days in a row", 30),

		// Habit: time-of-day windows and clean days.
		hourWindowRule("HABIT_EARLY", 4, "🌅", "Early Bird", "Complete a tomato between 5am and 8am", 5, 8),
		hourWindowRule("HABIT_NIGHT", 4, "🌙", "Night Owl", "Complete a tomato between 10pm and 2am", 22, 2),
		zeroInterruptRule("QUALITY_ZERO_INT", 5, "🛡️", "Flawless Day", "3 tomatoes today with zero interruptions", 3),

		// Growth: same-day volume.
		dailyCountRule("GROWTH_3_TIMES", 2, "💗", "Three Times Today", "Complete 3 tomatoes in one day", 3),

		// Fun: weekday flavored.
		weekdayRule("FUN_WEEKEND", 3, "🏖️", "Weekend Warrior", "Complete 4 tomatoes on a Saturday or Sunday", 4, time.Saturday, time.Sunday),
		weekdayRule("FUN_MONDAY", 2, "☕", "Monday Momentum", "Complete 3 tomatoes on a Monday", 3, time.Monday),
	}
}

func lifetimeCompleted(history []storage.SessionRecord) int {
	n := 0
	for _, r := range history {
		if r.Kind == storage.KindTomato && r.Completed {
			n++
		}
	}
	return n
}

func clampProgress(current, total int) Progress {
	if current > total {
		current = total
	}
	return Progress{Current: current, Total: total}
}

func quantityRule(id string, tier int, icon, name, desc string, threshold int) AchievementDef {
	return AchievementDef{
		ID: id, Category: CategoryQuantity, Tier: tier, Icon: icon, Name: name, Description: desc,
		Condition: func(history []storage.SessionRecord, _ time.Time) bool {
			return lifetimeCompleted(history) >= threshold
		},
		Progress: func(history []storage.SessionRecord, _ time.Time) Progress {
			return clampProgress(lifetimeCompleted(history), threshold)
		},
	}
}

func sessionStreakRule(id string, tier int, icon, name, desc string, threshold int) AchievementDef {
	return AchievementDef{
		ID: id, Category: CategoryContinuity, Tier: tier, Icon: icon, Name: name, Description: desc,
		Condition: func(history []storage.SessionRecord, now time.Time) bool {
			return SessionStreak(history, now) >= threshold
		},
		Progress: func(history []storage.SessionRecord, now time.Time) Progress {
			return clampProgress(SessionStreak(history, now), threshold)
		},
	}
}

func dayStreakRule(id string, tier int, icon, name, desc string, threshold int) AchievementDef {
	return AchievementDef{
		ID: id, Category: CategoryContinuity, Tier: tier, Icon: icon, Name: name, Description: desc,
		Condition: func(history []storage.SessionRecord, now time.Time) bool {
			return DayStreak(history, now) >= threshold
		},
		Progress: func(history []storage.SessionRecord, now time.Time) Progress {
			return clampProgress(DayStreak(history, now), threshold)
		},
	}
}

// hourWindowRule matches a completed record whose local hour falls in
// [from, to). A window with from > to wraps past midnight.
func hourWindowRule(id string, tier int, icon, name, desc string, from, to int) AchievementDef {
	inWindow := func(hour int) bool {
		if from <= to {
			return hour >= from && hour < to
		}
		return hour >= from || hour < to
	}
	hit := func(history []storage.SessionRecord) bool {
		for _, r := range history {
			if r.Completed && inWindow(r.Timestamp.Hour()) {
				return true
			}
		}
		return false
	}
	return AchievementDef{
		ID: id, Category: CategoryHabit, Tier: tier, Icon: icon, Name: name, Description: desc,
		Condition: func(history []storage.SessionRecord, _ time.Time) bool {
			return hit(history)
		},
		Progress: func(history []storage.SessionRecord, _ time.Time) Progress {
			if hit(history) {
				return Progress{Current: 1, Total: 1}
			}
			return Progress{Current: 0, Total: 1}
		},
	}
}

func zeroInterruptRule(id string, tier int, icon, name, desc string, threshold int) AchievementDef {
	tally := func(history []storage.SessionRecord, now time.Time) (completed, interrupted int) {
		for _, r := range history {
			if r.Kind != storage.KindTomato || !SameDay(r.Timestamp, now) {
				continue
			}
			if r.Completed {
				completed++
			} else {
				interrupted++
			}
		}
		return completed, interrupted
	}
	return AchievementDef{
		ID: id, Category: CategoryHabit, Tier: tier, Icon: icon, Name: name, Description: desc,
		Condition: func(history []storage.SessionRecord, now time.Time) bool {
			completed, interrupted := tally(history, now)
			return completed >= threshold && interrupted == 0
		},
		Progress: func(history []storage.SessionRecord, now time.Time) Progress {
			completed, interrupted := tally(history, now)
			if interrupted > 0 {
				return Progress{Current: 0, Total: threshold}
			}
			return clampProgress(completed, threshold)
		},
	}
}

func dailyCountRule(id string, tier int, icon, name, desc string, threshold int) AchievementDef {
	return AchievementDef{
		ID: id, Category: CategoryGrowth, Tier: tier, Icon: icon, Name: name, Description: desc,
		Condition: func(history []storage.SessionRecord, now time.Time) bool {
			return CompletedTomatoesOn(history, now) >= threshold
		},
		Progress: func(history []storage.SessionRecord, now time.Time) Progress {
			return clampProgress(CompletedTomatoesOn(history, now), threshold)
		},
	}
}

// weekdayRule matches any day in history with the given weekday and at
// least threshold completed tomatoes.
func weekdayRule(id string, tier int, icon, name, desc string, threshold int, weekdays ...time.Weekday) AchievementDef {
	match := func(d time.Weekday) bool {
		for _, w := range weekdays {
			if d == w {
				return true
			}
		}
		return false
	}
	best := func(history []storage.SessionRecord) int {
		counts := make(map[string]int)
		topCount := 0
		for _, r := range history {
			if r.Kind != storage.KindTomato || !r.Completed || !match(r.Timestamp.Weekday()) {
				continue
			}
			key := dayKey(r.Timestamp)
			counts[key]++
			if counts[key] > topCount {
				topCount = counts[key]
			}
		}
		return topCount
	}
	return AchievementDef{
		ID: id, Category: CategoryFun, Tier: tier, Icon: icon, Name: name, Description: desc,
		Condition: func(history []storage.SessionRecord, _ time.Time) bool {
			return best(history) >= threshold
		},
		Progress: func(history []storage.SessionRecord, _ time.Time) Progress {
			return clampProgress(best(history), threshold)
		},
	}
}
