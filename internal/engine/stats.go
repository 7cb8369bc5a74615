package engine

import (
	"time"

	"pomofriends/internal/storage"
)

// StatsSummary aggregates the ledger for display. Derived views only;
// the history snapshot stays untouched.
type StatsSummary struct {
	TodayCompleted    int
	TodayInterrupted  int
	TodayFocusMinutes int
	WeekCompleted     int
	MonthCompleted    int
	TotalCompleted    int
	TotalFocusMinutes int
	SessionStreak     int
	DayStreak         int
	QuotaRemaining    int
}

func sameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Summarize computes the stats view over a history snapshot.
func Summarize(history []storage.SessionRecord, now time.Time) StatsSummary {
	s := StatsSummary{
		SessionStreak:  SessionStreak(history, now),
		DayStreak:      DayStreak(history, now),
		QuotaRemaining: QuotaRemaining(history, now),
	}
	for _, r := range history {
		if r.Completed {
			s.TotalCompleted++
			s.TotalFocusMinutes += r.DurationMinutes
		}
		if SameDay(r.Timestamp, now) {
			if r.Completed {
				s.TodayCompleted++
				s.TodayFocusMinutes += r.DurationMinutes
			} else {
				s.TodayInterrupted++
				s.TodayFocusMinutes += r.DurationMinutes
			}
		}
		if r.Completed && sameISOWeek(r.Timestamp, now) {
			s.WeekCompleted++
		}
		if r.Completed && sameMonth(r.Timestamp, now) {
			s.MonthCompleted++
		}
	}
	return s
}

// DailyCompletedCounts returns completed-tomato counts keyed by day
// (YYYY-MM-DD) within [start, end].
func DailyCompletedCounts(history []storage.SessionRecord, start, end time.Time) map[string]int {
	counts := make(map[string]int)
	for _, r := range history {
		if r.Kind != storage.KindTomato || !r.Completed {
			continue
		}
		if r.Timestamp.Before(start) || r.Timestamp.After(end) {
			continue
		}
		counts[dayKey(r.Timestamp)]++
	}
	return counts
}
