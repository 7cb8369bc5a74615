package engine

import (
	"sort"
	"time"

	"pomofriends/internal/storage"
)

const dayKeyFormat = "2006-01-02"

// SameDay reports whether two instants fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dayKey(t time.Time) string {
	return t.Format(dayKeyFormat)
}

// CompletedTomatoesOn counts completed tomato records on the given day.
func CompletedTomatoesOn(history []storage.SessionRecord, day time.Time) int {
	n := 0
	for _, r := range history {
		if r.Kind == storage.KindTomato && r.Completed && SameDay(r.Timestamp, day) {
			n++
		}
	}
	return n
}

// QuotaRemaining returns how many completed sessions may still be
// credited today.
func QuotaRemaining(history []storage.SessionRecord, now time.Time) int {
	left := DailyLimit - CompletedTomatoesOn(history, now)
	if left < 0 {
		return 0
	}
	return left
}

// SessionStreak returns the longest unbroken run of completed tomato
// records within the reference day. Interrupted records reset the run;
// the maximum reached counts, not the run at end of day.
func SessionStreak(history []storage.SessionRecord, ref time.Time) int {
	var days []storage.SessionRecord
	for _, r := range history {
		if r.Kind == storage.KindTomato && SameDay(r.Timestamp, ref) {
			days = append(days, r)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Timestamp.Before(days[j].Timestamp) })

	maxStreak, cur := 0, 0
	for _, r := range days {
		if r.Completed {
			cur++
			if cur > maxStreak {
				maxStreak = cur
			}
		} else {
			cur = 0
		}
	}
	return maxStreak
}

// DayStreak returns the count of consecutive calendar days, walking back
// from now, each having at least one completed tomato. A still-empty
// today does not break the streak; the walk skips it and continues from
// yesterday.
func DayStreak(history []storage.SessionRecord, now time.Time) int {
	if len(history) == 0 {
		return 0
	}

	completedDays := make(map[string]bool)
	for _, r := range history {
		if r.Kind == storage.KindTomato && r.Completed {
			completedDays[dayKey(r.Timestamp)] = true
		}
	}

	streak := 0
	check := now
	for {
		if completedDays[dayKey(check)] {
			streak++
			check = check.AddDate(0, 0, -1)
			continue
		}
		if SameDay(check, now) {
			check = check.AddDate(0, 0, -1)
			continue
		}
		break
	}
	return streak
}
