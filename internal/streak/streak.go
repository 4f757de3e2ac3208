// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package streak computes consecutive-completion streaks and period
// completion rates from sparse per-day completion records. All functions are
// pure and operate on calendar days, never on instants, to avoid timezone
// boundary double counting.
package streak

import (
	"math"
	"slices"
	"time"
)

// Day truncates a time to its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Streak returns the number of consecutive days ending today or yesterday on
// which a completion exists. A streak is only alive if the most recent
// completion is exactly today or yesterday: stale history and future-dated
// records both yield 0.
func Streak(completed []time.Time, today time.Time) int {
	if len(completed) == 0 {
		return 0
	}

	today = Day(today)
	seen := make(map[time.Time]bool, len(completed))
	days := make([]time.Time, 0, len(completed))
	for _, t := range completed {
		d := Day(t)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	slices.SortFunc(days, func(a, b time.Time) int { return b.Compare(a) })

	latest := days[0]
	if latest.After(today) || latest.Before(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if !days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}

// CompletionRate returns the rounded percentage of scheduled days between
// start and end (inclusive) that have a completion. Days whose weekday is not
// in scheduled do not count toward the denominator. Returns 0 when no days
// are scheduled in the window.
func CompletionRate(completed []time.Time, start time.Time, end time.Time, scheduled map[time.Weekday]bool) int {
	start = Day(start)
	end = Day(end)
	if end.Before(start) {
		return 0
	}

	done := make(map[time.Time]bool, len(completed))
	for _, t := range completed {
		done[Day(t)] = true
	}

	var total, hit int
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !scheduled[d.Weekday()] {
			continue
		}
		total++
		if done[d] {
			hit++
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(hit) / float64(total)))
}
