// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2026, time.March, 14, 18, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

func TestStreak(t *testing.T) {
	tests := []struct {
		name      string
		completed []time.Time
		want      int
	}{
		{"empty", nil, 0},
		{"today only", []time.Time{daysAgo(0)}, 1},
		{"three consecutive days", []time.Time{daysAgo(0), daysAgo(1), daysAgo(2)}, 3},
		{"gap breaks streak", []time.Time{daysAgo(0), daysAgo(3)}, 1},
		{"most recent yesterday", []time.Time{daysAgo(1), daysAgo(2)}, 2},
		{"stale streak", []time.Time{daysAgo(2), daysAgo(3)}, 0},
		{"future-dated completion kills streak", []time.Time{daysAgo(-1), daysAgo(0)}, 0},
		{"all future", []time.Time{daysAgo(-2), daysAgo(-1)}, 0},
		{"unsorted input", []time.Time{daysAgo(2), daysAgo(0), daysAgo(1)}, 3},
		{"duplicate days count once", []time.Time{daysAgo(0), daysAgo(0).Add(2 * time.Hour), daysAgo(1)}, 2},
		{"time of day ignored", []time.Time{daysAgo(0).Add(5 * time.Hour), daysAgo(1).Add(-3 * time.Hour)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Streak(tt.completed, today))
		})
	}
}

func TestCompletionRate(t *testing.T) {
	everyDay := map[time.Weekday]bool{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		everyDay[d] = true
	}

	week := []time.Time{daysAgo(0), daysAgo(1), daysAgo(2), daysAgo(3), daysAgo(4)}

	tests := []struct {
		name      string
		completed []time.Time
		start     time.Time
		end       time.Time
		scheduled map[time.Weekday]bool
		want      int
	}{
		{"five of seven", week, daysAgo(6), daysAgo(0), everyDay, 71},
		{"all done", week, daysAgo(4), daysAgo(0), everyDay, 100},
		{"none done", nil, daysAgo(6), daysAgo(0), everyDay, 0},
		{"no scheduled days", week, daysAgo(6), daysAgo(0), map[time.Weekday]bool{}, 0},
		{"inverted window", week, daysAgo(0), daysAgo(6), everyDay, 0},
		{
			"only scheduled weekdays count",
			[]time.Time{daysAgo(0)}, // 2026-03-14 is a Saturday.
			daysAgo(6), daysAgo(0),
			map[time.Weekday]bool{time.Saturday: true},
			100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompletionRate(tt.completed, tt.start, tt.end, tt.scheduled))
		})
	}
}
