// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package habitstats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/store"
)

const testUser = "user-1"

// 2026-03-14 is a Saturday.
var testToday = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) (*Handler, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	h := NewHandler(mem)
	h.now = func() time.Time { return testToday }
	return h, mem
}

func track(t *testing.T, mem *store.Memory, daysAgo int, completed bool) {
	t.Helper()
	require.NoError(t, mem.SetCompletion(t.Context(), testUser, fitchatdb.HabitCompletion{
		HabitID:   "workout",
		Date:      testToday.AddDate(0, 0, -daysAgo).Format(time.DateOnly),
		Completed: completed,
	}))
}

func TestHabitStats(t *testing.T) {
	h, mem := newTestHandler(t)
	ctx := auth.WithUserID(t.Context(), testUser)

	for _, daysAgo := range []int{0, 1, 2} {
		track(t, mem, daysAgo, true)
	}
	// A gap four days back and an explicit miss.
	track(t, mem, 4, true)
	track(t, mem, 5, false)

	res, err := h.HabitStats(ctx, &HabitStatsRequest{HabitID: "workout"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Streak)
	// 4 completed days over a 28-day window.
	assert.Equal(t, 14, res.CompletionRate)
}

func TestHabitStats_ScheduledDaysOnly(t *testing.T) {
	h, mem := newTestHandler(t)
	ctx := auth.WithUserID(t.Context(), testUser)

	// Completions on the last two Saturdays.
	track(t, mem, 0, true)
	track(t, mem, 7, true)

	res, err := h.HabitStats(ctx, &HabitStatsRequest{
		HabitID:       "workout",
		ScheduledDays: []string{"saturday"},
	})
	require.NoError(t, err)
	// 2 of the 4 Saturdays in the window.
	assert.Equal(t, 50, res.CompletionRate)
}

func TestHabitStats_EmptyHistory(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := auth.WithUserID(t.Context(), testUser)

	res, err := h.HabitStats(ctx, &HabitStatsRequest{HabitID: "workout"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Streak)
	assert.Equal(t, 0, res.CompletionRate)
}

func TestHabitStats_UnknownWeekday(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := auth.WithUserID(t.Context(), testUser)

	_, err := h.HabitStats(ctx, &HabitStatsRequest{
		HabitID:       "workout",
		ScheduledDays: []string{"caturday"},
	})
	require.Error(t, err)
}
