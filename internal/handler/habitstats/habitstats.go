// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package habitstats

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/httpapi"
	"github.com/curioswitch/fitchat/server/internal/store"
	"github.com/curioswitch/fitchat/server/internal/streak"
)

// rateWindowDays is the trailing window for the completion rate.
const rateWindowDays = 28

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func NewHandler(habits store.Habits) *Handler {
	return &Handler{
		habits: habits,
		now:    time.Now,
	}
}

type Handler struct {
	habits store.Habits
	now    func() time.Time
}

type HabitStatsRequest struct {
	HabitID string `json:"habitId"`

	// ScheduledDays restricts the completion-rate denominator to the named
	// weekdays, lowercase. Empty means every day counts.
	ScheduledDays []string `json:"scheduledDays"`
}

type HabitStatsResponse struct {
	// Streak is the number of consecutive completed days ending today or
	// yesterday.
	Streak int `json:"streak"`

	// CompletionRate is the percentage of scheduled days completed over the
	// trailing four weeks.
	CompletionRate int `json:"completionRate"`
}

func (h *Handler) HabitStats(ctx context.Context, req *HabitStatsRequest) (*HabitStatsResponse, error) {
	userID := auth.UserID(ctx)
	if userID == "" {
		return nil, httpapi.NewError(http.StatusUnauthorized, "sign in to continue", errors.New("habitstats: no identity"))
	}
	if req.HabitID == "" {
		return nil, httpapi.NewError(http.StatusBadRequest, "habit ID is required", errors.New("habitstats: empty habit ID"))
	}

	scheduled := map[time.Weekday]bool{}
	if len(req.ScheduledDays) == 0 {
		for _, d := range weekdays {
			scheduled[d] = true
		}
	} else {
		for _, name := range req.ScheduledDays {
			d, ok := weekdays[name]
			if !ok {
				return nil, httpapi.NewError(http.StatusBadRequest, "unknown weekday "+name, fmt.Errorf("habitstats: unknown weekday %q", name))
			}
			scheduled[d] = true
		}
	}

	recs, err := h.habits.Completions(ctx, userID, req.HabitID)
	if err != nil {
		return nil, fmt.Errorf("habitstats: fetching completions: %w", err)
	}

	var completed []time.Time
	for _, rec := range recs {
		if !rec.Completed {
			continue
		}
		day, err := time.Parse(time.DateOnly, rec.Date)
		if err != nil {
			// A malformed record should not hide the rest of the history.
			continue
		}
		completed = append(completed, day)
	}

	// Completion days are stored as dates, compare in UTC throughout.
	today := streak.Day(h.now().UTC())
	return &HabitStatsResponse{
		Streak:         streak.Streak(completed, today),
		CompletionRate: streak.CompletionRate(completed, today.AddDate(0, 0, -(rateWindowDays-1)), today, scheduled),
	}, nil
}
