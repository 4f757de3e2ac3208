// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package trackhabit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/httpapi"
	"github.com/curioswitch/fitchat/server/internal/store"
)

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

type TrackHabitRequest struct {
	HabitID string `json:"habitId"`

	// Date in YYYY-MM-DD form. Defaults to today when empty.
	Date      string  `json:"date"`
	Completed bool    `json:"completed"`
	Value     float64 `json:"value"`
}

type TrackHabitResponse struct{}

// TrackHabit upserts the completion record for one habit on one day. Tracking
// the same day twice overwrites, so clients can toggle freely.
func (h *Handler) TrackHabit(ctx context.Context, req *TrackHabitRequest) (*TrackHabitResponse, error) {
	userID := auth.UserID(ctx)
	if userID == "" {
		return nil, httpapi.NewError(http.StatusUnauthorized, "sign in to continue", errors.New("trackhabit: no identity"))
	}
	if req.HabitID == "" {
		return nil, httpapi.NewError(http.StatusBadRequest, "habit ID is required", errors.New("trackhabit: empty habit ID"))
	}

	date := req.Date
	if date == "" {
		date = h.now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, httpapi.NewError(http.StatusBadRequest, "date must be YYYY-MM-DD", fmt.Errorf("trackhabit: parsing date: %w", err))
	}

	if err := h.habits.SetCompletion(ctx, userID, fitchatdb.HabitCompletion{
		HabitID:   req.HabitID,
		Date:      date,
		Completed: req.Completed,
		Value:     req.Value,
	}); err != nil {
		return nil, fmt.Errorf("trackhabit: saving completion: %w", err)
	}
	return &TrackHabitResponse{}, nil
}
