// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package fitchatdb

import "time"

// HabitCompletion records completion of a habit on a calendar day. There is
// one logical record per habit and day, stored in the completions collection
// for a habit with the ID YYYY-mm-dd, so repeated writes upsert rather than
// append.
type HabitCompletion struct {
	// HabitID is the habit the completion belongs to.
	HabitID string `firestore:"habitId"`

	// Date is the calendar day of the completion in YYYY-mm-dd form. There is
	// deliberately no time-of-day component.
	Date string `firestore:"date"`

	// Completed is whether the habit was done on the day.
	Completed bool `firestore:"completed"`

	// Value is an optional measured value, e.g. glasses of water.
	Value float64 `firestore:"value,omitempty"`

	// CreatedAt is the timestamp when the record was first written.
	CreatedAt time.Time `firestore:"createdAt"`
}
