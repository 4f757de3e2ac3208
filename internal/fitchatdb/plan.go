// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package fitchatdb

import "time"

// Meal is a single meal within a day of the plan.
type Meal struct {
	// Name is the name of the meal, e.g. breakfast, lunch, dinner.
	Name string `firestore:"name" json:"name"`

	// Description is what to prepare and eat.
	Description string `firestore:"description" json:"description"`
}

// Exercise is a single exercise within a workout.
type Exercise struct {
	// Name is the name of the exercise.
	Name string `firestore:"name" json:"name"`

	// Sets is the number of sets.
	Sets int `firestore:"sets" json:"sets"`

	// Reps is the repetitions per set, as free-form text to allow ranges or durations.
	Reps string `firestore:"reps" json:"reps"`

	// Notes is any guidance for performing the exercise.
	Notes string `firestore:"notes" json:"notes"`
}

// PlanDay is the meals and workout for a single day of the plan.
type PlanDay struct {
	// Label is a short label for the day, e.g. "Day 1".
	Label string `firestore:"label" json:"label"`

	// Meals is the meals for the day.
	Meals []Meal `firestore:"meals" json:"meals"`

	// Exercises is the workout for the day. Empty on rest days.
	Exercises []Exercise `firestore:"exercises" json:"exercises"`
}

// Plan is the generated meal and workout plan for a user. A user has at most
// one plan per onboarding run, stored in the plans collection under a fixed
// per-run ID so duplicate generation triggers collide instead of duplicating.
type Plan struct {
	// ID is the unique identifier for the plan.
	ID string `firestore:"id" json:"id"`

	// Days is the days of the plan.
	Days []PlanDay `firestore:"days" json:"days"`

	// Notes is any overall guidance for following the plan.
	Notes []string `firestore:"notes" json:"notes"`

	// CreatedAt is the timestamp when the plan was generated.
	CreatedAt time.Time `firestore:"createdAt" json:"-"`
}
