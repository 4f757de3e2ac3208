// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package store defines the engine's boundary to the document database and
// provides the Firestore implementation plus an in-memory one for tests.
package store

import (
	"context"

	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
)

// Profiles reads and writes the user profile document. Reads return nil when
// no profile document exists yet. Writes return only after the store has
// acknowledged them, a returned nil error is the write barrier callers rely
// on before scheduling dependent reads.
type Profiles interface {
	Profile(ctx context.Context, userID string) (*fitchatdb.UserProfile, error)

	// SaveProfile overwrites the profile fields the user edits, preserving
	// engine-owned flags already on the document.
	SaveProfile(ctx context.Context, userID string, profile *fitchatdb.UserProfile) error

	SetWelcomed(ctx context.Context, userID string) error

	// SetOnboardingStep writes the step index. It is not a compare-and-swap,
	// the sequencer is the only writer during the conversational phase.
	SetOnboardingStep(ctx context.Context, userID string, step int) error

	// SetOnboarded marks the conversation done and pins the step to the
	// terminal index in a single write.
	SetOnboarded(ctx context.Context, userID string, totalSteps int) error

	// WatchProfile streams the profile document on every change until ctx is
	// done. Delivery is at-least-once, consumers must tolerate duplicates.
	WatchProfile(ctx context.Context, userID string, onChange func(*fitchatdb.UserProfile)) error
}

// Messages is the append-only conversation log. Entries are never mutated or
// deleted by the engine.
type Messages interface {
	Messages(ctx context.Context, userID string) ([]fitchatdb.ChatMessage, error)
	Append(ctx context.Context, userID string, msg fitchatdb.ChatMessage) (string, error)
}

// Plans stores generated plans.
type Plans interface {
	// CreatePlan persists a plan only if none with the same ID exists,
	// reporting whether this call created it. The at-most-once completion
	// guarantee leans on this.
	CreatePlan(ctx context.Context, userID string, plan *fitchatdb.Plan) (bool, error)

	// LatestPlan returns the most recently created plan, or nil if none.
	LatestPlan(ctx context.Context, userID string) (*fitchatdb.Plan, error)
}

// Habits stores per-day habit completion records with upsert semantics.
type Habits interface {
	SetCompletion(ctx context.Context, userID string, rec fitchatdb.HabitCompletion) error
	Completions(ctx context.Context, userID string, habitID string) ([]fitchatdb.HabitCompletion, error)
}
