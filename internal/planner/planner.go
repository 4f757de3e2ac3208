// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package planner generates meal and workout plans from a user's profile and
// onboarding answers. Generation failures never affect onboarding state, the
// caller decouples the two failure domains.
package planner

import (
	"context"

	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
)

// Generator generates a plan from the onboarding context blob and the user's
// profile. Implementations must not persist anything, persistence and its
// at-most-once guarantee belong to the caller.
type Generator interface {
	GeneratePlan(ctx context.Context, contextText string, profile *fitchatdb.UserProfile) (*fitchatdb.Plan, error)

	// CompletionMessage writes the short celebratory message shown when the
	// plan is ready. Callers fall back to a static message on error.
	CompletionMessage(ctx context.Context, profile *fitchatdb.UserProfile) (string, error)
}
