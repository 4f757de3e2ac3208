// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package session derives the access-relevant view of a user from their raw
// profile document. Derivation is pure and cheap, callers re-run it on every
// profile change notification.
package session

import "github.com/curioswitch/fitchat/server/internal/fitchatdb"

// State is an immutable snapshot of the flags gating and onboarding depend on.
type State struct {
	// Authenticated is whether an identity is present.
	Authenticated bool `json:"authenticated"`

	// Welcomed is whether the user dismissed the one-time welcome screen.
	Welcomed bool `json:"welcomed"`

	// ProfileComplete is whether all required profile fields are present and
	// the user explicitly finished the profile form.
	ProfileComplete bool `json:"profileComplete"`

	// OnboardingStep is the index of the next onboarding question to send.
	OnboardingStep int `json:"onboardingStep"`

	// Onboarded is whether the onboarding conversation reached its terminal step.
	Onboarded bool `json:"onboarded"`
}

// Derive computes the State for a profile. A nil profile means the identity
// exists but no profile document has been written yet. Missing information
// always derives to the more restrictive value, never to complete.
func Derive(profile *fitchatdb.UserProfile, hasIdentity bool) State {
	if !hasIdentity {
		return State{}
	}
	if profile == nil {
		return State{Authenticated: true}
	}
	// A corrupted document must derive to the most restrictive valid state,
	// the step index is never negative.
	step := max(profile.OnboardingStep, 0)
	return State{
		Authenticated:   true,
		Welcomed:        profile.Welcomed,
		ProfileComplete: RequiredFieldsPresent(profile) && profile.ProfileCompleted,
		OnboardingStep:  step,
		Onboarded:       profile.Onboarded,
	}
}

// RequiredFieldsPresent reports whether every profile field required for plan
// generation is filled in. Injuries and food dislikes may be the literal
// string "none" but must not be empty.
func RequiredFieldsPresent(p *fitchatdb.UserProfile) bool {
	return p.DisplayName != "" &&
		p.Age > 0 &&
		p.Gender != "" &&
		p.HeightCm > 0 &&
		p.WeightKg > 0 &&
		p.Goals != "" &&
		p.ActivityPreference != "" &&
		p.DaysPerWeek > 0 &&
		p.Injuries != "" &&
		p.FoodDislikes != ""
}
