// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package fitchatdb

import "time"

// UserProfile is the profile document for a user, stored at users/{uid}.
// It is the single record driving session derivation: the welcome screen,
// profile completion, and onboarding progression all read and write it.
type UserProfile struct {
	// DisplayName is the name the user wants to be called.
	DisplayName string `firestore:"displayName" json:"displayName"`

	// Age is the user's age in years.
	Age int `firestore:"age" json:"age"`

	// Gender is the user's self-described gender as free-form text.
	Gender string `firestore:"gender" json:"gender"`

	// HeightCm is the user's height in centimeters.
	HeightCm float64 `firestore:"heightCm" json:"heightCm"`

	// WeightKg is the user's weight in kilograms.
	WeightKg float64 `firestore:"weightKg" json:"weightKg"`

	// Goals is the user's fitness goals as free-form text.
	Goals string `firestore:"goals" json:"goals"`

	// ActivityPreference is the kind of activity the user prefers, e.g. gym, home, outdoors.
	ActivityPreference string `firestore:"activityPreference" json:"activityPreference"`

	// DaysPerWeek is how many days per week the user wants to train.
	DaysPerWeek int `firestore:"daysPerWeek" json:"daysPerWeek"`

	// Injuries is any injuries or conditions, or the literal string "none".
	Injuries string `firestore:"injuries" json:"injuries"`

	// FoodDislikes is foods the user dislikes or avoids, or the literal string "none".
	FoodDislikes string `firestore:"foodDislikes" json:"foodDislikes"`

	// AvatarURL is the URL of the user's avatar image, if uploaded.
	AvatarURL string `firestore:"avatarUrl" json:"avatarUrl"`

	// Welcomed is whether the user has dismissed the one-time welcome screen.
	Welcomed bool `firestore:"welcomed" json:"welcomed"`

	// ProfileCompleted is whether the user explicitly finished the profile form.
	// Field presence alone never marks a profile complete, a partially migrated
	// record must not be treated as finished.
	ProfileCompleted bool `firestore:"profileCompleted" json:"profileCompleted"`

	// OnboardingStep is the index of the next onboarding question to send.
	OnboardingStep int `firestore:"onboardingStep" json:"onboardingStep"`

	// Onboarded is whether the onboarding conversation reached its terminal step.
	// It marks the conversation done, not the plan ready.
	Onboarded bool `firestore:"onboarded" json:"onboarded"`

	// CreatedAt is the timestamp when the profile was created.
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`

	// UpdatedAt is the timestamp when the profile was last updated.
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
