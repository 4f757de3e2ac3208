// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package onboarding

// Question is one entry of the scripted onboarding table. The table is
// ordered by Step, contiguous from 0, and immutable at runtime.
type Question struct {
	// Step is the index of the question in the sequence.
	Step int

	// Prompt is the assistant message sent for the step.
	Prompt string

	// ShortLabel tags the user's answer when assembling the plan context.
	ShortLabel string

	// AnswerRequired is whether the sequence waits for a user answer before
	// advancing. Informational steps advance on their own.
	AnswerRequired bool
}

// DefaultQuestions is the production onboarding script.
func DefaultQuestions() []Question {
	return []Question{
		{
			Step:           0,
			Prompt:         "Hi! I'm your FitChat coach. Before I put your plan together, tell me: what do you most want to get out of training? Be as specific as you like.",
			ShortLabel:     "goals",
			AnswerRequired: true,
		},
		{
			Step:           1,
			Prompt:         "Got it. What does a typical week of activity look like for you right now, and where do you prefer to train: at home, in a gym, or outdoors?",
			ShortLabel:     "activity",
			AnswerRequired: true,
		},
		{
			Step:           2,
			Prompt:         "Any injuries, aches, or conditions I should work around? If nothing, just say none.",
			ShortLabel:     "injuries",
			AnswerRequired: true,
		},
		{
			Step:           3,
			Prompt:         "Last one: any foods you dislike or avoid? I'll keep them out of your meals. If nothing, just say none.",
			ShortLabel:     "food dislikes",
			AnswerRequired: true,
		},
		{
			Step:           4,
			Prompt:         "Perfect, that's everything I need. Give me a moment to put your personalized plan together!",
			ShortLabel:     "closing",
			AnswerRequired: false,
		},
	}
}
