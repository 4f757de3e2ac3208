// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package fitchatdb

import "time"

type ChatRole string

const (
	// ChatRoleUser represents a user message.
	ChatRoleUser ChatRole = "user"
	// ChatRoleAssistant represents an assistant message.
	ChatRoleAssistant ChatRole = "assistant"
	// ChatRoleSystem represents a system message such as the plan celebration.
	ChatRoleSystem ChatRole = "system"
	// ChatRoleEvent represents a non-conversational event marker.
	ChatRoleEvent ChatRole = "event"
)

// OnboardingMeta tags a message as belonging to an onboarding step. Question
// emission dedupes against it, so the step must be stable once written.
type OnboardingMeta struct {
	// Step is the onboarding step the message belongs to.
	Step int `firestore:"step" json:"step"`

	// AnswerRequired is whether the step waits for a user answer before advancing.
	AnswerRequired bool `firestore:"answerRequired" json:"answerRequired"`
}

// ErrorMeta tags a message describing a failure surfaced to the user.
type ErrorMeta struct {
	// Code is a stable machine-readable error code.
	Code string `firestore:"code" json:"code"`
}

// MessageMeta is the metadata attached to a chat message. At most one of the
// variant fields is set.
type MessageMeta struct {
	Onboarding *OnboardingMeta `firestore:"onboarding,omitempty" json:"onboarding,omitempty"`
	Error      *ErrorMeta      `firestore:"error,omitempty" json:"error,omitempty"`
}

// ChatMessage is a message in the coaching conversation, stored in the
// messages collection for a user. Messages are append-only and never mutated.
type ChatMessage struct {
	// ID is the unique identifier for the message.
	ID string `firestore:"id" json:"id"`

	// Role is the role of the message sender.
	Role ChatRole `firestore:"role" json:"role"`

	// Content is the text content of the message.
	Content string `firestore:"content" json:"content"`

	// Meta is the metadata for the message.
	Meta MessageMeta `firestore:"meta" json:"meta"`

	// CreatedAt is the timestamp when the message was created.
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
