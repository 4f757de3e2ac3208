// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package answer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/httpapi"
	"github.com/curioswitch/fitchat/server/internal/onboarding"
	"github.com/curioswitch/fitchat/server/internal/store"
)

func NewHandler(profiles store.Profiles, messages store.Messages, seq *onboarding.Sequencer) *Handler {
	return &Handler{
		profiles: profiles,
		messages: messages,
		seq:      seq,
	}
}

type Handler struct {
	profiles store.Profiles
	messages store.Messages
	seq      *onboarding.Sequencer
}

type AnswerRequest struct {
	Text string `json:"text"`
}

type AnswerResponse struct {
	// Advanced reports whether the answer moved onboarding forward.
	Advanced bool `json:"advanced"`
	Step     int  `json:"step"`
}

// Answer records the user's chat message during onboarding. The text is
// persisted tagged with the current step regardless of whether the step waits
// for an answer, only answer-requiring steps advance the sequence.
func (h *Handler) Answer(ctx context.Context, req *AnswerRequest) (*AnswerResponse, error) {
	userID := auth.UserID(ctx)
	if userID == "" {
		return nil, httpapi.NewError(http.StatusUnauthorized, "sign in to continue", errors.New("answer: no identity"))
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, httpapi.NewError(http.StatusBadRequest, "message text is required", errors.New("answer: empty text"))
	}

	profile, err := h.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("answer: fetching profile: %w", err)
	}
	if profile == nil || profile.Onboarded {
		return nil, httpapi.NewError(http.StatusConflict, "onboarding is not in progress", errors.New("answer: no active onboarding"))
	}
	step := profile.OnboardingStep

	if _, err := h.messages.Append(ctx, userID, fitchatdb.ChatMessage{
		Role:    fitchatdb.ChatRoleUser,
		Content: text,
		Meta: fitchatdb.MessageMeta{
			Onboarding: &fitchatdb.OnboardingMeta{Step: step},
		},
	}); err != nil {
		return nil, fmt.Errorf("answer: appending message: %w", err)
	}

	if !h.seq.RequiresAnswer(step) {
		return &AnswerResponse{Advanced: false, Step: step}, nil
	}

	if err := h.seq.ProgressStep(ctx, userID, step); err != nil {
		return nil, fmt.Errorf("answer: progressing step: %w", err)
	}
	return &AnswerResponse{Advanced: true, Step: step + 1}, nil
}
