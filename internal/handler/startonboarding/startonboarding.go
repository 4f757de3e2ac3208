// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package startonboarding

import (
	"context"
	"errors"
	"net/http"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/httpapi"
	"github.com/curioswitch/fitchat/server/internal/onboarding"
)

func NewHandler(manager *onboarding.Manager) *Handler {
	return &Handler{
		manager: manager,
	}
}

type Handler struct {
	manager *onboarding.Manager
}

type StartOnboardingRequest struct{}

type StartOnboardingResponse struct{}

// StartOnboarding spins up the user's onboarding pipeline session when the
// coaching chat is opened. Starting twice is a no-op, the first profile event
// from the store seeds the conversation.
func (h *Handler) StartOnboarding(ctx context.Context, _ *StartOnboardingRequest) (*StartOnboardingResponse, error) {
	userID := auth.UserID(ctx)
	if userID == "" {
		return nil, httpapi.NewError(http.StatusUnauthorized, "sign in to continue", errors.New("startonboarding: no identity"))
	}

	h.manager.Start(ctx, userID)
	return &StartOnboardingResponse{}, nil
}
