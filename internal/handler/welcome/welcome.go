// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package welcome

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/httpapi"
	"github.com/curioswitch/fitchat/server/internal/session"
	"github.com/curioswitch/fitchat/server/internal/store"
)

func NewHandler(profiles store.Profiles) *Handler {
	return &Handler{
		profiles: profiles,
	}
}

type Handler struct {
	profiles store.Profiles
}

type DismissWelcomeRequest struct{}

type DismissWelcomeResponse struct {
	State session.State `json:"state"`
}

// DismissWelcome marks the welcome tour seen. Dismissing it again is a no-op.
func (h *Handler) DismissWelcome(ctx context.Context, _ *DismissWelcomeRequest) (*DismissWelcomeResponse, error) {
	userID := auth.UserID(ctx)
	if userID == "" {
		return nil, httpapi.NewError(http.StatusUnauthorized, "sign in to continue", errors.New("welcome: no identity"))
	}

	if err := h.profiles.SetWelcomed(ctx, userID); err != nil {
		return nil, fmt.Errorf("welcome: marking welcomed: %w", err)
	}

	profile, err := h.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("welcome: fetching profile: %w", err)
	}
	return &DismissWelcomeResponse{State: session.Derive(profile, true)}, nil
}
