// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package getprofile

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
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

type GetProfileRequest struct{}

type GetProfileResponse struct {
	// Profile is nil for a signed-up user that has not saved one yet.
	Profile *fitchatdb.UserProfile `json:"profile"`
	State   session.State          `json:"state"`
}

func (h *Handler) GetProfile(ctx context.Context, _ *GetProfileRequest) (*GetProfileResponse, error) {
	userID := auth.UserID(ctx)
	if userID == "" {
		return nil, httpapi.NewError(http.StatusUnauthorized, "sign in to continue", errors.New("getprofile: no identity"))
	}

	profile, err := h.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getprofile: fetching profile: %w", err)
	}

	return &GetProfileResponse{
		Profile: profile,
		State:   session.Derive(profile, true),
	}, nil
}
