// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package checkroute

import (
	"context"
	"fmt"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/gate"
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

type CheckRouteRequest struct {
	Route string `json:"route"`
}

type CheckRouteResponse struct {
	Decision gate.Decision `json:"decision"`
	State    session.State `json:"state"`
}

// CheckRoute evaluates the gating policy for the route the client wants to
// show. Unauthenticated requests are evaluated against the signed-out state
// rather than rejected, the gate's first rule handles them.
func (h *Handler) CheckRoute(ctx context.Context, req *CheckRouteRequest) (*CheckRouteResponse, error) {
	userID := auth.UserID(ctx)

	var state session.State
	if userID != "" {
		profile, err := h.profiles.Profile(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("checkroute: fetching profile: %w", err)
		}
		state = session.Derive(profile, true)
	}

	return &CheckRouteResponse{
		Decision: gate.Decide(state, gate.Route(req.Route)),
		State:    state,
	}, nil
}
