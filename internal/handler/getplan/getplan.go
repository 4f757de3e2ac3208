// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package getplan

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/httpapi"
	"github.com/curioswitch/fitchat/server/internal/store"
)

func NewHandler(plans store.Plans) *Handler {
	return &Handler{
		plans: plans,
	}
}

type Handler struct {
	plans store.Plans
}

type GetPlanRequest struct{}

type GetPlanResponse struct {
	Plan *fitchatdb.Plan `json:"plan"`
}

func (h *Handler) GetPlan(ctx context.Context, _ *GetPlanRequest) (*GetPlanResponse, error) {
	userID := auth.UserID(ctx)
	if userID == "" {
		return nil, httpapi.NewError(http.StatusUnauthorized, "sign in to continue", errors.New("getplan: no identity"))
	}

	plan, err := h.plans.LatestPlan(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getplan: fetching plan: %w", err)
	}
	if plan == nil {
		return nil, httpapi.NewError(http.StatusNotFound, "no plan yet", errors.New("getplan: no plan"))
	}
	return &GetPlanResponse{Plan: plan}, nil
}
