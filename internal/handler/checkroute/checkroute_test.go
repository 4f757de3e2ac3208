// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package checkroute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/gate"
	"github.com/curioswitch/fitchat/server/internal/store"
)

const testUser = "user-1"

func TestCheckRoute(t *testing.T) {
	mem := store.NewMemory()
	h := NewHandler(mem)
	anon := t.Context()
	authed := auth.WithUserID(anon, testUser)

	// Signed out, protected route.
	res, err := h.CheckRoute(anon, &CheckRouteRequest{Route: "chat"})
	require.NoError(t, err)
	assert.Equal(t, gate.ActionRedirect, res.Decision.Action)
	assert.Equal(t, gate.RouteSignIn, res.Decision.Target)

	// Signed in with no profile document yet.
	res, err = h.CheckRoute(authed, &CheckRouteRequest{Route: "chat"})
	require.NoError(t, err)
	assert.Equal(t, gate.RouteWelcome, res.Decision.Target)
	assert.True(t, res.State.Authenticated)

	// Fully set up sessions reach the chat and bounce off sign-in.
	require.NoError(t, mem.SaveProfile(authed, testUser, completeProfile()))
	require.NoError(t, mem.SetWelcomed(authed, testUser))

	res, err = h.CheckRoute(authed, &CheckRouteRequest{Route: "chat"})
	require.NoError(t, err)
	assert.Equal(t, gate.ActionAllow, res.Decision.Action)

	res, err = h.CheckRoute(authed, &CheckRouteRequest{Route: "sign-in"})
	require.NoError(t, err)
	assert.Equal(t, gate.RouteHome, res.Decision.Target)
}

func completeProfile() *fitchatdb.UserProfile {
	return &fitchatdb.UserProfile{
		DisplayName:        "Aki",
		Age:                31,
		Gender:             "female",
		HeightCm:           165,
		WeightKg:           58,
		Goals:              "run a 10k",
		ActivityPreference: "outdoors",
		DaysPerWeek:        4,
		Injuries:           "none",
		FoodDislikes:       "cilantro",
		ProfileCompleted:   true,
	}
}
