// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/curioswitch/fitchat/server/internal/session"
)

var allRoutes = []Route{
	RouteSignIn, RouteSignUp, RouteLanding, RouteWelcome, RouteProfile,
	RouteChat, RouteHabits, RouteProgress, RoutePlan, RouteSettings,
}

func reachableStates() []session.State {
	states := []session.State{{}}
	for _, welcomed := range []bool{false, true} {
		for _, complete := range []bool{false, true} {
			for _, onboarded := range []bool{false, true} {
				states = append(states, session.State{
					Authenticated:   true,
					Welcomed:        welcomed,
					ProfileComplete: complete,
					Onboarded:       onboarded,
				})
			}
		}
	}
	return states
}

func TestDecide(t *testing.T) {
	anon := session.State{}
	fresh := session.State{Authenticated: true}
	welcomed := session.State{Authenticated: true, Welcomed: true}
	ready := session.State{Authenticated: true, Welcomed: true, ProfileComplete: true}

	tests := []struct {
		name  string
		state session.State
		route Route
		want  Decision
	}{
		{"anonymous on public landing", anon, RouteLanding, Decision{Action: ActionAllow}},
		{"anonymous on sign-in", anon, RouteSignIn, Decision{Action: ActionAllow}},
		{"anonymous on chat", anon, RouteChat, Decision{Action: ActionRedirect, Target: RouteSignIn, Reason: "sign in to continue"}},
		{"fresh user on chat", fresh, RouteChat, Decision{Action: ActionRedirect, Target: RouteWelcome, Reason: "finish the welcome tour first"}},
		{"fresh user on welcome", fresh, RouteWelcome, Decision{Action: ActionAllow}},
		{"fresh user on profile", fresh, RouteProfile, Decision{Action: ActionAllow}},
		{"welcomed incomplete on chat", welcomed, RouteChat, Decision{Action: ActionRedirect, Target: RouteProfile, Reason: "complete your profile first"}},
		{"welcomed incomplete on profile", welcomed, RouteProfile, Decision{Action: ActionAllow}},
		{"welcomed incomplete on welcome", welcomed, RouteWelcome, Decision{Action: ActionAllow}},
		{"ready on sign-in", ready, RouteSignIn, Decision{Action: ActionRedirect, Target: RouteHome, Reason: "already signed in"}},
		{"ready on sign-up", ready, RouteSignUp, Decision{Action: ActionRedirect, Target: RouteHome, Reason: "already signed in"}},
		{"ready on chat", ready, RouteChat, Decision{Action: ActionAllow}},
		{"ready on settings", ready, RouteSettings, Decision{Action: ActionAllow}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.state, tt.route))
		})
	}
}

// Deciding twice for the same inputs yields the same decision, and applying a
// redirect always lands on an allowed route: no chains longer than one hop.
func TestDecide_IdempotentAndSingleHop(t *testing.T) {
	for _, state := range reachableStates() {
		for _, route := range allRoutes {
			first := Decide(state, route)
			assert.Equal(t, first, Decide(state, route))
			if first.Action == ActionRedirect {
				assert.NotEqual(t, route, first.Target)
				next := Decide(state, first.Target)
				assert.Equal(t, ActionAllow, next.Action,
					"state %+v route %s redirected to %s which redirects again", state, route, first.Target)
			}
		}
	}
}

// The end-to-end progression of a fresh user reaching the chat screen.
func TestDecide_SetupProgression(t *testing.T) {
	state := session.State{Authenticated: true}
	d := Decide(state, RouteChat)
	assert.Equal(t, redirect(RouteWelcome, "finish the welcome tour first"), d)

	state.Welcomed = true
	d = Decide(state, RouteChat)
	assert.Equal(t, redirect(RouteProfile, "complete your profile first"), d)

	state.ProfileComplete = true
	assert.Equal(t, allow(), Decide(state, RouteChat))
}

func TestRedirector(t *testing.T) {
	var navigations []Route
	r := NewRedirector(func(target Route, _ string) {
		navigations = append(navigations, target)
	})

	d := redirect(RouteWelcome, "finish the welcome tour first")
	assert.True(t, r.Apply(RouteChat, d))
	// Same redirect while already navigating is a no-op.
	assert.False(t, r.Apply(RouteChat, d))
	// Redirect targeting the current route is a no-op, no loops.
	assert.False(t, r.Apply(RouteWelcome, redirect(RouteWelcome, "finish the welcome tour first")))

	// Allow clears in-flight state so a later redirect fires again.
	assert.False(t, r.Apply(RouteWelcome, allow()))
	assert.True(t, r.Apply(RouteChat, redirect(RouteWelcome, "finish the welcome tour first")))

	assert.Equal(t, []Route{RouteWelcome, RouteWelcome}, navigations)
}
