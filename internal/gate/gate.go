// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package gate decides which screen a session may reach. The gate itself has
// no side effects, the navigation collaborator applies decisions.
package gate

import "github.com/curioswitch/fitchat/server/internal/session"

// Route identifies a client screen.
type Route string

const (
	RouteSignIn   Route = "sign-in"
	RouteSignUp   Route = "sign-up"
	RouteLanding  Route = "landing"
	RouteWelcome  Route = "welcome"
	RouteProfile  Route = "profile"
	RouteChat     Route = "chat"
	RouteHabits   Route = "habits"
	RouteProgress Route = "progress"
	RoutePlan     Route = "plan"
	RouteSettings Route = "settings"
)

// RouteHome is the default route for a fully set up session.
const RouteHome = RouteChat

// publicRoutes are reachable without an identity.
var publicRoutes = map[Route]bool{
	RouteSignIn:  true,
	RouteSignUp:  true,
	RouteLanding: true,
}

// authRoutes only make sense without a fully set up session.
var authRoutes = map[Route]bool{
	RouteSignIn: true,
	RouteSignUp: true,
}

type Action string

const (
	ActionAllow    Action = "allow"
	ActionRedirect Action = "redirect"
)

// Decision is the outcome of evaluating a route against a session state.
type Decision struct {
	Action Action `json:"action"`

	// Target is the route to redirect to. Empty when allowed.
	Target Route `json:"target,omitempty"`

	// Reason is a stable explanation for the redirect, for logging and the
	// optional confirmation prompt. Never a raw error.
	Reason string `json:"reason,omitempty"`
}

func allow() Decision {
	return Decision{Action: ActionAllow}
}

func redirect(target Route, reason string) Decision {
	return Decision{Action: ActionRedirect, Target: target, Reason: reason}
}

// Decide evaluates the gating policy for a route. Rules are evaluated in
// fixed priority order and the first match wins, the ordering is part of the
// contract.
func Decide(state session.State, current Route) Decision {
	switch {
	case !state.Authenticated && !publicRoutes[current]:
		return redirect(RouteSignIn, "sign in to continue")
	case state.Authenticated && !state.Welcomed && current != RouteWelcome && current != RouteProfile:
		return redirect(RouteWelcome, "finish the welcome tour first")
	case state.Authenticated && state.Welcomed && !state.ProfileComplete && current != RouteProfile && current != RouteWelcome:
		return redirect(RouteProfile, "complete your profile first")
	case state.Authenticated && state.Welcomed && state.ProfileComplete && authRoutes[current]:
		return redirect(RouteHome, "already signed in")
	default:
		return allow()
	}
}

// Redirector applies gate decisions for a single client session, suppressing
// re-entrant redirects: a redirect to a route already being navigated to is a
// no-op.
type Redirector struct {
	navigate func(Route, string)

	inFlight Route
}

// NewRedirector returns a Redirector calling navigate for each applied
// redirect. The navigate callback performs the actual screen transition and,
// if configured, the confirmation prompt.
func NewRedirector(navigate func(target Route, reason string)) *Redirector {
	return &Redirector{navigate: navigate}
}

// Apply acts on a decision for the current route, returning whether a
// navigation was issued. Allow clears any in-flight redirect so a later
// redirect to the same route fires again.
func (r *Redirector) Apply(current Route, d Decision) bool {
	if d.Action != ActionRedirect {
		r.inFlight = ""
		return false
	}
	if d.Target == r.inFlight || d.Target == current {
		return false
	}
	r.inFlight = d.Target
	r.navigate(d.Target, d.Reason)
	return true
}
