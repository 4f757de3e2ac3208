// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package onboarding

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/session"
	"github.com/curioswitch/fitchat/server/internal/store"
)

// Session consumes profile-changed events for one user through a single
// ordered queue and drives the sequencer from them. It is created when the
// user opens the coaching chat and discarded when they leave, there is no
// process-global state. Events are delivered at least once, every step the
// session takes is idempotent.
type Session struct {
	userID   string
	profiles store.Profiles
	seq      *Sequencer

	events chan *fitchatdb.UserProfile

	// seeded and lastStep live for the session only: they suppress repeat
	// store reads for events that did not move the step, the message log
	// remains the source of truth for duplicate question suppression.
	seeded   bool
	lastStep int
}

// NewSession returns a Session for a user.
func NewSession(userID string, profiles store.Profiles, seq *Sequencer) *Session {
	return &Session{
		userID:   userID,
		profiles: profiles,
		seq:      seq,
		events:   make(chan *fitchatdb.UserProfile, 16),
	}
}

// Notify enqueues a profile-changed event. Tests drive the pipeline with it
// directly, production wires it to the store watch.
func (s *Session) Notify(profile *fitchatdb.UserProfile) {
	s.events <- profile
}

// Run pumps profile changes from the store into the event queue and consumes
// it until ctx is done. Event handling failures are logged and the queue
// keeps draining, the next change re-derives and retries naturally.
func (s *Session) Run(ctx context.Context) error {
	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return s.profiles.WatchProfile(ctx, s.userID, s.Notify)
	})
	grp.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case profile := <-s.events:
				if err := s.handle(ctx, profile); err != nil {
					slog.ErrorContext(ctx, "onboarding: handling profile change", "error", err, "user", s.userID)
				}
			}
		}
	})
	return grp.Wait()
}

// handle re-derives session state for one event and nudges the sequencer.
// Pure derivation plus idempotent emission makes duplicate delivery safe.
func (s *Session) handle(ctx context.Context, profile *fitchatdb.UserProfile) error {
	state := session.Derive(profile, true)
	if !state.Welcomed || !state.ProfileComplete || state.Onboarded {
		return nil
	}
	if s.seeded && state.OnboardingStep == s.lastStep {
		return nil
	}
	if err := s.seq.SendNextQuestion(ctx, s.userID, state.OnboardingStep); err != nil {
		return err
	}
	s.seeded = true
	s.lastStep = state.OnboardingStep
	return nil
}

// Manager owns the per-user pipeline sessions. Sessions start when the chat
// is opened and stop at logout or server shutdown.
type Manager struct {
	profiles store.Profiles
	seq      *Sequencer

	mu       sync.Mutex
	sessions map[string]context.CancelFunc
	wg       sync.WaitGroup
}

// NewManager returns a Manager.
func NewManager(profiles store.Profiles, seq *Sequencer) *Manager {
	return &Manager{
		profiles: profiles,
		seq:      seq,
		sessions: map[string]context.CancelFunc{},
	}
}

// Start ensures a pipeline session is running for the user. Starting an
// already running session is a no-op.
func (m *Manager) Start(ctx context.Context, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[userID]; ok {
		return
	}
	sessCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.sessions[userID] = cancel

	sess := NewSession(userID, m.profiles, m.seq)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := sess.Run(sessCtx); err != nil {
			slog.ErrorContext(sessCtx, "onboarding: session ended", "error", err, "user", userID)
		}
		m.mu.Lock()
		delete(m.sessions, userID)
		m.mu.Unlock()
	}()
}

// Stop discards the user's session if one is running.
func (m *Manager) Stop(userID string) {
	m.mu.Lock()
	cancel := m.sessions[userID]
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Close stops all sessions and waits for them to finish.
func (m *Manager) Close() {
	m.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(m.sessions))
	for _, cancel := range m.sessions {
		cancels = append(cancels, cancel)
	}
	m.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
	m.wg.Wait()
}
