// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package onboarding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/store"
)

func readyProfile() *fitchatdb.UserProfile {
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
		Welcomed:           true,
	}
}

func TestSession_DuplicateEventsAreNoOps(t *testing.T) {
	seq, mem, _ := newTestSequencer(t)
	sess := NewSession(testUser, mem, seq)
	ctx := t.Context()

	profile := readyProfile()
	require.NoError(t, sess.handle(ctx, profile))
	// The same logical event delivered again, at-least-once delivery.
	require.NoError(t, sess.handle(ctx, profile))

	assert.Equal(t, []int{0}, assistantSteps(t, mem))
}

func TestSession_IgnoresSessionsNotReadyForChat(t *testing.T) {
	seq, mem, _ := newTestSequencer(t)
	sess := NewSession(testUser, mem, seq)
	ctx := t.Context()

	require.NoError(t, sess.handle(ctx, nil))

	incomplete := readyProfile()
	incomplete.ProfileCompleted = false
	require.NoError(t, sess.handle(ctx, incomplete))

	notWelcomed := readyProfile()
	notWelcomed.Welcomed = false
	require.NoError(t, sess.handle(ctx, notWelcomed))

	done := readyProfile()
	done.Onboarded = true
	require.NoError(t, sess.handle(ctx, done))

	assert.Empty(t, assistantSteps(t, mem))
}

func TestSession_AdvancesWithStep(t *testing.T) {
	seq, mem, _ := newTestSequencer(t)
	sess := NewSession(testUser, mem, seq)
	ctx := t.Context()

	require.NoError(t, sess.handle(ctx, readyProfile()))

	advanced := readyProfile()
	advanced.OnboardingStep = 1
	require.NoError(t, sess.handle(ctx, advanced))

	assert.Equal(t, []int{0, 1}, assistantSteps(t, mem))
}

// Drives the full pipeline with store-produced events: saving a complete
// profile seeds the first question without any direct sequencer call.
func TestSession_RunSeedsFromWatch(t *testing.T) {
	mem := store.NewMemory()
	gen := &fakeGenerator{}
	seq := NewSequencer(mem, mem, mem, gen)
	sess := NewSession(testUser, mem, seq)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- sess.Run(ctx)
	}()

	require.NoError(t, mem.SaveProfile(ctx, testUser, readyProfile()))
	require.NoError(t, mem.SetWelcomed(ctx, testUser))

	require.Eventually(t, func() bool {
		msgs, err := mem.Messages(context.Background(), testUser)
		require.NoError(t, err)
		return len(msgs) == 1 && msgs[0].Role == fitchatdb.ChatRoleAssistant
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestManager_StartIsIdempotentAndStops(t *testing.T) {
	mem := store.NewMemory()
	gen := &fakeGenerator{}
	seq := NewSequencer(mem, mem, mem, gen)
	m := NewManager(mem, seq)

	ctx := t.Context()
	m.Start(ctx, testUser)
	m.Start(ctx, testUser)

	m.mu.Lock()
	assert.Len(t, m.sessions, 1)
	m.mu.Unlock()

	m.Stop(testUser)
	m.Close()
}
