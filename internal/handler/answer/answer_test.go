// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package answer

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioswitch/fitchat/server/internal/auth"
	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/httpapi"
	"github.com/curioswitch/fitchat/server/internal/onboarding"
	"github.com/curioswitch/fitchat/server/internal/store"
)

const testUser = "user-1"

type stubGenerator struct{}

func (stubGenerator) GeneratePlan(context.Context, string, *fitchatdb.UserProfile) (*fitchatdb.Plan, error) {
	return &fitchatdb.Plan{Days: []fitchatdb.PlanDay{{Label: "Day 1"}}}, nil
}

func (stubGenerator) CompletionMessage(context.Context, *fitchatdb.UserProfile) (string, error) {
	return "done!", nil
}

func newTestHandler(t *testing.T) (*Handler, *store.Memory, context.Context) {
	t.Helper()
	mem := store.NewMemory()
	seq := onboarding.NewSequencer(mem, mem, mem, stubGenerator{}, onboarding.WithQuestions([]onboarding.Question{
		{Step: 0, Prompt: "q0", ShortLabel: "goals", AnswerRequired: true},
		{Step: 1, Prompt: "heads up", ShortLabel: "info"},
	}))
	ctx := auth.WithUserID(t.Context(), testUser)
	require.NoError(t, mem.SaveProfile(ctx, testUser, &fitchatdb.UserProfile{
		DisplayName: "Aki", ProfileCompleted: true,
	}))
	return NewHandler(mem, mem, seq), mem, ctx
}

func TestAnswer_AdvancesRequiredStep(t *testing.T) {
	h, mem, ctx := newTestHandler(t)

	res, err := h.Answer(ctx, &AnswerRequest{Text: "get strong"})
	require.NoError(t, err)
	assert.True(t, res.Advanced)
	assert.Equal(t, 1, res.Step)

	profile, err := mem.Profile(ctx, testUser)
	require.NoError(t, err)
	// Step 1 is informational and auto-advances past the table.
	assert.True(t, profile.Onboarded)

	msgs, err := mem.Messages(ctx, testUser)
	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	assert.Equal(t, fitchatdb.ChatRoleUser, msgs[0].Role)
	assert.Equal(t, "get strong", msgs[0].Content)
	require.NotNil(t, msgs[0].Meta.Onboarding)
	assert.Equal(t, 0, msgs[0].Meta.Onboarding.Step)
}

func TestAnswer_PersistsWithoutAdvancingInformationalStep(t *testing.T) {
	h, mem, ctx := newTestHandler(t)
	require.NoError(t, mem.SetOnboardingStep(ctx, testUser, 1))

	res, err := h.Answer(ctx, &AnswerRequest{Text: "sounds good"})
	require.NoError(t, err)
	assert.False(t, res.Advanced)
	assert.Equal(t, 1, res.Step)

	msgs, err := mem.Messages(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "sounds good", msgs[0].Content)
	require.NotNil(t, msgs[0].Meta.Onboarding)
	assert.Equal(t, 1, msgs[0].Meta.Onboarding.Step)
}

func TestAnswer_Rejections(t *testing.T) {
	h, mem, ctx := newTestHandler(t)

	_, err := h.Answer(t.Context(), &AnswerRequest{Text: "hi"})
	requireStatus(t, err, http.StatusUnauthorized)

	_, err = h.Answer(ctx, &AnswerRequest{Text: "   "})
	requireStatus(t, err, http.StatusBadRequest)

	require.NoError(t, mem.SetOnboarded(ctx, testUser, 2))
	_, err = h.Answer(ctx, &AnswerRequest{Text: "hi"})
	requireStatus(t, err, http.StatusConflict)
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var herr *httpapi.Error
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, status, herr.Status)
}
