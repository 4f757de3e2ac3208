// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package onboarding drives the scripted setup conversation: which question
// to send next, when to advance, and the single hand-off to plan generation
// when the script ends.
package onboarding

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
	"github.com/curioswitch/fitchat/server/internal/planner"
	"github.com/curioswitch/fitchat/server/internal/store"
)

// onboardingPlanID is the document ID for the plan generated at onboarding
// completion. Keeping it fixed makes create-if-absent the at-most-once guard
// even when duplicate completion triggers race.
const onboardingPlanID = "onboarding"

const fallbackCompletionMessage = "You're all set! I couldn't finish building your plan just now, but I'll have it ready shortly. Check back in a bit."

// Sequencer owns the onboarding step table and the progression writes.
type Sequencer struct {
	profiles  store.Profiles
	messages  store.Messages
	plans     store.Plans
	generator planner.Generator

	questions    []Question
	advanceDelay time.Duration

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithQuestions replaces the default question table.
func WithQuestions(questions []Question) Option {
	return func(s *Sequencer) {
		s.questions = questions
	}
}

// WithAdvanceDelay sets the pacing delay before auto-advancing informational
// steps. Zero advances immediately, the delay has no correctness role.
func WithAdvanceDelay(d time.Duration) Option {
	return func(s *Sequencer) {
		s.advanceDelay = d
	}
}

// NewSequencer returns a Sequencer.
func NewSequencer(profiles store.Profiles, messages store.Messages, plans store.Plans, generator planner.Generator, opts ...Option) *Sequencer {
	s := &Sequencer{
		profiles:  profiles,
		messages:  messages,
		plans:     plans,
		generator: generator,
		questions: DefaultQuestions(),
		userLocks: map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TotalSteps is the terminal step index: one past the last question.
func (s *Sequencer) TotalSteps() int {
	return len(s.questions)
}

// HasQuestionBeenSent reports whether the question for a step is already in
// the message log. Emission dedupes on it, so observing the same profile
// state twice never double-sends.
func HasQuestionBeenSent(messages []fitchatdb.ChatMessage, step int) bool {
	for _, msg := range messages {
		if msg.Role != fitchatdb.ChatRoleAssistant {
			continue
		}
		if ob := msg.Meta.Onboarding; ob != nil && ob.Step == step {
			return true
		}
	}
	return false
}

func (s *Sequencer) question(step int) (Question, bool) {
	for _, q := range s.questions {
		if q.Step == step {
			return q, true
		}
	}
	return Question{}, false
}

// RequiresAnswer reports whether a step waits for a user answer. Steps
// outside the table never do.
func (s *Sequencer) RequiresAnswer(step int) bool {
	q, ok := s.question(step)
	return ok && q.AnswerRequired
}

// SendNextQuestion emits the scripted question for a step, completing
// onboarding if the step is past the table. Emission is idempotent: a
// duplicate invocation for an already-sent step is a no-op.
func (s *Sequencer) SendNextQuestion(ctx context.Context, userID string, step int) error {
	if step >= s.TotalSteps() {
		return s.completeOnboarding(ctx, userID)
	}

	q, ok := s.question(step)
	if !ok {
		// A hole in the script is a data bug for operators, not a reason to
		// crash the conversation or advance past it.
		slog.ErrorContext(ctx, "onboarding: no question for step", "step", step, "user", userID)
		return nil
	}

	sent, err := s.emitQuestion(ctx, userID, q)
	if err != nil {
		return err
	}
	if !sent {
		return nil
	}

	if !q.AnswerRequired {
		if s.advanceDelay > 0 {
			t := time.NewTimer(s.advanceDelay)
			select {
			case <-ctx.Done():
				t.Stop()
				return fmt.Errorf("onboarding: waiting to auto-advance: %w", ctx.Err())
			case <-t.C:
			}
		}
		return s.ProgressStep(ctx, userID, step)
	}
	return nil
}

// userLock returns the lock serializing question emission for one user. The
// answer handler's synchronous advance and the watch-driven pipeline can race
// to emit the same step, so the duplicate check and the append must be atomic
// against each other.
func (s *Sequencer) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.userLocks[userID]
	if l == nil {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	return l
}

// emitQuestion appends the question for a step unless it is already in the
// log, reporting whether this call emitted it.
func (s *Sequencer) emitQuestion(ctx context.Context, userID string, q Question) (bool, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	messages, err := s.messages.Messages(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("onboarding: fetching messages: %w", err)
	}
	if HasQuestionBeenSent(messages, q.Step) {
		return false, nil
	}

	if _, err := s.messages.Append(ctx, userID, fitchatdb.ChatMessage{
		Role:    fitchatdb.ChatRoleAssistant,
		Content: q.Prompt,
		Meta: fitchatdb.MessageMeta{
			Onboarding: &fitchatdb.OnboardingMeta{
				Step:           q.Step,
				AnswerRequired: q.AnswerRequired,
			},
		},
	}); err != nil {
		return false, fmt.Errorf("onboarding: appending question: %w", err)
	}
	return true, nil
}

// ProgressStep advances the profile to the step after currentStep and sends
// the question for it. This is the only mutation of the step index during
// the conversational phase. A write error propagates without retry: the
// caller may retry the whole operation with the same currentStep, but never
// with an incremented one.
func (s *Sequencer) ProgressStep(ctx context.Context, userID string, currentStep int) error {
	next := currentStep + 1
	if err := s.profiles.SetOnboardingStep(ctx, userID, next); err != nil {
		return fmt.Errorf("onboarding: advancing step: %w", err)
	}
	// The store acknowledged the write, dependent reads are safe now.
	return s.SendNextQuestion(ctx, userID, next)
}

// completeOnboarding marks the conversation done and hands off to plan
// generation. The flag write happens first so a client reconnecting
// mid-generation sees onboarding complete instead of being re-prompted.
func (s *Sequencer) completeOnboarding(ctx context.Context, userID string) error {
	if err := s.profiles.SetOnboarded(ctx, userID, s.TotalSteps()); err != nil {
		return fmt.Errorf("onboarding: marking onboarded: %w", err)
	}
	return s.generatePlanOnce(ctx, userID)
}

// generatePlanOnce issues the single plan-generation request for the
// onboarding run: one request, one persisted plan, one completion message,
// even under duplicate completion triggers. Generation failure leaves the
// onboarded flag intact and surfaces as a fallback message.
func (s *Sequencer) generatePlanOnce(ctx context.Context, userID string) error {
	existing, err := s.plans.LatestPlan(ctx, userID)
	if err != nil {
		return fmt.Errorf("onboarding: checking for existing plan: %w", err)
	}
	if existing != nil {
		return nil
	}

	var profile *fitchatdb.UserProfile
	var messages []fitchatdb.ChatMessage
	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		var err error
		profile, err = s.profiles.Profile(grpCtx, userID)
		return err
	})
	grp.Go(func() error {
		var err error
		messages, err = s.messages.Messages(grpCtx, userID)
		return err
	})
	if err := grp.Wait(); err != nil {
		return fmt.Errorf("onboarding: loading completion context: %w", err)
	}

	contextText := s.answerContext(messages)

	plan, err := s.generator.GeneratePlan(ctx, contextText, profile)
	if err != nil {
		slog.ErrorContext(ctx, "onboarding: generating plan", "error", err, "user", userID)
		if _, err := s.messages.Append(ctx, userID, fitchatdb.ChatMessage{
			Role:    fitchatdb.ChatRoleSystem,
			Content: fallbackCompletionMessage,
			Meta: fitchatdb.MessageMeta{
				Error: &fitchatdb.ErrorMeta{Code: "plan-generation-failed"},
			},
		}); err != nil {
			return fmt.Errorf("onboarding: appending fallback message: %w", err)
		}
		return nil
	}
	plan.ID = onboardingPlanID

	created, err := s.plans.CreatePlan(ctx, userID, plan)
	if err != nil {
		return fmt.Errorf("onboarding: saving plan: %w", err)
	}
	if !created {
		// Another trigger won the race, its celebration message stands.
		return nil
	}

	celebration, err := s.generator.CompletionMessage(ctx, profile)
	if err != nil {
		slog.WarnContext(ctx, "onboarding: generating completion message", "error", err, "user", userID)
		name := ""
		if profile != nil {
			name = profile.DisplayName
		}
		celebration = celebrationMessage(name)
	}
	if _, err := s.messages.Append(ctx, userID, fitchatdb.ChatMessage{
		Role:    fitchatdb.ChatRoleSystem,
		Content: celebration,
	}); err != nil {
		return fmt.Errorf("onboarding: appending completion message: %w", err)
	}
	return nil
}

// answerContext concatenates the user's answers in step order into the
// context blob for plan generation.
func (s *Sequencer) answerContext(messages []fitchatdb.ChatMessage) string {
	type answer struct {
		step int
		text string
	}
	var answers []answer
	for _, msg := range messages {
		if msg.Role != fitchatdb.ChatRoleUser || msg.Meta.Onboarding == nil {
			continue
		}
		answers = append(answers, answer{step: msg.Meta.Onboarding.Step, text: msg.Content})
	}
	sort.SliceStable(answers, func(i, j int) bool { return answers[i].step < answers[j].step })

	var sb strings.Builder
	for _, a := range answers {
		label := fmt.Sprintf("step %d", a.step)
		if q, ok := s.question(a.step); ok {
			label = q.ShortLabel
		}
		fmt.Fprintf(&sb, "%s: %s\n", label, a.text)
	}
	return sb.String()
}

func celebrationMessage(name string) string {
	if name == "" {
		return "Your personalized plan is ready! Head to the plan tab to see your meals and workouts for the week."
	}
	return fmt.Sprintf("%s, your personalized plan is ready! Head to the plan tab to see your meals and workouts for the week.", name)
}
