// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
)

// NewMemory returns an in-memory store implementation. It backs tests and
// local development without a Firestore emulator, with the same at-least-once
// watch delivery contract.
func NewMemory() *Memory {
	return &Memory{
		profiles:    map[string]*fitchatdb.UserProfile{},
		messages:    map[string][]fitchatdb.ChatMessage{},
		plans:       map[string]map[string]*fitchatdb.Plan{},
		completions: map[string]map[string]fitchatdb.HabitCompletion{},
	}
}

// Memory implements Profiles, Messages, Plans and Habits in process.
type Memory struct {
	mu sync.Mutex

	profiles    map[string]*fitchatdb.UserProfile
	messages    map[string][]fitchatdb.ChatMessage
	plans       map[string]map[string]*fitchatdb.Plan // userID -> planID -> plan
	completions map[string]map[string]fitchatdb.HabitCompletion

	watchers []profileWatcher
	nextID   int
}

type profileWatcher struct {
	userID string
	ch     chan *fitchatdb.UserProfile
}

func clone(p *fitchatdb.UserProfile) *fitchatdb.UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func (m *Memory) Profile(_ context.Context, userID string) (*fitchatdb.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.profiles[userID]), nil
}

func (m *Memory) mutateProfile(userID string, mutate func(*fitchatdb.UserProfile)) {
	m.mu.Lock()
	p := m.profiles[userID]
	if p == nil {
		p = &fitchatdb.UserProfile{CreatedAt: time.Now()}
		m.profiles[userID] = p
	}
	mutate(p)
	p.UpdatedAt = time.Now()
	watchers := slices.Clone(m.watchers)
	snapshot := clone(p)
	m.mu.Unlock()

	for _, w := range watchers {
		if w.userID == userID {
			w.ch <- snapshot
		}
	}
}

func (m *Memory) SaveProfile(_ context.Context, userID string, profile *fitchatdb.UserProfile) error {
	m.mutateProfile(userID, func(p *fitchatdb.UserProfile) {
		p.DisplayName = profile.DisplayName
		p.Age = profile.Age
		p.Gender = profile.Gender
		p.HeightCm = profile.HeightCm
		p.WeightKg = profile.WeightKg
		p.Goals = profile.Goals
		p.ActivityPreference = profile.ActivityPreference
		p.DaysPerWeek = profile.DaysPerWeek
		p.Injuries = profile.Injuries
		p.FoodDislikes = profile.FoodDislikes
		p.ProfileCompleted = profile.ProfileCompleted
		if profile.AvatarURL != "" {
			p.AvatarURL = profile.AvatarURL
		}
	})
	return nil
}

func (m *Memory) SetWelcomed(_ context.Context, userID string) error {
	m.mutateProfile(userID, func(p *fitchatdb.UserProfile) {
		p.Welcomed = true
	})
	return nil
}

func (m *Memory) SetOnboardingStep(_ context.Context, userID string, step int) error {
	m.mutateProfile(userID, func(p *fitchatdb.UserProfile) {
		p.OnboardingStep = step
	})
	return nil
}

func (m *Memory) SetOnboarded(_ context.Context, userID string, totalSteps int) error {
	m.mutateProfile(userID, func(p *fitchatdb.UserProfile) {
		p.Onboarded = true
		p.OnboardingStep = totalSteps
	})
	return nil
}

func (m *Memory) WatchProfile(ctx context.Context, userID string, onChange func(*fitchatdb.UserProfile)) error {
	ch := make(chan *fitchatdb.UserProfile, 16)
	m.mu.Lock()
	m.watchers = append(m.watchers, profileWatcher{userID: userID, ch: ch})
	initial := clone(m.profiles[userID])
	m.mu.Unlock()

	// Like Firestore, the watch starts with the current document state.
	onChange(initial)

	defer func() {
		m.mu.Lock()
		m.watchers = slices.DeleteFunc(m.watchers, func(w profileWatcher) bool { return w.ch == ch })
		m.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-ch:
			onChange(p)
		}
	}
}

func (m *Memory) Messages(_ context.Context, userID string) ([]fitchatdb.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.messages[userID]), nil
}

func (m *Memory) Append(_ context.Context, userID string, msg fitchatdb.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	msg.ID = fmt.Sprintf("msg-%04d", m.nextID)
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	m.messages[userID] = append(m.messages[userID], msg)
	return msg.ID, nil
}

func (m *Memory) CreatePlan(_ context.Context, userID string, plan *fitchatdb.Plan) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plans := m.plans[userID]
	if plans == nil {
		plans = map[string]*fitchatdb.Plan{}
		m.plans[userID] = plans
	}
	if _, ok := plans[plan.ID]; ok {
		return false, nil
	}
	c := *plan
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	plans[plan.ID] = &c
	return true, nil
}

func (m *Memory) LatestPlan(_ context.Context, userID string) (*fitchatdb.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *fitchatdb.Plan
	for _, p := range m.plans[userID] {
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := *latest
	return &c, nil
}

func (m *Memory) SetCompletion(_ context.Context, userID string, rec fitchatdb.HabitCompletion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.completions[userID]
	if recs == nil {
		recs = map[string]fitchatdb.HabitCompletion{}
		m.completions[userID] = recs
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	recs[rec.HabitID+"/"+rec.Date] = rec
	return nil
}

func (m *Memory) Completions(_ context.Context, userID string, habitID string) ([]fitchatdb.HabitCompletion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var recs []fitchatdb.HabitCompletion
	for _, rec := range m.completions[userID] {
		if rec.HabitID == habitID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Date < recs[j].Date })
	return recs, nil
}
