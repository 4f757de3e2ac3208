// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/cenkalti/backoff/v5"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/curioswitch/fitchat/server/internal/fitchatdb"
)

// NewFirestore returns store implementations backed by a Firestore client.
func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

// Firestore implements Profiles, Messages, Plans and Habits on Firestore.
type Firestore struct {
	client *firestore.Client
}

func (f *Firestore) userDoc(userID string) *firestore.DocumentRef {
	return f.client.Collection("users").Doc(userID)
}

func (f *Firestore) Profile(ctx context.Context, userID string) (*fitchatdb.UserProfile, error) {
	doc, err := f.userDoc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("store: getting profile: %w", err)
	}
	var profile fitchatdb.UserProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("store: decoding profile: %w", err)
	}
	return &profile, nil
}

func (f *Firestore) SaveProfile(ctx context.Context, userID string, profile *fitchatdb.UserProfile) error {
	fields := map[string]any{
		"displayName":        profile.DisplayName,
		"age":                profile.Age,
		"gender":             profile.Gender,
		"heightCm":           profile.HeightCm,
		"weightKg":           profile.WeightKg,
		"goals":              profile.Goals,
		"activityPreference": profile.ActivityPreference,
		"daysPerWeek":        profile.DaysPerWeek,
		"injuries":           profile.Injuries,
		"foodDislikes":       profile.FoodDislikes,
		"profileCompleted":   profile.ProfileCompleted,
		"updatedAt":          time.Now(),
	}
	if profile.AvatarURL != "" {
		fields["avatarUrl"] = profile.AvatarURL
	}
	if _, err := f.userDoc(userID).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("store: saving profile: %w", err)
	}
	return nil
}

func (f *Firestore) SetWelcomed(ctx context.Context, userID string) error {
	if _, err := f.userDoc(userID).Set(ctx, map[string]any{
		"welcomed":  true,
		"updatedAt": time.Now(),
	}, firestore.MergeAll); err != nil {
		return fmt.Errorf("store: setting welcomed: %w", err)
	}
	return nil
}

func (f *Firestore) SetOnboardingStep(ctx context.Context, userID string, step int) error {
	if _, err := f.userDoc(userID).Set(ctx, map[string]any{
		"onboardingStep": step,
		"updatedAt":      time.Now(),
	}, firestore.MergeAll); err != nil {
		return fmt.Errorf("store: setting onboarding step: %w", err)
	}
	return nil
}

func (f *Firestore) SetOnboarded(ctx context.Context, userID string, totalSteps int) error {
	if _, err := f.userDoc(userID).Set(ctx, map[string]any{
		"onboarded":      true,
		"onboardingStep": totalSteps,
		"updatedAt":      time.Now(),
	}, firestore.MergeAll); err != nil {
		return fmt.Errorf("store: setting onboarded: %w", err)
	}
	return nil
}

func (f *Firestore) WatchProfile(ctx context.Context, userID string, onChange func(*fitchatdb.UserProfile)) error {
	watch := func() (struct{}, error) {
		snaps := f.userDoc(userID).Snapshots(ctx)
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if ctx.Err() != nil {
					return struct{}{}, backoff.Permanent(ctx.Err())
				}
				return struct{}{}, fmt.Errorf("store: watching profile: %w", err)
			}
			if !snap.Exists() {
				onChange(nil)
				continue
			}
			var profile fitchatdb.UserProfile
			if err := snap.DataTo(&profile); err != nil {
				// A malformed document must not kill the watch, derivation
				// fails closed on the next good snapshot.
				slog.ErrorContext(ctx, "store: decoding profile snapshot", "error", err, "user", userID)
				continue
			}
			onChange(&profile)
		}
	}

	_, err := backoff.Retry(ctx, watch, backoff.WithBackOff(backoff.NewExponentialBackOff()))
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (f *Firestore) messagesCol(userID string) *firestore.CollectionRef {
	return f.userDoc(userID).Collection("messages")
}

func (f *Firestore) Messages(ctx context.Context, userID string) ([]fitchatdb.ChatMessage, error) {
	iter := f.messagesCol(userID).Query.OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var messages []fitchatdb.ChatMessage
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: fetching messages: %w", err)
		}
		var msg fitchatdb.ChatMessage
		if err := doc.DataTo(&msg); err != nil {
			return nil, fmt.Errorf("store: decoding message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (f *Firestore) Append(ctx context.Context, userID string, msg fitchatdb.ChatMessage) (string, error) {
	doc := f.messagesCol(userID).NewDoc()
	msg.ID = doc.ID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if _, err := doc.Create(ctx, msg); err != nil {
		return "", fmt.Errorf("store: appending message: %w", err)
	}
	return msg.ID, nil
}

func (f *Firestore) plansCol(userID string) *firestore.CollectionRef {
	return f.userDoc(userID).Collection("plans")
}

func (f *Firestore) CreatePlan(ctx context.Context, userID string, plan *fitchatdb.Plan) (bool, error) {
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}
	doc := f.plansCol(userID).Doc(plan.ID)
	if _, err := doc.Create(ctx, plan); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return false, nil
		}
		return false, fmt.Errorf("store: creating plan: %w", err)
	}
	return true, nil
}

func (f *Firestore) LatestPlan(ctx context.Context, userID string) (*fitchatdb.Plan, error) {
	doc, err := f.plansCol(userID).Query.OrderBy("createdAt", firestore.Desc).Limit(1).Documents(ctx).Next()
	if err != nil {
		if errors.Is(err, iterator.Done) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: fetching latest plan: %w", err)
	}
	var plan fitchatdb.Plan
	if err := doc.DataTo(&plan); err != nil {
		return nil, fmt.Errorf("store: decoding plan: %w", err)
	}
	return &plan, nil
}

func (f *Firestore) completionsCol(userID string, habitID string) *firestore.CollectionRef {
	return f.userDoc(userID).Collection("habits").Doc(habitID).Collection("completions")
}

func (f *Firestore) SetCompletion(ctx context.Context, userID string, rec fitchatdb.HabitCompletion) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	doc := f.completionsCol(userID, rec.HabitID).Doc(rec.Date)
	if _, err := doc.Set(ctx, rec); err != nil {
		return fmt.Errorf("store: saving habit completion: %w", err)
	}
	return nil
}

func (f *Firestore) Completions(ctx context.Context, userID string, habitID string) ([]fitchatdb.HabitCompletion, error) {
	iter := f.completionsCol(userID, habitID).Documents(ctx)
	defer iter.Stop()

	var recs []fitchatdb.HabitCompletion
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("store: fetching habit completions: %w", err)
		}
		var rec fitchatdb.HabitCompletion
		if err := doc.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("store: decoding habit completion: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
